// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ansible

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teradata-labs/anvil/internal/pathguard"
	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

// Juniper modules driven by the device tools.
const (
	junosFactsModule   = "junipernetworks.junos.junos_facts"
	junosConfigModule  = "junipernetworks.junos.junos_config"
	junosCommandModule = "junipernetworks.junos.junos_command"
)

func (p *Provider) registerEngineTools() {
	p.register(protocol.Tool{
		Name:        "ansible_adhoc_command",
		Description: "Run an ad-hoc Ansible command. Common modules: junos_command, junos_config, ping, raw.",
		InputSchema: objectSchema(map[string]interface{}{
			"module_name":  stringSchema("Ansible module to run"),
			"module_args":  stringSchema("Arguments passed to the module"),
			"target_hosts": stringSchema("Hosts or groups to target (default: all)"),
		}),
	}, p.adhocCommand)

	p.register(protocol.Tool{
		Name:        "ansible_ping_devices",
		Description: "Test connectivity to network devices using Ansible ping.",
		InputSchema: objectSchema(map[string]interface{}{
			"target_hosts": stringSchema("Hosts or groups to target (default: all)"),
		}),
	}, p.pingDevices)

	p.register(protocol.Tool{
		Name:        "ansible_get_facts",
		Description: "Gather device facts. Use gather_subset to limit (e.g., hardware, config, interfaces).",
		InputSchema: objectSchema(map[string]interface{}{
			"target_hosts":  stringSchema("Hosts or groups to target (default: all)"),
			"gather_subset": stringSchema("Restrict fact gathering to a subset"),
		}),
	}, p.getFacts)

	p.register(protocol.Tool{
		Name:        "ansible_get_config",
		Description: "Retrieve running configuration. Formats: text, set, json, xml.",
		InputSchema: objectSchema(map[string]interface{}{
			"target_hosts":  stringSchema("Hosts or groups to target (default: all)"),
			"config_format": stringSchema("Configuration display format (default: text)"),
		}),
	}, p.getConfig)

	p.register(protocol.Tool{
		Name:        "ansible_run_command",
		Description: "Run operational commands on devices (e.g., show version). Separate multiple with comma.",
		InputSchema: objectSchema(map[string]interface{}{
			"target_hosts": stringSchema("Hosts or groups to target (default: all)"),
			"commands":     stringSchema("Comma-separated operational commands"),
		}),
	}, p.runCommand)

	p.register(protocol.Tool{
		Name:        "ansible_push_config",
		Description: "Push configuration to devices. config_format: set, text, json. Set commit=no for candidate only.",
		InputSchema: objectSchema(map[string]interface{}{
			"target_hosts":  stringSchema("Hosts or groups to push to"),
			"config_lines":  stringSchema("Configuration lines, one per line"),
			"config_format": stringSchema("Configuration format (default: set)"),
			"commit":        stringSchema("Commit the change (yes/no, default yes)"),
			"check_mode":    stringSchema("Dry run only (yes/no, default no)"),
		}),
	}, p.pushConfig)
}

// adhocArgv builds an `ansible` invocation against the managed inventory.
func (p *Provider) adhocArgv(targets, module string, moduleArgs string) []string {
	argv := []string{"ansible", "-i", p.cfg.InventoryPath(), targets, "-m", module}
	if moduleArgs != "" {
		argv = append(argv, "-a", moduleArgs)
	}
	return argv
}

// targets sanitizes a target_hosts argument, defaulting to all.
func targets(args map[string]interface{}) string {
	t := pathguard.SanitizeArgument(strArg(args, "target_hosts"))
	if t == "" {
		return "all"
	}
	return t
}

func (p *Provider) adhocCommand(ctx context.Context, args map[string]interface{}) string {
	module := strArg(args, "module_name")
	if module == "" {
		return "ERROR: No module specified. Common modules: " + junosCommandModule + ", " + junosConfigModule + ", ping, raw"
	}
	module = pathguard.SanitizeArgument(module)
	return p.engineRun(ctx, p.adhocArgv(targets(args), module, strArg(args, "module_args")), p.timeout)
}

func (p *Provider) pingDevices(ctx context.Context, args map[string]interface{}) string {
	raw := p.engineRun(ctx, p.adhocArgv(targets(args), "ping", ""), pingTimeout)

	reachable := strings.Count(raw, "SUCCESS")
	failed := strings.Count(raw, "UNREACHABLE") + strings.Count(raw, "FAILED")

	header := fmt.Sprintf("=== CONNECTIVITY ===\nReachable: %d\nFailed: %d\n\n", reachable, failed)
	return header + raw
}

func (p *Provider) getFacts(ctx context.Context, args map[string]interface{}) string {
	moduleArgs := ""
	if subset := strArg(args, "gather_subset"); subset != "" {
		moduleArgs = "gather_subset=" + pathguard.SanitizeArgument(subset)
	}
	return p.engineRun(ctx, p.adhocArgv(targets(args), junosFactsModule, moduleArgs), deviceTimeout)
}

func (p *Provider) getConfig(ctx context.Context, args map[string]interface{}) string {
	format := pathguard.SanitizeArgument(strArg(args, "config_format"))
	if format == "" {
		format = "text"
	}
	switch format {
	case "text", "set", "json", "xml":
	default:
		return "ERROR: Invalid format. Use: text, set, json, xml"
	}

	return p.engineRun(ctx, p.adhocArgv(targets(args), junosConfigModule, "display="+format), deviceTimeout)
}

func (p *Provider) runCommand(ctx context.Context, args map[string]interface{}) string {
	commands := strArg(args, "commands")
	if commands == "" {
		return "ERROR: No commands specified. Example: commands='show version' or 'show version,show interfaces'"
	}

	var list []string
	for _, c := range strings.Split(commands, ",") {
		list = append(list, strings.TrimSpace(c))
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return "ERROR: " + err.Error()
	}

	moduleArgs := "commands=" + string(encoded)
	return p.engineRun(ctx, p.adhocArgv(targets(args), junosCommandModule, moduleArgs), deviceTimeout)
}

func (p *Provider) pushConfig(ctx context.Context, args map[string]interface{}) string {
	hosts := pathguard.SanitizeArgument(strArg(args, "target_hosts"))
	if hosts == "" {
		return "ERROR: No target hosts specified."
	}
	configLines := strArg(args, "config_lines")
	if configLines == "" {
		return "ERROR: No configuration provided."
	}

	format := pathguard.SanitizeArgument(strArg(args, "config_format"))
	if format == "" {
		format = "set"
	}
	switch format {
	case "set", "text", "json":
	default:
		return "ERROR: Invalid format. Use: set, text, json"
	}

	var lines []string
	for _, line := range strings.Split(configLines, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		return "ERROR: " + err.Error()
	}

	commit := "no"
	if affirmative(strArgDefault(args, "commit", "yes")) {
		commit = "yes"
	}
	moduleArgs := fmt.Sprintf("lines=%s update=merge commit=%s", encoded, commit)

	argv := p.adhocArgv(hosts, junosConfigModule, moduleArgs)
	if affirmative(strArg(args, "check_mode")) {
		argv = append(argv, "--check")
		return "=== DRY RUN ===\n" + p.engineRun(ctx, argv, deviceTimeout)
	}
	return p.engineRun(ctx, argv, deviceTimeout)
}
