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
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/teradata-labs/anvil/internal/inventory"
	"github.com/teradata-labs/anvil/internal/pathguard"
	"github.com/teradata-labs/anvil/internal/runner"
	"github.com/teradata-labs/anvil/internal/store"
	"github.com/teradata-labs/anvil/internal/summary"
	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

// inventoryAsset is the store-relative path of the primary inventory file.
const inventoryAsset = "inventory/hosts.ini"

func (p *Provider) registerInventoryTools() {
	p.register(protocol.Tool{
		Name:        "ansible_read_inventory",
		Description: "Read and display the current inventory file (hosts.ini).",
		InputSchema: objectSchema(nil),
	}, p.readInventory)

	p.register(protocol.Tool{
		Name:        "ansible_write_inventory",
		Description: "Write/update the inventory file (hosts.ini). Provide the complete INI-format inventory content.",
		InputSchema: objectSchema(map[string]interface{}{
			"content": stringSchema("Complete INI-format inventory content"),
		}),
	}, p.writeInventory)

	p.register(protocol.Tool{
		Name:        "ansible_add_host",
		Description: "Add a new host to the inventory. extra_vars format: var1=value1 var2=value2",
		InputSchema: objectSchema(map[string]interface{}{
			"hostname":     stringSchema("Host identifier to add"),
			"ansible_host": stringSchema("IP address or FQDN of the host"),
			"group":        stringSchema("Inventory group (default: all)"),
			"extra_vars":   stringSchema("Additional host attributes, space separated key=value pairs"),
		}),
	}, p.addHost)

	p.register(protocol.Tool{
		Name:        "ansible_remove_host",
		Description: "Remove a host from the inventory. Set confirm=yes to actually remove.",
		InputSchema: objectSchema(map[string]interface{}{
			"hostname": stringSchema("Host identifier to remove"),
			"confirm":  stringSchema("Must be yes to perform the removal"),
		}),
	}, p.removeHost)

	p.register(protocol.Tool{
		Name:        "ansible_list_inventory",
		Description: "List all hosts and groups in the inventory.",
		InputSchema: objectSchema(map[string]interface{}{
			"show_vars": stringSchema("Include full variable output (yes/no, default no)"),
		}),
	}, p.listInventory)

	p.register(protocol.Tool{
		Name:        "ansible_show_host_vars",
		Description: "Show all effective variables for a host (combines inventory, group_vars, host_vars).",
		InputSchema: objectSchema(map[string]interface{}{
			"hostname": stringSchema("Host to inspect"),
		}),
	}, p.showHostVars)
}

func (p *Provider) readInventory(_ context.Context, _ map[string]interface{}) string {
	content, err := p.store.Read(inventoryAsset)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "ERROR: Inventory file not found at " + p.cfg.InventoryPath() +
				"\n\nUse ansible_write_inventory to create one."
		}
		return "ERROR: Failed to read inventory: " + err.Error()
	}
	return "=== INVENTORY: " + p.cfg.InventoryPath() + " ===\n\n" + content
}

func (p *Provider) writeInventory(ctx context.Context, args map[string]interface{}) string {
	content := strArg(args, "content")
	if content == "" {
		return "ERROR: No inventory content provided. Example format:\n\n[group_name]\nhost1 ansible_host=192.168.1.1\nhost2 ansible_host=192.168.1.2"
	}

	backupName, err := p.store.Write(inventoryAsset, content, true)
	if err != nil {
		return "ERROR: Failed to write inventory: " + err.Error()
	}

	// Validate the new inventory with the engine; the write stands either
	// way, the caller just gets warned.
	res := p.runner.Run(ctx, runner.Spec{
		Argv:    []string{"ansible-inventory", "-i", p.cfg.InventoryPath(), "--list"},
		Dir:     p.cfg.Root,
		Timeout: validateTimeout,
	})

	backupNote := ""
	if backupName != "" {
		backupNote = "\nBackup: " + backupName
	}
	if res.LaunchErr != "" || res.TimedOut || res.ExitCode != 0 {
		detail := res.Stderr
		if detail == "" {
			detail = res.Format()
		}
		return "WARNING: Inventory written but validation failed:\n" + detail + backupNote
	}
	return "SUCCESS: Inventory updated at " + p.cfg.InventoryPath() + backupNote
}

func (p *Provider) addHost(_ context.Context, args map[string]interface{}) string {
	hostname := pathguard.SanitizeArgument(strArg(args, "hostname"))
	addr := pathguard.SanitizeArgument(strArg(args, "ansible_host"))
	group := pathguard.SanitizeArgument(strArg(args, "group"))
	extra := pathguard.SanitizeArgument(strArg(args, "extra_vars"))

	if hostname == "" {
		return "ERROR: No hostname specified."
	}
	if addr == "" {
		return "ERROR: No ansible_host (IP address) specified."
	}
	if group == "" {
		group = "all"
	}

	current, err := p.store.Read(inventoryAsset)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "ERROR: Failed to read inventory: " + err.Error()
	}

	updated, err := inventory.AddHost(current, hostname, addr, group, extra)
	if err != nil {
		if errors.Is(err, inventory.ErrDuplicateHost) {
			return fmt.Sprintf("ERROR: Host '%s' already exists in inventory.", hostname)
		}
		return "ERROR: " + err.Error()
	}

	if _, err := p.store.Write(inventoryAsset, updated, true); err != nil {
		return "ERROR: Failed to write inventory: " + err.Error()
	}
	return fmt.Sprintf("SUCCESS: Added host '%s' (%s) to group '%s'", hostname, addr, group)
}

func (p *Provider) removeHost(_ context.Context, args map[string]interface{}) string {
	hostname := strArg(args, "hostname")
	if hostname == "" {
		return "ERROR: No hostname specified."
	}
	if !affirmative(strArg(args, "confirm")) {
		return fmt.Sprintf("WARNING: This will remove '%s' from inventory. Set confirm=yes to proceed.", hostname)
	}

	hostname = pathguard.SanitizeArgument(hostname)

	current, err := p.store.Read(inventoryAsset)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "ERROR: Inventory file not found."
		}
		return "ERROR: Failed to read inventory: " + err.Error()
	}

	updated, err := inventory.RemoveHost(current, hostname)
	if err != nil {
		if errors.Is(err, inventory.ErrHostNotFound) {
			return fmt.Sprintf("ERROR: Host '%s' not found in inventory.", hostname)
		}
		return "ERROR: " + err.Error()
	}

	if _, err := p.store.Write(inventoryAsset, updated, true); err != nil {
		return "ERROR: Failed to write inventory: " + err.Error()
	}
	return fmt.Sprintf("SUCCESS: Removed host '%s' from inventory.", hostname)
}

func (p *Provider) listInventory(ctx context.Context, args map[string]interface{}) string {
	res := p.runner.Run(ctx, runner.Spec{
		Argv:    []string{"ansible-inventory", "-i", p.cfg.InventoryPath(), "--list"},
		Dir:     p.cfg.Root,
		Timeout: inventoryTimeout,
	})
	raw := res.Format()

	if affirmative(strArg(args, "show_vars")) {
		return raw
	}

	v, err := summary.ExtractJSON(raw)
	if err != nil {
		return raw
	}
	data, ok := v.(map[string]interface{})
	if !ok {
		return raw
	}

	out := []string{"=== INVENTORY ===", ""}

	if meta, ok := data["_meta"].(map[string]interface{}); ok {
		if hostvars, ok := meta["hostvars"].(map[string]interface{}); ok {
			hosts := make([]string, 0, len(hostvars))
			for h := range hostvars {
				hosts = append(hosts, h)
			}
			sort.Strings(hosts)
			out = append(out,
				fmt.Sprintf("Total Hosts: %d", len(hosts)),
				"Hosts: "+strings.Join(hosts, ", "),
			)
		}
	}

	var groups []string
	for k := range data {
		if k != "_meta" && k != "all" {
			groups = append(groups, k)
		}
	}
	sort.Strings(groups)
	if len(groups) > 0 {
		out = append(out, "", fmt.Sprintf("Groups (%d):", len(groups)))
		for _, g := range groups {
			gd, ok := data[g].(map[string]interface{})
			if !ok {
				continue
			}
			hosts, ok := gd["hosts"].([]interface{})
			if !ok {
				continue
			}
			names := make([]string, 0, len(hosts))
			for _, h := range hosts {
				names = append(names, fmt.Sprint(h))
			}
			out = append(out, fmt.Sprintf("  [%s]: %s", g, strings.Join(names, ", ")))
		}
	}

	return strings.Join(out, "\n")
}

func (p *Provider) showHostVars(ctx context.Context, args map[string]interface{}) string {
	hostname := pathguard.SanitizeArgument(strArg(args, "hostname"))
	if hostname == "" {
		return "ERROR: No hostname specified."
	}

	res := p.runner.Run(ctx, runner.Spec{
		Argv:    []string{"ansible-inventory", "-i", p.cfg.InventoryPath(), "--host", hostname},
		Dir:     p.cfg.Root,
		Timeout: inventoryTimeout,
	})
	raw := res.Format()

	v, err := summary.ExtractJSON(raw)
	if err != nil {
		return raw
	}

	if vars, ok := v.(map[string]interface{}); ok {
		v = maskSensitive(vars)
	}
	rendered, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return raw
	}
	return "=== EFFECTIVE VARIABLES: " + hostname + " ===\n\n" + string(rendered)
}

// maskSensitive replaces the values of password/secret style keys so they
// never appear in a returned variable listing.
func maskSensitive(vars map[string]interface{}) map[string]interface{} {
	safe := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		if sensitiveKey(k) {
			safe[k] = maskValue
			continue
		}
		safe[k] = v
	}
	return safe
}
