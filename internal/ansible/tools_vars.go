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
	"strings"

	"github.com/teradata-labs/anvil/internal/pathguard"
	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

const (
	groupVarsRel = "group_vars"
	hostVarsRel  = "host_vars"
)

func (p *Provider) registerVarsTools() {
	p.register(protocol.Tool{
		Name:        "ansible_list_vars",
		Description: "List all group_vars and host_vars files.",
		InputSchema: objectSchema(nil),
	}, p.listVars)

	p.register(protocol.Tool{
		Name:        "ansible_read_group_vars",
		Description: "Read variables for a group from group_vars/. Empty group_name lists available groups.",
		InputSchema: objectSchema(map[string]interface{}{
			"group_name": stringSchema("Group whose variables to read"),
		}),
	}, p.readGroupVars)

	p.register(protocol.Tool{
		Name:        "ansible_write_group_vars",
		Description: "Write/update variables for a group in group_vars/. Provide YAML content.",
		InputSchema: objectSchema(map[string]interface{}{
			"group_name": stringSchema("Group whose variables to write"),
			"content":    stringSchema("YAML-formatted variable content"),
		}),
	}, p.writeGroupVars)

	p.register(protocol.Tool{
		Name:        "ansible_read_host_vars",
		Description: "Read variables for a specific host from host_vars/. Empty hostname lists available hosts.",
		InputSchema: objectSchema(map[string]interface{}{
			"hostname": stringSchema("Host whose variables to read"),
		}),
	}, p.readHostVars)

	p.register(protocol.Tool{
		Name:        "ansible_write_host_vars",
		Description: "Write/update variables for a specific host in host_vars/. Provide YAML content.",
		InputSchema: objectSchema(map[string]interface{}{
			"hostname": stringSchema("Host whose variables to write"),
			"content":  stringSchema("YAML-formatted variable content"),
		}),
	}, p.writeHostVars)
}

func (p *Provider) listVars(_ context.Context, _ map[string]interface{}) string {
	out := []string{"=== ANSIBLE VARIABLES ===", ""}
	out = append(out, "GROUP VARS (group_vars/):")
	out = append(out, p.varsSection(groupVarsRel)...)
	out = append(out, "", "HOST VARS (host_vars/):")
	out = append(out, p.varsSection(hostVarsRel)...)
	return strings.Join(out, "\n")
}

func (p *Provider) varsSection(rel string) []string {
	files, err := p.varsFiles(rel)
	if err != nil {
		return []string{"  (directory not found)"}
	}
	if len(files) == 0 {
		return []string{"  (no files)"}
	}
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, "  "+varsName(f)+" -> "+f)
	}
	return lines
}

// varsFiles returns the sorted .yml/.yaml entries under a vars directory.
func (p *Provider) varsFiles(rel string) ([]string, error) {
	entries, err := p.store.List(rel, false)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, name := range entries {
		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			files = append(files, name)
		}
	}
	return files, nil
}

// varsName strips the YAML extension from a vars file name.
func varsName(file string) string {
	if i := strings.LastIndex(file, "."); i > 0 {
		return file[:i]
	}
	return file
}

func (p *Provider) readGroupVars(_ context.Context, args map[string]interface{}) string {
	return p.readVars(groupVarsRel, "GROUP VARS", "group", strArg(args, "group_name"))
}

func (p *Provider) readHostVars(_ context.Context, args map[string]interface{}) string {
	return p.readVars(hostVarsRel, "HOST VARS", "host", strArg(args, "hostname"))
}

func (p *Provider) readVars(rel, header, kind, name string) string {
	if name == "" {
		if files, err := p.varsFiles(rel); err == nil && len(files) > 0 {
			names := make([]string, 0, len(files))
			for _, f := range files {
				names = append(names, varsName(f))
			}
			return "Available " + rel + ":\n- " + strings.Join(names, "\n- ")
		}
		return "ERROR: No " + kind + " name specified and no " + rel + " found."
	}

	name = pathguard.SanitizeFilename(name)
	for _, ext := range []string{".yml", ".yaml"} {
		asset := rel + "/" + name + ext
		if !p.store.Exists(asset) {
			continue
		}
		content, err := p.store.Read(asset)
		if err != nil {
			return "ERROR: Failed to read " + asset + ": " + err.Error()
		}
		return "=== " + header + ": " + name + " ===\n\n" + content
	}
	return "ERROR: " + rel + " file not found for " + kind + " '" + name + "'"
}

func (p *Provider) writeGroupVars(_ context.Context, args map[string]interface{}) string {
	return p.writeVars(groupVarsRel, "group", strArg(args, "group_name"), strArg(args, "content"))
}

func (p *Provider) writeHostVars(_ context.Context, args map[string]interface{}) string {
	return p.writeVars(hostVarsRel, "host", strArg(args, "hostname"), strArg(args, "content"))
}

func (p *Provider) writeVars(rel, kind, name, content string) string {
	if name == "" {
		return "ERROR: No " + kind + " name specified."
	}
	if content == "" {
		return "ERROR: No content provided. Provide YAML-formatted variables."
	}

	name = pathguard.SanitizeFilename(name)
	asset := rel + "/" + name + ".yml"
	if _, err := p.store.Write(asset, content, true); err != nil {
		return "ERROR: Failed to write " + rel + ": " + err.Error()
	}
	return "SUCCESS: " + asset + " updated."
}
