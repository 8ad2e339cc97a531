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
	"errors"
	"strings"

	"github.com/teradata-labs/anvil/internal/pathguard"
	"github.com/teradata-labs/anvil/internal/store"
	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

const accessDenied = "ERROR: Access denied - path must be within Ansible directory."

func (p *Provider) registerFileTools() {
	p.register(protocol.Tool{
		Name:        "ansible_show_structure",
		Description: "Show the current Ansible directory structure and all files.",
		InputSchema: objectSchema(nil),
	}, p.showStructure)

	p.register(protocol.Tool{
		Name:        "ansible_read_file",
		Description: "Read any file in the Ansible directory. Use a relative path like inventory/hosts.ini or group_vars/all.yml.",
		InputSchema: objectSchema(map[string]interface{}{
			"file_path": stringSchema("Relative path under the Ansible directory"),
		}),
	}, p.readFile)

	p.register(protocol.Tool{
		Name:        "ansible_write_file",
		Description: "Write content to any file in the Ansible directory. Creates parent directories if needed; backs up an existing file first.",
		InputSchema: objectSchema(map[string]interface{}{
			"file_path":     stringSchema("Relative path under the Ansible directory"),
			"content":       stringSchema("Full file content to write"),
			"create_backup": stringSchema("Back up an existing file before overwriting (yes/no, default yes)"),
		}),
	}, p.writeFile)

	p.register(protocol.Tool{
		Name:        "ansible_read_config",
		Description: "Read the ansible.cfg configuration file.",
		InputSchema: objectSchema(nil),
	}, p.readConfig)

	p.register(protocol.Tool{
		Name:        "ansible_write_config",
		Description: "Write/update the ansible.cfg configuration file. Provide INI-formatted content.",
		InputSchema: objectSchema(map[string]interface{}{
			"content": stringSchema("Full ansible.cfg content"),
		}),
	}, p.writeConfig)
}

func (p *Provider) showStructure(_ context.Context, _ map[string]interface{}) string {
	out := []string{"=== ANSIBLE DIRECTORY STRUCTURE ===", "Base: " + p.cfg.Root, ""}

	lines, err := p.store.List("", true)
	if err != nil {
		return "ERROR: Failed to list directory: " + err.Error()
	}
	return strings.Join(append(out, lines...), "\n")
}

func (p *Provider) readFile(_ context.Context, args map[string]interface{}) string {
	path := strArg(args, "file_path")
	if path == "" {
		return "ERROR: No file path specified. Examples: inventory/hosts.ini, group_vars/qfx_switches.yml, ansible.cfg"
	}

	content, err := p.store.Read(path)
	switch {
	case err == nil:
		return "=== FILE: " + path + " ===\n\n" + content
	case errors.Is(err, store.ErrIsDir):
		var entries []string
		for _, name := range strings.Split(content, "\n") {
			if name != "" {
				entries = append(entries, "  - "+name)
			}
		}
		return "'" + path + "' is a directory containing:\n" + strings.Join(entries, "\n")
	case errors.Is(err, pathguard.ErrTraversal):
		return accessDenied
	case errors.Is(err, store.ErrNotFound):
		return "ERROR: File not found: " + path
	default:
		return "ERROR: Failed to read file: " + err.Error()
	}
}

func (p *Provider) writeFile(_ context.Context, args map[string]interface{}) string {
	path := strArg(args, "file_path")
	content := strArg(args, "content")
	if path == "" {
		return "ERROR: No file path specified."
	}
	if content == "" {
		return "ERROR: No content provided."
	}

	backup := strArgDefault(args, "create_backup", "yes")
	backupName, err := p.store.Write(path, content, affirmative(backup))
	if err != nil {
		if errors.Is(err, pathguard.ErrTraversal) {
			return accessDenied
		}
		return "ERROR: Failed to write file: " + err.Error()
	}

	msg := "SUCCESS: File written to " + path
	if backupName != "" {
		msg += "\nBackup saved to: " + backupName
	}
	return msg
}

func (p *Provider) readConfig(_ context.Context, _ map[string]interface{}) string {
	content, err := p.store.Read("ansible.cfg")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "ERROR: ansible.cfg not found. Use ansible_write_config to create one."
		}
		return "ERROR: Failed to read ansible.cfg: " + err.Error()
	}
	return "=== ANSIBLE.CFG ===\n\n" + content
}

func (p *Provider) writeConfig(_ context.Context, args map[string]interface{}) string {
	content := strArg(args, "content")
	if content == "" {
		return "ERROR: No content provided. Provide INI-formatted ansible.cfg content."
	}

	if _, err := p.store.Write("ansible.cfg", content, true); err != nil {
		return "ERROR: Failed to write ansible.cfg: " + err.Error()
	}
	return "SUCCESS: ansible.cfg updated."
}
