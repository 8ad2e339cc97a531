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
	"fmt"
	"strings"
	"time"

	"github.com/teradata-labs/anvil/internal/pathguard"
	"github.com/teradata-labs/anvil/internal/runner"
	"github.com/teradata-labs/anvil/internal/summary"
	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

const playbooksRel = "playbooks"

// rootPlaybook is the legacy single playbook kept at the managed root.
const rootPlaybook = "playbook.yml"

func (p *Provider) registerPlaybookTools() {
	p.register(protocol.Tool{
		Name:        "ansible_run_playbook",
		Description: "Run an Ansible playbook. Use limit_hosts to target specific hosts/groups, extra_vars for variables, tags to run specific tasks.",
		InputSchema: objectSchema(map[string]interface{}{
			"playbook_name": stringSchema("Playbook to run (name or name.yml)"),
			"limit_hosts":   stringSchema("Restrict run to these hosts/groups"),
			"extra_vars":    stringSchema("Extra variables, key=value pairs"),
			"tags":          stringSchema("Only run plays and tasks tagged with these values"),
			"verbose":       stringSchema("Verbose engine output (yes/no, default no)"),
		}),
	}, p.runPlaybook)

	p.register(protocol.Tool{
		Name:        "ansible_check_playbook",
		Description: "Preview a playbook in check mode (dry-run). Shows what would change without making changes.",
		InputSchema: objectSchema(map[string]interface{}{
			"playbook_name": stringSchema("Playbook to preview"),
			"limit_hosts":   stringSchema("Restrict preview to these hosts/groups"),
		}),
	}, p.checkPlaybook)

	p.register(protocol.Tool{
		Name:        "ansible_create_playbook",
		Description: "Create a new Ansible playbook. Provide the name and full YAML content.",
		InputSchema: objectSchema(map[string]interface{}{
			"playbook_name": stringSchema("Name for the new playbook"),
			"content":       stringSchema("Full YAML playbook content"),
			"description":   stringSchema("Optional one-line description stored as a leading comment"),
		}),
	}, p.createPlaybook)

	p.register(protocol.Tool{
		Name:        "ansible_read_playbook",
		Description: "Read and display the contents of a playbook.",
		InputSchema: objectSchema(map[string]interface{}{
			"playbook_name": stringSchema("Playbook to read"),
		}),
	}, p.readPlaybook)

	p.register(protocol.Tool{
		Name:        "ansible_edit_playbook",
		Description: "Update an existing playbook with new content. Creates a backup first.",
		InputSchema: objectSchema(map[string]interface{}{
			"playbook_name": stringSchema("Playbook to update"),
			"content":       stringSchema("New full YAML playbook content"),
		}),
	}, p.editPlaybook)

	p.register(protocol.Tool{
		Name:        "ansible_delete_playbook",
		Description: "Delete a playbook. Set confirm=yes to actually delete.",
		InputSchema: objectSchema(map[string]interface{}{
			"playbook_name": stringSchema("Playbook to delete"),
			"confirm":       stringSchema("Must be yes to perform the deletion"),
		}),
	}, p.deletePlaybook)

	p.register(protocol.Tool{
		Name:        "ansible_list_playbooks",
		Description: "List all available playbooks with descriptions.",
		InputSchema: objectSchema(nil),
	}, p.listPlaybooks)

	p.register(protocol.Tool{
		Name:        "ansible_validate_playbook",
		Description: "Validate playbook syntax without running it.",
		InputSchema: objectSchema(map[string]interface{}{
			"playbook_name": stringSchema("Playbook to validate"),
		}),
	}, p.validatePlaybook)
}

// availablePlaybooks lists the .yml/.yaml files under playbooks/ plus the
// legacy root playbook when present.
func (p *Provider) availablePlaybooks() []string {
	var playbooks []string
	if entries, err := p.store.List(playbooksRel, false); err == nil {
		for _, name := range entries {
			if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
				playbooks = append(playbooks, name)
			}
		}
	}
	if p.store.Exists(rootPlaybook) {
		playbooks = append(playbooks, rootPlaybook+" (root)")
	}
	return playbooks
}

// noPlaybookError renders the missing-name error, listing what exists.
func (p *Provider) noPlaybookError() string {
	if available := p.availablePlaybooks(); len(available) > 0 {
		return "ERROR: No playbook specified. Available:\n- " + strings.Join(available, "\n- ")
	}
	return "ERROR: No playbook specified."
}

// resolvePlaybook normalizes a playbook name and locates it under playbooks/
// or, failing that, the managed root. The returned path is store-relative.
func (p *Provider) resolvePlaybook(name string) (rel, normalized string, ok bool) {
	normalized = pathguard.SanitizeArgument(name)
	if !strings.HasSuffix(normalized, ".yml") && !strings.HasSuffix(normalized, ".yaml") {
		normalized += ".yml"
	}

	rel = playbooksRel + "/" + normalized
	if p.store.Exists(rel) {
		return rel, normalized, true
	}
	if p.store.Exists(normalized) {
		return normalized, normalized, true
	}
	return "", normalized, false
}

// playbookArgv builds an ansible-playbook invocation for a resolved playbook.
func (p *Provider) playbookArgv(rel string, extra ...string) ([]string, error) {
	full, err := p.store.Resolve(rel)
	if err != nil {
		return nil, err
	}
	argv := []string{"ansible-playbook", "-i", p.cfg.InventoryPath(), full}
	return append(argv, extra...), nil
}

func (p *Provider) runPlaybook(ctx context.Context, args map[string]interface{}) string {
	name := strArg(args, "playbook_name")
	if name == "" {
		return p.noPlaybookError()
	}
	rel, normalized, ok := p.resolvePlaybook(name)
	if !ok {
		return "ERROR: Playbook not found: " + normalized
	}

	var extra []string
	if limit := strArg(args, "limit_hosts"); limit != "" {
		extra = append(extra, "--limit", pathguard.SanitizeArgument(limit))
	}
	if vars := strArg(args, "extra_vars"); vars != "" {
		extra = append(extra, "--extra-vars", pathguard.SanitizeArgument(vars))
	}
	if tags := strArg(args, "tags"); tags != "" {
		extra = append(extra, "--tags", pathguard.SanitizeArgument(tags))
	}
	if affirmative(strArg(args, "verbose")) {
		extra = append(extra, "-vvv")
	}

	argv, err := p.playbookArgv(rel, extra...)
	if err != nil {
		return "ERROR: " + err.Error()
	}
	return summary.Summarize(p.engineRun(ctx, argv, p.timeout))
}

func (p *Provider) checkPlaybook(ctx context.Context, args map[string]interface{}) string {
	name := strArg(args, "playbook_name")
	if name == "" {
		return p.noPlaybookError()
	}
	rel, normalized, ok := p.resolvePlaybook(name)
	if !ok {
		return "ERROR: Playbook not found: " + normalized
	}

	extra := []string{"--check", "--diff"}
	if limit := strArg(args, "limit_hosts"); limit != "" {
		extra = append(extra, "--limit", pathguard.SanitizeArgument(limit))
	}

	argv, err := p.playbookArgv(rel, extra...)
	if err != nil {
		return "ERROR: " + err.Error()
	}
	return "=== DRY RUN (CHECK MODE) ===\n" + summary.Summarize(p.engineRun(ctx, argv, p.timeout))
}

func (p *Provider) createPlaybook(ctx context.Context, args map[string]interface{}) string {
	name := strArg(args, "playbook_name")
	content := strArg(args, "content")
	if name == "" {
		return "ERROR: No playbook name specified."
	}
	if content == "" {
		return "ERROR: No playbook content provided."
	}

	name = pathguard.SanitizeFilename(name)
	if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
		name += ".yml"
	}
	rel := playbooksRel + "/" + name

	if p.store.Exists(rel) {
		return fmt.Sprintf("ERROR: Playbook '%s' already exists. Use ansible_edit_playbook to modify.", name)
	}

	if desc := strArg(args, "description"); desc != "" {
		content = "# " + desc + "\n" + content
	}
	if _, err := p.store.Write(rel, content, false); err != nil {
		return "ERROR: Failed to create playbook: " + err.Error()
	}

	full, _ := p.store.Resolve(rel)
	if msg, ok := p.syntaxCheck(ctx, rel); !ok {
		return "WARNING: Playbook created but has syntax errors:\n" + msg
	}
	return fmt.Sprintf("SUCCESS: Playbook '%s' created and validated.\nPath: %s", name, full)
}

func (p *Provider) readPlaybook(_ context.Context, args map[string]interface{}) string {
	name := strArg(args, "playbook_name")
	if name == "" {
		if available := p.availablePlaybooks(); len(available) > 0 {
			return "Available playbooks:\n- " + strings.Join(available, "\n- ")
		}
		return "ERROR: No playbooks found."
	}
	rel, normalized, ok := p.resolvePlaybook(name)
	if !ok {
		return "ERROR: Playbook not found: " + normalized
	}

	content, err := p.store.Read(rel)
	if err != nil {
		return "ERROR: Failed to read playbook: " + err.Error()
	}
	return "=== PLAYBOOK: " + normalized + " ===\n\n" + content
}

func (p *Provider) editPlaybook(ctx context.Context, args map[string]interface{}) string {
	name := strArg(args, "playbook_name")
	if name == "" {
		return p.noPlaybookError()
	}
	content := strArg(args, "content")
	if content == "" {
		return "ERROR: No new content provided."
	}
	rel, normalized, ok := p.resolvePlaybook(name)
	if !ok {
		return "ERROR: Playbook not found: " + normalized
	}

	backupName, err := p.store.Write(rel, content, true)
	if err != nil {
		return "ERROR: Failed to update playbook: " + err.Error()
	}

	if msg, ok := p.syntaxCheck(ctx, rel); !ok {
		return "WARNING: Playbook updated but has syntax errors:\n" + msg
	}
	return "SUCCESS: Playbook updated.\nBackup: " + backupName
}

func (p *Provider) deletePlaybook(_ context.Context, args map[string]interface{}) string {
	name := strArg(args, "playbook_name")
	if name == "" {
		return p.noPlaybookError()
	}
	if !affirmative(strArg(args, "confirm")) {
		return fmt.Sprintf("WARNING: This will delete '%s'. Set confirm=yes to proceed.", name)
	}

	name = pathguard.SanitizeArgument(name)
	if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
		name += ".yml"
	}
	rel := playbooksRel + "/" + name
	if !p.store.Exists(rel) {
		return "ERROR: Playbook not found: " + name
	}

	if _, err := p.store.Remove(rel); err != nil {
		return "ERROR: Failed to delete playbook: " + err.Error()
	}
	return fmt.Sprintf("SUCCESS: Playbook '%s' deleted (backup created).", name)
}

func (p *Provider) listPlaybooks(_ context.Context, _ map[string]interface{}) string {
	type entry struct {
		name string
		desc string
	}
	var playbooks []entry

	if names, err := p.store.List(playbooksRel, false); err == nil {
		for _, name := range names {
			if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
				continue
			}
			desc := ""
			if content, err := p.store.Read(playbooksRel + "/" + name); err == nil {
				first, _, _ := strings.Cut(content, "\n")
				first = strings.TrimSpace(first)
				if strings.HasPrefix(first, "#") {
					desc = strings.TrimSpace(first[1:])
				}
			}
			playbooks = append(playbooks, entry{name: name, desc: desc})
		}
	}
	if p.store.Exists(rootPlaybook) {
		playbooks = append(playbooks, entry{name: rootPlaybook + " (root)", desc: "Legacy root playbook"})
	}

	if len(playbooks) == 0 {
		return "No playbooks found in " + p.cfg.PlaybooksDir + "\n\nUse ansible_create_playbook to create one."
	}

	out := []string{"=== PLAYBOOKS ===", ""}
	for _, pb := range playbooks {
		if pb.desc != "" {
			out = append(out, "- "+pb.name+": "+pb.desc)
		} else {
			out = append(out, "- "+pb.name)
		}
	}
	out = append(out, "", fmt.Sprintf("Total: %d playbook(s)", len(playbooks)))
	return strings.Join(out, "\n")
}

func (p *Provider) validatePlaybook(ctx context.Context, args map[string]interface{}) string {
	name := strArg(args, "playbook_name")
	if name == "" {
		return p.noPlaybookError()
	}
	rel, normalized, ok := p.resolvePlaybook(name)
	if !ok {
		return "ERROR: Playbook not found: " + normalized
	}

	if msg, ok := p.syntaxCheck(ctx, rel); !ok {
		return fmt.Sprintf("Syntax errors in '%s':\n%s", normalized, msg)
	}
	return fmt.Sprintf("Playbook '%s' syntax is valid.", normalized)
}

// syntaxCheck runs ansible-playbook --syntax-check on a store-relative
// playbook. On failure it returns the engine's combined output.
func (p *Provider) syntaxCheck(ctx context.Context, rel string) (string, bool) {
	argv, err := p.playbookArgv(rel, "--syntax-check")
	if err != nil {
		return err.Error(), false
	}
	res := p.runner.Run(ctx, runner.Spec{
		Argv:    argv,
		Dir:     p.cfg.Root,
		Timeout: syntaxCheckTimeout,
	})
	if res.LaunchErr != "" || res.TimedOut || res.ExitCode != 0 {
		return res.Format(), false
	}
	return "", true
}

// engineRun executes one engine invocation from the managed root and returns
// the formatted transcript.
func (p *Provider) engineRun(ctx context.Context, argv []string, timeout time.Duration) string {
	res := p.runner.Run(ctx, runner.Spec{
		Argv:    argv,
		Dir:     p.cfg.Root,
		Timeout: timeout,
	})
	return res.Format()
}
