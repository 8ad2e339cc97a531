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

const templatesRel = "templates"

func (p *Provider) registerTemplateTools() {
	p.register(protocol.Tool{
		Name:        "ansible_list_templates",
		Description: "List all Jinja2 templates in the templates directory.",
		InputSchema: objectSchema(nil),
	}, p.listTemplates)

	p.register(protocol.Tool{
		Name:        "ansible_read_template",
		Description: "Read a Jinja2 template file. Empty template_name lists available templates.",
		InputSchema: objectSchema(map[string]interface{}{
			"template_name": stringSchema("Template to read"),
		}),
	}, p.readTemplate)

	p.register(protocol.Tool{
		Name:        "ansible_create_template",
		Description: "Create a new Jinja2 template file.",
		InputSchema: objectSchema(map[string]interface{}{
			"template_name": stringSchema("Name for the new template"),
			"content":       stringSchema("Template content"),
		}),
	}, p.createTemplate)
}

func isTemplate(name string) bool {
	return strings.HasSuffix(name, ".j2") || strings.HasSuffix(name, ".jinja2")
}

func (p *Provider) listTemplates(_ context.Context, _ map[string]interface{}) string {
	entries, err := p.store.List(templatesRel, false)
	if err != nil {
		return "No templates directory found at " + p.cfg.TemplatesDir
	}

	var templates []string
	for _, name := range entries {
		if isTemplate(name) {
			templates = append(templates, name)
		}
	}
	if len(templates) == 0 {
		return "No templates found.\n\nUse ansible_create_template to create one."
	}

	out := []string{"=== TEMPLATES ===", ""}
	for _, t := range templates {
		out = append(out, "- "+t)
	}
	return strings.Join(out, "\n")
}

func (p *Provider) readTemplate(ctx context.Context, args map[string]interface{}) string {
	name := strArg(args, "template_name")
	if name == "" {
		return p.listTemplates(ctx, args)
	}

	name = pathguard.SanitizeFilename(name)
	if !isTemplate(name) {
		name += ".j2"
	}

	content, err := p.store.Read(templatesRel + "/" + name)
	if err != nil {
		return "ERROR: Template not found: " + name
	}
	return "=== TEMPLATE: " + name + " ===\n\n" + content
}

func (p *Provider) createTemplate(_ context.Context, args map[string]interface{}) string {
	name := strArg(args, "template_name")
	if name == "" {
		return "ERROR: No template name specified."
	}
	content := strArg(args, "content")
	if content == "" {
		return "ERROR: No template content provided."
	}

	name = pathguard.SanitizeFilename(name)
	if !isTemplate(name) {
		name += ".j2"
	}

	rel := templatesRel + "/" + name
	if p.store.Exists(rel) {
		return "ERROR: Template '" + name + "' already exists."
	}
	if _, err := p.store.Write(rel, content, false); err != nil {
		return "ERROR: Failed to create template: " + err.Error()
	}
	return "SUCCESS: Template '" + name + "' created."
}
