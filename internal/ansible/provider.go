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

// Package ansible exposes Ansible asset management and engine invocation as
// MCP tools. Every tool is a thin composition of the path guard, the
// versioned store, the command runner, the output summarizer, and the
// inventory editor; failures are rendered as ERROR/WARNING text results so a
// failing tool never aborts the MCP session.
package ansible

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/internal/config"
	"github.com/teradata-labs/anvil/internal/runner"
	"github.com/teradata-labs/anvil/internal/store"
	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

// maskValue replaces sensitive variable values in displayed output.
const maskValue = "********"

// Engine invocation timeouts, matching how long each class of call is
// allowed to hold the session.
const (
	syntaxCheckTimeout = 60 * time.Second
	inventoryTimeout   = 60 * time.Second
	validateTimeout    = 30 * time.Second
	pingTimeout        = 120 * time.Second
	deviceTimeout      = 180 * time.Second
)

// Runner abstracts command execution so tests can substitute a fake engine.
type Runner interface {
	Run(ctx context.Context, spec runner.Spec) runner.Result
}

// toolFunc handles one tool call, returning the text rendered to the client.
type toolFunc func(ctx context.Context, args map[string]interface{}) string

// Provider implements server.ToolProvider over a managed Ansible directory.
type Provider struct {
	cfg     *config.Config
	store   *store.Store
	runner  Runner
	logger  *zap.Logger
	timeout time.Duration // playbook/ad-hoc run timeout

	tools    []protocol.Tool
	handlers map[string]toolFunc
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithRunTimeout overrides the default playbook execution timeout.
func WithRunTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewProvider creates a Provider over the given configuration, store, and
// runner. A nil logger is replaced with a no-op one.
func NewProvider(cfg *config.Config, st *store.Store, r Runner, logger *zap.Logger, opts ...ProviderOption) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Provider{
		cfg:     cfg,
		store:   st,
		runner:  r,
		logger:  logger,
		timeout: runner.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.registerTools()
	return p
}

// ListTools returns the tool catalog.
func (p *Provider) ListTools(_ context.Context) ([]protocol.Tool, error) {
	return p.tools, nil
}

// CallTool validates the arguments against the tool's schema and dispatches.
// Handler outcomes, including ERROR/WARNING renderings, are successful tool
// results; only an unknown tool or invalid arguments surface as an error.
func (p *Provider) CallTool(ctx context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	handler, ok := p.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	tool, ok := p.toolDef(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := protocol.ValidateToolArguments(tool, args); err != nil {
		return nil, err
	}

	p.logger.Info("tool call", zap.String("tool", name))
	return protocol.TextResult(handler(ctx, args)), nil
}

func (p *Provider) toolDef(name string) (protocol.Tool, bool) {
	for _, t := range p.tools {
		if t.Name == name {
			return t, true
		}
	}
	return protocol.Tool{}, false
}

// register adds one tool and its handler to the catalog.
func (p *Provider) register(tool protocol.Tool, fn toolFunc) {
	if p.handlers == nil {
		p.handlers = make(map[string]toolFunc)
	}
	p.tools = append(p.tools, tool)
	p.handlers[tool.Name] = fn
}

// strArg extracts a string argument, defaulting to "".
func strArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// strArgDefault extracts a string argument with a fallback.
func strArgDefault(args map[string]interface{}, key, def string) string {
	if v := strArg(args, key); v != "" {
		return v
	}
	return def
}

// affirmative reports whether a boolean-ish string argument is set.
func affirmative(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// sensitiveKey reports whether a variable name should be masked in output.
func sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "password") || strings.Contains(lower, "secret")
}

// stringSchema builds a minimal JSON Schema for a string property.
func stringSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// objectSchema builds the input schema for a tool taking string arguments.
func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
