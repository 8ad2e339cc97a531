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

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

// stubProvider is a minimal ToolProvider for exercising dispatch.
type stubProvider struct {
	tools   []protocol.Tool
	callErr error
	lastArg map[string]interface{}
}

func (s *stubProvider) ListTools(_ context.Context) ([]protocol.Tool, error) {
	return s.tools, nil
}

func (s *stubProvider) CallTool(_ context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	s.lastArg = args
	if s.callErr != nil {
		return nil, s.callErr
	}
	return protocol.TextResult("called " + name), nil
}

func newTestServer(p ToolProvider) *MCPServer {
	return NewMCPServer("anvil-mcp-test", "0.0.1", nil, WithToolProvider(p))
}

func handle(t *testing.T, s *MCPServer, msg string) protocol.Response {
	t.Helper()
	data, err := s.HandleMessage(context.Background(), []byte(msg))
	require.NoError(t, err)
	require.NotNil(t, data)

	var resp protocol.Response
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestInitialize(t *testing.T) {
	s := newTestServer(&stubProvider{})

	resp := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"test-client","version":"1.0"}}}`)
	require.Nil(t, resp.Error)

	var result protocol.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, protocol.ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "anvil-mcp-test", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)

	info := s.ClientInfo()
	require.NotNil(t, info)
	assert.Equal(t, "test-client", info.Name)
}

func TestPing(t *testing.T) {
	s := newTestServer(&stubProvider{})

	resp := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"ping"}`)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{}`, string(resp.Result))
}

func TestInitializedNotificationReturnsNothing(t *testing.T) {
	s := newTestServer(&stubProvider{})

	data, err := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestMethodNotFound(t *testing.T) {
	s := newTestServer(&stubProvider{})

	resp := handle(t, s, `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.MethodNotFound, resp.Error.Code)

	// Unknown notification is ignored silently.
	data, err := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"resources/changed"}`))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestParseAndValidationErrors(t *testing.T) {
	s := newTestServer(&stubProvider{})

	resp := handle(t, s, `{not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ParseError, resp.Error.Code)

	resp = handle(t, s, `{"jsonrpc":"1.0","id":1,"method":"ping"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InvalidRequest, resp.Error.Code)
}

func TestToolsList(t *testing.T) {
	p := &stubProvider{
		tools: []protocol.Tool{
			{Name: "ansible_read_inventory", Description: "read inventory"},
		},
	}
	s := newTestServer(p)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	var result protocol.ToolListResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "ansible_read_inventory", result.Tools[0].Name)
}

func TestToolsCall(t *testing.T) {
	p := &stubProvider{}
	s := newTestServer(p)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"ansible_ping_devices","arguments":{"target_hosts":"core"}}}`)
	require.Nil(t, resp.Error)

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "called ansible_ping_devices", result.Content[0].Text)
	assert.Equal(t, map[string]interface{}{"target_hosts": "core"}, p.lastArg)
}

func TestToolsCallProviderErrorBecomesToolError(t *testing.T) {
	p := &stubProvider{callErr: fmt.Errorf("unknown tool: ansible_bogus")}
	s := newTestServer(p)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"ansible_bogus"}}`)
	require.Nil(t, resp.Error, "provider failures must not become JSON-RPC faults")

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, "unknown tool")
}

func TestToolsCallMissingName(t *testing.T) {
	s := newTestServer(&stubProvider{})

	resp := handle(t, s, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InvalidParams, resp.Error.Code)
}
