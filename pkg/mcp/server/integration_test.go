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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
	"github.com/teradata-labs/anvil/pkg/mcp/transport"
)

// TestServeSession drives a full client session over the stdio transport:
// initialize, initialized notification, tools/list, then EOF.
func TestServeSession(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"it","version":"0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	tr := transport.NewStdioServerTransport(strings.NewReader(input), &out)

	p := &stubProvider{tools: []protocol.Tool{{Name: "ansible_show_structure", Description: "structure"}}}
	s := newTestServer(p)

	err := s.Serve(context.Background(), tr)
	require.Error(t, err) // input exhausted
	assert.ErrorIs(t, err, io.EOF)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2, "notification must not produce a response")

	var initResp protocol.Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &initResp))
	require.Nil(t, initResp.Error)

	var listResp protocol.Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &listResp))
	require.Nil(t, listResp.Error)

	var result protocol.ToolListResult
	require.NoError(t, json.Unmarshal(listResp.Result, &result))
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "ansible_show_structure", result.Tools[0].Name)
}
