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
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		id       *RequestID
		expected string
	}{
		{
			name:     "string ID",
			id:       NewStringRequestID("test-123"),
			expected: `"test-123"`,
		},
		{
			name:     "number ID",
			id:       NewNumericRequestID(42),
			expected: `42`,
		},
		{
			name:     "nil ID",
			id:       nil,
			expected: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestRequestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantStr *string
		wantNum *int64
		wantErr bool
	}{
		{
			name:    "string ID",
			input:   `"test-123"`,
			wantStr: stringPtr("test-123"),
		},
		{
			name:    "number ID",
			input:   `42`,
			wantNum: int64Ptr(42),
		},
		{
			name:    "null ID",
			input:   `null`,
			wantStr: stringPtr(""), // JSON null unmarshals to empty string
		},
		{
			name:    "invalid type",
			input:   `true`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `{invalid}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id RequestID
			err := json.Unmarshal([]byte(tt.input), &id)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantStr != nil {
				require.NotNil(t, id.Str)
				assert.Equal(t, *tt.wantStr, *id.Str)
			} else {
				assert.Nil(t, id.Str)
			}

			if tt.wantNum != nil {
				require.NotNil(t, id.Num)
				assert.Equal(t, *tt.wantNum, *id.Num)
			} else {
				assert.Nil(t, id.Num)
			}
		})
	}
}

func TestRequestID_String(t *testing.T) {
	assert.Equal(t, "abc", NewStringRequestID("abc").String())
	assert.Equal(t, "7", NewNumericRequestID(7).String())
	assert.Equal(t, "null", (*RequestID)(nil).String())
	assert.Equal(t, "null", (&RequestID{}).String())
}

func TestError_Error(t *testing.T) {
	plain := NewError(MethodNotFound, "method not found", nil)
	assert.Equal(t, "JSON-RPC error -32601: method not found", plain.Error())

	withData := NewError(InvalidParams, "bad params", map[string]string{"field": "name"})
	assert.Contains(t, withData.Error(), "-32602")
	assert.Contains(t, withData.Error(), `"field":"name"`)
}

func TestValidateRequest(t *testing.T) {
	valid := &Request{JSONRPC: JSONRPCVersion, Method: "ping"}
	assert.NoError(t, ValidateRequest(valid))

	badVersion := &Request{JSONRPC: "1.0", Method: "ping"}
	assert.Error(t, ValidateRequest(badVersion))

	noMethod := &Request{JSONRPC: JSONRPCVersion}
	assert.Error(t, ValidateRequest(noMethod))
}

func TestValidateResponse(t *testing.T) {
	id := NewNumericRequestID(1)

	valid := &Response{JSONRPC: JSONRPCVersion, ID: id, Result: json.RawMessage(`{}`)}
	assert.NoError(t, ValidateResponse(valid))

	withError := &Response{JSONRPC: JSONRPCVersion, ID: id, Error: NewError(InternalError, "boom", nil)}
	assert.NoError(t, ValidateResponse(withError))

	both := &Response{JSONRPC: JSONRPCVersion, ID: id, Result: json.RawMessage(`{}`), Error: withError.Error}
	assert.Error(t, ValidateResponse(both))

	neither := &Response{JSONRPC: JSONRPCVersion, ID: id}
	assert.Error(t, ValidateResponse(neither))

	noID := &Response{JSONRPC: JSONRPCVersion, Result: json.RawMessage(`{}`)}
	assert.Error(t, ValidateResponse(noID))
}

func stringPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64    { return &n }
