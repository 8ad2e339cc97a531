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
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTool() Tool {
	return Tool{
		Name:        "ansible_read_file",
		Description: "Read a file from the managed directory",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Relative path",
				},
			},
			"required": []string{"file_path"},
		},
	}
}

func TestValidateToolArguments(t *testing.T) {
	tool := sampleTool()

	err := ValidateToolArguments(tool, map[string]interface{}{
		"file_path": "inventory/hosts.ini",
	})
	assert.NoError(t, err)

	err = ValidateToolArguments(tool, map[string]interface{}{
		"file_path": 99,
	})
	assert.Error(t, err)

	err = ValidateToolArguments(tool, map[string]interface{}{})
	assert.Error(t, err, "required property missing")
}

func TestValidateToolArgumentsNoSchema(t *testing.T) {
	tool := Tool{Name: "ansible_show_structure"}
	assert.NoError(t, ValidateToolArguments(tool, map[string]interface{}{"anything": true}))
}

func TestTextResult(t *testing.T) {
	res := TextResult("hello")
	assert.False(t, res.IsError)
	assert.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.Equal(t, "hello", res.Content[0].Text)
}
