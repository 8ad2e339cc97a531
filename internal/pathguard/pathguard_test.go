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

package pathguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	root := "/data/ansible"

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"simple relative", "inventory/hosts.ini", "/data/ansible/inventory/hosts.ini", nil},
		{"leading slash stripped", "/group_vars/all.yml", "/data/ansible/group_vars/all.yml", nil},
		{"dot segments collapse", "playbooks/./deploy.yml", "/data/ansible/playbooks/deploy.yml", nil},
		{"inner dotdot stays inside", "playbooks/../templates/base.j2", "/data/ansible/templates/base.j2", nil},
		{"escape via dotdot", "../etc/passwd", "", ErrTraversal},
		{"deep escape", "a/../../../etc/shadow", "", ErrTraversal},
		{"empty", "", "", ErrEmptyName},
		{"only slashes", "///", "", ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(root, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_SiblingPrefix(t *testing.T) {
	// /data/ansible-backup shares a string prefix with /data/ansible but is
	// not a descendant of it.
	_, err := ResolvePath("/data/ansible", "../ansible-backup/hosts.ini")
	require.ErrorIs(t, err, ErrTraversal)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hosts.ini", "hosts.ini"},
		{"qfx_switches", "qfx_switches"},
		{"a b/c", "a_b_c"},
		{"../../etc", "etc"},
		{"..hidden..", "hidden"},
		{"__trim__", "trim"},
		{"", ""},
		{"$(rm -rf)", "rm_-rf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.input), "input %q", tt.input)
	}
}

func TestSanitizeArgument(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"rm -rf / ; echo hi", "rm -rf /  echo hi"},
		{"  plain value  ", "plain value"},
		{"a|b&c", "abc"},
		{"$(subshell)", "subshell"},
		{"`backtick`", "backtick"},
		{"host<>.example{}", "host..example"},
		{"", ""},
	}

	for _, tt := range tests {
		got := SanitizeArgument(tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.NotContains(t, got, ";")
		assert.NotContains(t, got, "|")
		assert.NotContains(t, got, "$")
	}
}
