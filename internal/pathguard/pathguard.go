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

// Package pathguard validates user-supplied names and paths against a managed
// root directory and degrades free-form strings to a shell-safe subset.
// All functions are pure; no filesystem access occurs here.
package pathguard

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrTraversal is returned when a resolved path escapes the managed root.
	ErrTraversal = errors.New("path traversal detected")

	// ErrEmptyName is returned when a required name resolves to nothing.
	ErrEmptyName = errors.New("empty name")
)

// shellMeta is the set of characters removed by SanitizeArgument. Arguments
// are passed as discrete argv tokens and never reach a shell, so this is a
// second line of defense, not the primary one.
const shellMeta = ";&|$`(){}<>\\"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// ResolvePath joins name to root and canonicalizes the result, failing with
// ErrTraversal unless the outcome is root itself or a descendant of it.
// A leading slash on name is treated as relative to root, matching how
// callers address assets ("inventory/hosts.ini", "/inventory/hosts.ini").
func ResolvePath(root, name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "", ErrEmptyName
	}

	cleanRoot := filepath.Clean(root)
	full := filepath.Clean(filepath.Join(cleanRoot, name))

	if full != cleanRoot && !strings.HasPrefix(full, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrTraversal, name)
	}
	return full, nil
}

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-] with an
// underscore and trims leading/trailing underscores and dots. An empty input
// yields an empty output; callers reject empties where a name is required.
func SanitizeFilename(name string) string {
	if name == "" {
		return ""
	}
	safe := unsafeFilenameChars.ReplaceAllString(name, "_")
	return strings.Trim(safe, "_.")
}

// SanitizeArgument removes shell metacharacters and surrounding whitespace
// from a value destined to become one token of a command argument vector.
func SanitizeArgument(value string) string {
	if value == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if strings.ContainsRune(shellMeta, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
