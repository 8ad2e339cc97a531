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

// Package inventory edits grouped line-oriented inventory text without a full
// parser. Host records live under [group] headers; edits preserve every
// unrelated line verbatim and in order.
package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateHost is returned when the host identifier already occurs
	// anywhere in the document. The containment check is deliberately
	// over-broad: a hostname that is a substring of an unrelated value also
	// trips it. See AddHost.
	ErrDuplicateHost = errors.New("host already exists")

	// ErrHostNotFound is returned when no record line matches the host.
	ErrHostNotFound = errors.New("host not found")
)

// AddHost inserts a host record into the named group and returns the updated
// document. The record line is "host ansible_host=addr" plus the optional
// extra attribute string. If a line exactly matching the group header exists
// the record is inserted right after the first such line; otherwise a new
// group is appended at the end, separated by a blank line when needed.
//
// The duplicate check tests raw substring containment across the whole
// document, which can false-positive on comments or attribute values. That
// conservatism is intentional and kept.
func AddHost(doc, host, addr, group, extra string) (string, error) {
	if strings.Contains(doc, host) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateHost, host)
	}

	record := fmt.Sprintf("%s ansible_host=%s", host, addr)
	if extra != "" {
		record += " " + extra
	}

	header := "[" + group + "]"
	lines := strings.Split(doc, "\n")
	found := false

	var out []string
	for _, line := range lines {
		out = append(out, line)
		if !found && strings.TrimSpace(line) == header {
			found = true
			out = append(out, record)
		}
	}

	if !found {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, header, record)
	}

	return strings.Join(out, "\n"), nil
}

// RemoveHost deletes every record line belonging to host: lines whose
// trimmed text equals the host or starts with the host followed by a space.
// A host can in principle appear in multiple groups; all occurrences go.
func RemoveHost(doc, host string) (string, error) {
	lines := strings.Split(doc, "\n")
	removed := false

	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == host || strings.HasPrefix(trimmed, host+" ") {
			removed = true
			continue
		}
		out = append(out, line)
	}

	if !removed {
		return "", fmt.Errorf("%w: %s", ErrHostNotFound, host)
	}
	return strings.Join(out, "\n"), nil
}
