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

// Package summary extracts actionable signal from raw automation-engine
// output. Long playbook logs bury the few lines an operator needs; Summarize
// lifts them to the top in a single pass without ever dropping the original
// text, and ExtractJSON recovers machine-readable payloads from the labeled
// result documents the runner produces.
package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Markers recognized in engine output.
const (
	recapMarker   = "PLAY RECAP"
	outputMarker  = "=== OUTPUT ==="
	stderrMarker  = "=== STDERR ==="
	summaryHeader = "=== SUMMARY ==="
	fullHeader    = "=== FULL OUTPUT ==="
)

// ErrMalformedOutput is returned when no valid JSON payload can be located.
var ErrMalformedOutput = errors.New("malformed output")

// Summarize scans raw line by line. From the first line containing the play
// recap marker onward every line is kept; before that point a line is kept if
// it contains a failure marker (case-insensitive), or a change marker without
// the no-op "ok=" marker. When anything was kept the result is the kept lines
// under a summary heading followed by the untouched raw output; otherwise raw
// is returned unchanged.
func Summarize(raw string) string {
	var kept []string
	inRecap := false

	for _, line := range strings.Split(raw, "\n") {
		if strings.Contains(line, recapMarker) {
			inRecap = true
		}
		if inRecap {
			kept = append(kept, line)
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "fatal:") || strings.Contains(lower, "failed:"):
			kept = append(kept, line)
		case strings.Contains(lower, "changed:") && !strings.Contains(lower, "ok="):
			kept = append(kept, line)
		}
	}

	if len(kept) == 0 {
		return raw
	}
	return summaryHeader + "\n" + strings.Join(kept, "\n") + "\n\n" + fullHeader + "\n" + raw
}

// ExtractJSON parses the JSON payload embedded in a labeled result document.
// The payload is the text between the output marker and the stderr marker
// (or the end). Input without markers is parsed whole. The result is the
// decoded value; ErrMalformedOutput wraps any decode failure.
func ExtractJSON(formatted string) (interface{}, error) {
	payload := formatted
	if _, after, found := strings.Cut(formatted, outputMarker); found {
		payload = after
		if before, _, cut := strings.Cut(payload, stderrMarker); cut {
			payload = before
		}
	}
	payload = strings.TrimSpace(payload)

	var v interface{}
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return v, nil
}
