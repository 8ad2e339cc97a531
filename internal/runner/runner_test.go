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

package runner

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX sh")
	}
}

func TestRun_CapturesStdoutAndExitCode(t *testing.T) {
	skipOnWindows(t)
	r := New(zaptest.NewLogger(t))

	res := r.Run(context.Background(), Spec{
		Argv: []string{"sh", "-c", "echo out; echo err >&2; exit 3"},
	})

	assert.Empty(t, res.LaunchErr)
	assert.False(t, res.TimedOut)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestRun_WorkingDirectory(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := New(zaptest.NewLogger(t))

	res := r.Run(context.Background(), Spec{Argv: []string{"pwd"}, Dir: dir})

	require.Empty(t, res.LaunchErr)
	assert.Equal(t, dir+"\n", res.Stdout)
}

func TestRun_EnvOverlay(t *testing.T) {
	skipOnWindows(t)
	r := New(zaptest.NewLogger(t))

	res := r.Run(context.Background(), Spec{
		Argv: []string{"sh", "-c", "echo $ANSIBLE_HOST_KEY_CHECKING $EXTRA"},
		Env:  map[string]string{"EXTRA": "overlay"},
	})

	require.Empty(t, res.LaunchErr)
	assert.Equal(t, "False overlay\n", res.Stdout)
}

func TestRun_Timeout(t *testing.T) {
	skipOnWindows(t)
	r := New(zaptest.NewLogger(t))

	start := time.Now()
	res := r.Run(context.Background(), Spec{
		Argv:    []string{"sleep", "30"},
		Timeout: 200 * time.Millisecond,
	})

	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_ContextCancel(t *testing.T) {
	skipOnWindows(t)
	r := New(zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	res := r.Run(ctx, Spec{Argv: []string{"sleep", "30"}})
	assert.True(t, res.TimedOut)
}

func TestRun_LaunchFailureIsData(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	res := r.Run(context.Background(), Spec{Argv: []string{"definitely-not-a-real-binary-4711"}})

	assert.NotEmpty(t, res.LaunchErr)
	assert.False(t, res.TimedOut)
	assert.Contains(t, res.Format(), "ERROR: ")
}

func TestRun_EmptyArgv(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	res := r.Run(context.Background(), Spec{})
	assert.Equal(t, "empty command", res.LaunchErr)
}

func TestResultFormat(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want string
	}{
		{
			"stdout only",
			Result{Stdout: "ok\n"},
			"=== OUTPUT ===\nok\n",
		},
		{
			"stdout stderr and code",
			Result{Stdout: "a", Stderr: "b", ExitCode: 2},
			"=== OUTPUT ===\na\n=== STDERR ===\nb\n\n=== RETURN CODE: 2 ===",
		},
		{
			"no output",
			Result{},
			"Command completed with no output.",
		},
		{
			"timeout",
			Result{TimedOut: true, Timeout: 300 * time.Second},
			"ERROR: Command timed out after 300 seconds.",
		},
		{
			"launch failure",
			Result{LaunchErr: "exec: not found"},
			"ERROR: exec: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.Format())
		})
	}
}
