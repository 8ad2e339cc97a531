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

// Package runner executes external commands synchronously with a bounded
// timeout and structured result capture. Argument vectors are passed to the
// OS directly; no shell ever interprets them. A failure to launch is data in
// the result, not an error, so callers render every outcome uniformly.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds command execution when the spec does not.
const DefaultTimeout = 300 * time.Second

// killGrace is how long Run waits for Wait to return after killing a
// timed-out process before giving up on it.
const killGrace = 500 * time.Millisecond

// Spec describes a single external command invocation. It carries no state
// across calls.
type Spec struct {
	// Argv is the command and its arguments, passed as opaque tokens.
	Argv []string

	// Dir is the working directory; empty means the current directory.
	Dir string

	// Env is overlaid on the inherited environment after the fixed keys.
	Env map[string]string

	// Timeout bounds execution; zero means DefaultTimeout.
	Timeout time.Duration
}

// Result captures one invocation's outcome. Exactly one invocation produces
// exactly one Result; it is never retried.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool

	// LaunchErr is set when the process could not be started at all
	// (missing executable, permission denied). The other fields are
	// zero in that case except Timeout.
	LaunchErr string

	// Timeout echoes the effective timeout, for rendering.
	Timeout time.Duration
}

// Format renders the result as a labeled text document: an output section,
// a stderr section, and a trailing return-code marker for non-zero exits.
// Timeouts and launch failures render as a single ERROR line.
func (r Result) Format() string {
	if r.TimedOut {
		return fmt.Sprintf("ERROR: Command timed out after %d seconds.", int(r.Timeout.Seconds()))
	}
	if r.LaunchErr != "" {
		return "ERROR: " + r.LaunchErr
	}

	var parts []string
	if r.Stdout != "" {
		parts = append(parts, "=== OUTPUT ===\n"+r.Stdout)
	}
	if r.Stderr != "" {
		parts = append(parts, "=== STDERR ===\n"+r.Stderr)
	}
	if r.ExitCode != 0 {
		parts = append(parts, fmt.Sprintf("\n=== RETURN CODE: %d ===", r.ExitCode))
	}
	if len(parts) == 0 {
		return "Command completed with no output."
	}
	return strings.Join(parts, "\n")
}

// Runner launches external processes. The zero environment overlay disables
// interactive host-key prompts and color codes so captured output stays
// machine-readable.
type Runner struct {
	logger *zap.Logger
}

// New creates a Runner. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run executes the spec and blocks until completion, timeout, or context
// cancellation. Cancellation and timeout both kill the child and set
// TimedOut; there is no softer cancellation path.
func (r *Runner) Run(ctx context.Context, spec Spec) Result {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	res := Result{Timeout: timeout}

	if len(spec.Argv) == 0 {
		res.LaunchErr = "empty command"
		return res
	}

	r.logger.Info("running command",
		zap.Strings("argv", spec.Argv),
		zap.String("dir", spec.Dir),
		zap.Duration("timeout", timeout),
	)

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...) // #nosec G204 -- argv is sanitized by the caller and never shell-interpreted
	cmd.Dir = spec.Dir

	cmd.Env = append(os.Environ(),
		"ANSIBLE_HOST_KEY_CHECKING=False",
		"ANSIBLE_FORCE_COLOR=false",
	)
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		r.logger.Error("command launch failed", zap.Strings("argv", spec.Argv), zap.Error(err))
		res.LaunchErr = err.Error()
		return res
	}

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	select {
	case waitErr = <-waitDone:
	case <-timer.C:
		res.TimedOut = true
		r.kill(cmd, waitDone)
	case <-ctx.Done():
		res.TimedOut = true
		r.kill(cmd, waitDone)
	}

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if res.TimedOut {
		res.ExitCode = -1
		r.logger.Warn("command timed out",
			zap.Strings("argv", spec.Argv),
			zap.Duration("timeout", timeout),
		)
		return res
	}

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.LaunchErr = waitErr.Error()
			return res
		}
	}

	r.logger.Debug("command finished",
		zap.Strings("argv", spec.Argv),
		zap.Int("exit_code", res.ExitCode),
	)
	return res
}

// kill forcefully terminates the child and waits briefly for Wait to return
// so the output buffers are settled. The process may already have exited.
func (r *Runner) kill(cmd *exec.Cmd, waitDone <-chan error) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	select {
	case <-waitDone:
	case <-time.After(killGrace):
	}
}
