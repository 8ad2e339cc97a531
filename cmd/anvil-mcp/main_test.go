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

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teradata-labs/anvil/internal/runner"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"info", zap.InfoLevel},
		{"warn", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{"", zap.InfoLevel},        // default
		{"unknown", zap.InfoLevel}, // unrecognized falls back to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestBuildLoggerToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "anvil.log")

	logger, err := buildLogger(logPath, "info")
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("hello from test")
	_ = logger.Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestBuildLoggerInvalidPath(t *testing.T) {
	_, err := buildLogger("/no/such/directory/anvil.log", "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open log file")
}

func TestBuildLoggerNeverUsesStdout(t *testing.T) {
	// stdout is the MCP stdio transport; a file-based logger must write
	// only to the file.
	logPath := filepath.Join(t.TempDir(), "anvil.log")

	origStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = stdoutW

	logger, err := buildLogger(logPath, "info")
	require.NoError(t, err)

	logger.Info("should go to file only")
	_ = logger.Sync()

	stdoutW.Close()
	os.Stdout = origStdout

	buf := make([]byte, 4096)
	n, _ := stdoutR.Read(buf)
	stdoutR.Close()

	assert.Equal(t, 0, n, "nothing should be written to stdout; got: %s", string(buf[:n]))
}

func TestBuildLoggerLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "anvil.log")

	logger, err := buildLogger(logPath, "error")
	require.NoError(t, err)

	logger.Info("filtered out")
	logger.Error("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered out")
	assert.Contains(t, string(data), "kept")
}

func TestAnsibleDirEnvBinding(t *testing.T) {
	t.Setenv("ANSIBLE_DIR", "/srv/ansible")
	assert.Equal(t, "/srv/ansible", viper.GetString("ansible.dir"))
}

func TestTimeoutFlagDefault(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("timeout")
	require.NotNil(t, f)
	assert.Equal(t, runner.DefaultTimeout, viper.GetDuration("run.timeout"))
	assert.Equal(t, (300 * time.Second).String(), f.DefValue)
}
