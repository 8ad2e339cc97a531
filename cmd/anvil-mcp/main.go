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

// anvil-mcp is an MCP (Model Context Protocol) server that manages a
// directory of Ansible automation assets and drives the Ansible engine
// against them.
//
// It communicates with MCP clients over stdio (JSON-RPC). Inventory,
// variable files, playbooks, templates, and ansible.cfg under the managed
// directory are exposed as tools, alongside engine invocations (playbook
// runs, ad-hoc modules, Junos device operations).
//
// Usage:
//
//	anvil-mcp --ansible-dir /srv/ansible
//
// Claude Desktop configuration (claude_desktop_config.json):
//
//	{
//	  "mcpServers": {
//	    "anvil": {
//	      "command": "/path/to/anvil-mcp",
//	      "args": ["--ansible-dir", "/srv/ansible"]
//	    }
//	  }
//	}
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teradata-labs/anvil/internal/ansible"
	"github.com/teradata-labs/anvil/internal/config"
	"github.com/teradata-labs/anvil/internal/runner"
	"github.com/teradata-labs/anvil/internal/store"
	"github.com/teradata-labs/anvil/internal/version"
	"github.com/teradata-labs/anvil/pkg/mcp/server"
	"github.com/teradata-labs/anvil/pkg/mcp/transport"
)

const serverName = "anvil-mcp"

var rootCmd = &cobra.Command{
	Use:     "anvil-mcp",
	Short:   "MCP server for managing Ansible assets and running the Ansible engine",
	Long:    `anvil-mcp exposes a managed Ansible directory (inventory, group/host vars, playbooks, templates, ansible.cfg) as MCP tools over stdio, and invokes ansible, ansible-playbook, and ansible-inventory on behalf of the client.`,
	Version: version.Get(),
	RunE:    runServe,
}

func init() {
	rootCmd.PersistentFlags().String("ansible-dir", "", "Managed Ansible directory (default: $ANSIBLE_DIR or ~/ansible)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (defaults to stderr)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Duration("timeout", runner.DefaultTimeout, "Playbook and ad-hoc execution timeout")

	_ = viper.BindPFlag("ansible.dir", rootCmd.PersistentFlags().Lookup("ansible-dir"))
	_ = viper.BindPFlag("logging.file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("run.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	_ = viper.BindEnv("ansible.dir", config.EnvAnsibleDir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// CRITICAL: never write logs to stdout, that's the MCP transport.
	logger, err := buildLogger(viper.GetString("logging.file"), viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.New(viper.GetString("ansible.dir"))
	logger.Info("starting anvil-mcp server",
		zap.String("ansible_dir", cfg.Root),
		zap.String("version", version.Get()),
	)

	// Missing subdirectories are created up front; failures are logged and
	// the tools that need them surface errors on use.
	for _, de := range cfg.EnsureDirs() {
		logger.Warn("failed to create directory", zap.String("dir", de.Dir), zap.Error(de.Err))
	}

	st := store.New(cfg.Root, logger.Named("store"))
	run := runner.New(logger.Named("runner"))

	provider := ansible.NewProvider(cfg, st, run, logger.Named("tools"),
		ansible.WithRunTimeout(viper.GetDuration("run.timeout")),
	)

	mcpServer := server.NewMCPServer(serverName, version.Get(), logger,
		server.WithToolProvider(provider),
	)

	stdioTransport := transport.NewStdioServerTransport(os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("MCP server ready, awaiting client connections on stdio",
		zap.Duration("run_timeout", viper.GetDuration("run.timeout")),
	)
	if err := mcpServer.Serve(ctx, stdioTransport); err != nil {
		if ctx.Err() != nil {
			logger.Info("server stopped gracefully")
			return nil
		}
		logger.Error("server error", zap.Error(err))
		return err
	}
	return nil
}

// buildLogger creates a zap logger writing to a file, or stderr when no file
// is given. An unknown level falls back to info.
func buildLogger(logFile, logLevel string) (*zap.Logger, error) {
	level := parseLogLevel(logLevel)

	var output zapcore.WriteSyncer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- log file path from CLI flag
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		output = zapcore.AddSync(f)
	} else {
		output = zapcore.AddSync(os.Stderr)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		output,
		level,
	)

	return zap.New(core), nil
}

// parseLogLevel converts a string log level to a zapcore.Level.
func parseLogLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
