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

// Package config holds the resolved layout of the managed Ansible directory.
// A Config is constructed once at startup and passed to each component; there
// are no package-level globals.
package config

import (
	"os"
	"path/filepath"
)

// EnvAnsibleDir is the environment variable that overrides the managed root.
const EnvAnsibleDir = "ANSIBLE_DIR"

// Config describes the managed Ansible directory tree.
type Config struct {
	// Root is the managed root directory (ANSIBLE_DIR).
	Root string

	InventoryDir string
	GroupVarsDir string
	HostVarsDir  string
	PlaybooksDir string
	RolesDir     string
	TemplatesDir string
	FilesDir     string
}

// New builds a Config rooted at dir. When dir is empty the ANSIBLE_DIR
// environment variable is consulted, falling back to ~/ansible.
func New(dir string) *Config {
	if dir == "" {
		dir = os.Getenv(EnvAnsibleDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, "ansible")
	}

	return &Config{
		Root:         dir,
		InventoryDir: filepath.Join(dir, "inventory"),
		GroupVarsDir: filepath.Join(dir, "group_vars"),
		HostVarsDir:  filepath.Join(dir, "host_vars"),
		PlaybooksDir: filepath.Join(dir, "playbooks"),
		RolesDir:     filepath.Join(dir, "roles"),
		TemplatesDir: filepath.Join(dir, "templates"),
		FilesDir:     filepath.Join(dir, "files"),
	}
}

// InventoryPath returns the path of the primary inventory file.
func (c *Config) InventoryPath() string {
	return filepath.Join(c.InventoryDir, "hosts.ini")
}

// ConfigPath returns the path of ansible.cfg under the root.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Root, "ansible.cfg")
}

// DirError pairs a directory with the error that prevented its creation.
type DirError struct {
	Dir string
	Err error
}

// EnsureDirs creates the fixed subdirectories, returning one DirError per
// directory that could not be created. The caller decides how to report them;
// a missing directory is not fatal because it is recreated on first write.
func (c *Config) EnsureDirs() []DirError {
	dirs := []string{
		c.InventoryDir,
		c.GroupVarsDir,
		c.HostVarsDir,
		c.PlaybooksDir,
		c.RolesDir,
		c.TemplatesDir,
		c.FilesDir,
	}

	var failed []DirError
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			failed = append(failed, DirError{Dir: d, Err: err})
		}
	}
	return failed
}
