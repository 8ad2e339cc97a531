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

// Package store is a versioned file store for assets under a managed root.
// Every overwrite or delete of an existing asset first copies its content to
// an immutable timestamped backup next to the original. Backups are never
// treated as live assets: they are excluded from listings and never cleaned
// up automatically.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/internal/pathguard"
)

// BackupExt is the marker extension appended to backup files.
const BackupExt = ".bak"

// backupTimeLayout sorts lexicographically by creation time.
const backupTimeLayout = "20060102_150405"

var (
	// ErrNotFound is returned when the addressed asset does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIsDir is returned by Read when the asset is a directory. The
	// accompanying content is the directory's sorted listing.
	ErrIsDir = errors.New("is a directory")
)

// Store reads and writes named assets under a root directory.
type Store struct {
	root   string
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Store over root. A nil logger is replaced with a no-op one.
func New(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: root, logger: logger, now: time.Now}
}

// Root returns the managed root directory.
func (s *Store) Root() string {
	return s.root
}

// Resolve maps a root-relative asset name to an absolute path, rejecting
// traversal. Exposed so callers composing command lines can address assets
// the store manages.
func (s *Store) Resolve(rel string) (string, error) {
	return pathguard.ResolvePath(s.root, rel)
}

// Exists reports whether the asset exists.
func (s *Store) Exists(rel string) bool {
	full, err := s.Resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// Read returns the asset's content. Reading a directory returns its sorted
// top-level listing together with ErrIsDir so callers can render either.
func (s *Store) Read(rel string) (string, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", rel, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(full)
		if err != nil {
			return "", fmt.Errorf("read dir %s: %w", rel, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		return strings.Join(names, "\n"), fmt.Errorf("%w: %s", ErrIsDir, rel)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return string(data), nil
}

// Write stores content at rel, creating parent directories as needed. When
// backup is true and the asset already exists, its current content is copied
// to a timestamped backup first; the backup's base name is returned.
//
// The write itself is not atomic: a failure after the backup was taken can
// leave the asset truncated. The backup preserves the prior version but does
// not prevent lost updates between concurrent callers.
func (s *Store) Write(rel, content string, backup bool) (string, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create parent dirs for %s: %w", rel, err)
	}

	var backupName string
	if backup {
		backupName, err = s.backup(full)
		if err != nil {
			return "", fmt.Errorf("backup %s: %w", rel, err)
		}
	}

	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return backupName, fmt.Errorf("write %s: %w", rel, err)
	}

	s.logger.Debug("asset written",
		zap.String("path", rel),
		zap.Int("bytes", len(content)),
		zap.String("backup", backupName),
	)
	return backupName, nil
}

// Remove backs up and deletes the asset, returning the backup's base name.
func (s *Store) Remove(rel string) (string, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(full); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
	}

	backupName, err := s.backup(full)
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", rel, err)
	}
	if err := os.Remove(full); err != nil {
		return backupName, fmt.Errorf("remove %s: %w", rel, err)
	}

	s.logger.Debug("asset removed", zap.String("path", rel), zap.String("backup", backupName))
	return backupName, nil
}

// List returns the entries under rel ("" for the root), sorted by name.
// Dotfiles and backups are excluded. In recursive mode the result is a
// depth-indented tree with a trailing slash on directories and file sizes
// on files; otherwise only the top level is returned, bare names.
func (s *Store) List(rel string, recursive bool) ([]string, error) {
	dir := s.root
	if rel != "" {
		var err error
		dir, err = s.Resolve(rel)
		if err != nil {
			return nil, err
		}
	}

	if !recursive {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", rel, err)
		}
		var names []string
		for _, e := range entries {
			if skipEntry(e.Name()) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		return names, nil
	}

	var lines []string
	if err := s.walk(dir, 0, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) walk(dir string, depth int, lines *[]string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if err != nil {
		// Unreadable subtree: record and keep going, matching the
		// best-effort tree view.
		*lines = append(*lines, strings.Repeat("  ", depth)+"(permission denied)")
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	prefix := strings.Repeat("  ", depth)
	for _, e := range entries {
		if skipEntry(e.Name()) {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			*lines = append(*lines, prefix+e.Name()+"/")
			if err := s.walk(full, depth+1, lines); err != nil {
				return err
			}
			continue
		}
		size := int64(0)
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		*lines = append(*lines, fmt.Sprintf("%s%s (%d bytes)", prefix, e.Name(), size))
	}
	return nil
}

// backup copies the file at full to a timestamped sibling. Missing files
// yield no backup and no error.
func (s *Store) backup(full string) (string, error) {
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s.%s%s", full, s.now().Format(backupTimeLayout), BackupExt)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", err
	}
	return filepath.Base(name), nil
}

func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, BackupExt)
}
