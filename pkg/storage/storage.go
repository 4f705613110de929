// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage is the filesystem boundary of the minify pipeline. Every
// byte the pipeline reads or writes goes through a FileSystem, which keeps
// the core testable without touching the disk.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileSystem handles all file system operations of a batch run
type FileSystem interface {
	// Glob expands a pattern into the regular files that match it.
	Glob(ctx context.Context, pattern string) ([]string, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// CreateDir creates path and any missing parents. An existing directory is not an error.
	CreateDir(ctx context.Context, path string) error
	// WriteFile replaces path atomically. The parent directory must exist.
	WriteFile(ctx context.Context, path string, content []byte) error
	RemoveAll(ctx context.Context, path string) error
}

// 🔧 Disk implements FileSystem on top of the host filesystem
type Disk struct {
	dirMode  os.FileMode
	fileMode os.FileMode
}

var _ FileSystem = (*Disk)(nil)

// 🏭 NewDisk creates a FileSystem backed by the host filesystem
func NewDisk() *Disk {
	return &Disk{
		dirMode:  0755,
		fileMode: 0644,
	}
}

// Glob matches pattern with doublestar semantics (`**`, `{a,b}`, classes).
// Patterns without meta characters are returned as-is when they name a
// regular file.
func (d *Disk) Glob(ctx context.Context, pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, errors.Errorf("checking %s: %w", pattern, err)
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return []string{filepath.Clean(pattern)}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %q: %w", pattern, err)
	}

	zerolog.Ctx(ctx).Trace().Str("pattern", pattern).Int("matches", len(matches)).Msg("expanded pattern")
	return matches, nil
}

func (d *Disk) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (d *Disk) CreateDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, d.dirMode); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// WriteFile writes to a sibling temp file and renames it over path.
func (d *Disk) WriteFile(ctx context.Context, path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, d.fileMode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func (d *Disk) RemoveAll(ctx context.Context, path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errors.Errorf("removing directory: %w", err)
	}
	return nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{\\")
}
