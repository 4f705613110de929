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

package imagemin_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/minifyimg/pkg/imagemin"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	webpBytes = []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")
)

// 🧪 testContext returns a context carrying a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.TraceLevel)
	return logger.WithContext(context.Background())
}

// 🧪 writeTree creates files below root
func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent of %s", name)
		require.NoError(t, os.WriteFile(path, content, 0644), "writing %s", name)
	}
}

// 🧪 chdir switches into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func constant(out []byte) imagemin.Transform {
	return func(ctx context.Context, data []byte) ([]byte, error) {
		return out, nil
	}
}

func appendByte(b byte) imagemin.Transform {
	return func(ctx context.Context, data []byte) ([]byte, error) {
		out := make([]byte, 0, len(data)+1)
		out = append(out, data...)
		return append(out, b), nil
	}
}

// 🔧 mockFileSystem is a mock implementation of storage.FileSystem
type mockFileSystem struct {
	mock.Mock
}

func (m *mockFileSystem) Glob(ctx context.Context, pattern string) ([]string, error) {
	result := m.Called(ctx, pattern)
	return result.Get(0).([]string), result.Error(1)
}

func (m *mockFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	result := m.Called(ctx, path)
	return result.Get(0).([]byte), result.Error(1)
}

func (m *mockFileSystem) CreateDir(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *mockFileSystem) WriteFile(ctx context.Context, path string, content []byte) error {
	return m.Called(ctx, path, content).Error(0)
}

func (m *mockFileSystem) RemoveAll(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}
