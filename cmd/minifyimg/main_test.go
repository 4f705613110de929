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

package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/minifyimg/pkg/imagemin"
)

// 🧪 uncompressedPNG returns a png the png plugin can shrink
func uncompressedPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&buf, img))
	return buf.Bytes()
}

// 🧪 setupProject creates a project with images below src/images and
// switches into it
func setupProject(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return dir
}

// 🧪 execute runs the root command and returns its stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootDefaults(t *testing.T) {
	img := uncompressedPNG(t)
	setupProject(t, map[string][]byte{
		"src/images/a.png":       img,
		"src/images/icons/b.png": img,
		"src/images/.DS_Store":   []byte("junk"),
	})

	out, err := execute(t)
	require.NoError(t, err)

	for _, path := range []string{"assets/images/a.png", "assets/images/icons/b.png"} {
		data, err := os.ReadFile(path)
		require.NoError(t, err, "reading %s", path)
		assert.Less(t, len(data), len(img), "%s should be minified", path)
	}
	assert.NoFileExists(t, "assets/images/.DS_Store")
	assert.Contains(t, out, "2 images minified")
}

func TestRootFlatten(t *testing.T) {
	img := uncompressedPNG(t)
	setupProject(t, map[string][]byte{
		"src/images/icons/b.png": img,
	})

	_, err := execute(t, "--deep-copy=false", "-o", "dist")
	require.NoError(t, err)

	assert.FileExists(t, "dist/b.png")
	assert.NoDirExists(t, "dist/icons")
}

func TestRootNegatedArgument(t *testing.T) {
	img := uncompressedPNG(t)
	setupProject(t, map[string][]byte{
		"src/images/a.png":     img,
		"src/images/raw/b.png": img,
	})

	out, err := execute(t, "!src/images/raw/**")
	require.NoError(t, err)

	assert.FileExists(t, "assets/images/a.png")
	assert.NoFileExists(t, "assets/images/raw/b.png")
	assert.Contains(t, out, "1 image minified")
}

func TestRootUseWebp(t *testing.T) {
	img := uncompressedPNG(t)

	t.Run("flag", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png":       img,
			"src/images/icons/b.png": img,
		})

		out, err := execute(t, "-w")
		require.NoError(t, err)

		for _, path := range []string{"assets/images/a.webp", "assets/images/icons/b.webp"} {
			data, err := os.ReadFile(path)
			require.NoError(t, err, "reading %s", path)
			assert.Equal(t, "webp", imagemin.Sniff(data).Extension)
		}
		assert.NoFileExists(t, "assets/images/a.png")
		assert.Contains(t, out, "png, jpeg, webp")
	})

	t.Run("config_file", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png": img,
			"minifyimg.json":   []byte(`{"useWebp": true}`),
		})

		_, err := execute(t)
		require.NoError(t, err)
		assert.FileExists(t, "assets/images/a.webp")
	})

	t.Run("flag_overrides_config_file", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png": img,
			"minifyimg.json":   []byte(`{"useWebp": true}`),
		})

		_, err := execute(t, "--use-webp=false")
		require.NoError(t, err)
		assert.FileExists(t, "assets/images/a.png")
		assert.NoFileExists(t, "assets/images/a.webp")
	})
}

func TestRootNoMatches(t *testing.T) {
	setupProject(t, map[string][]byte{
		"src/images/readme.txt~": []byte("junk"),
	})

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "no images matched src/images/**/*")
	assert.Contains(t, out, "0 images minified")
}

func TestRootConfigFile(t *testing.T) {
	img := uncompressedPNG(t)

	t.Run("file_values_apply", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"static/a.png":   img,
			"minifyimg.json": []byte(`{"inputDir": "static/*.png", "outDir": "dist", "plugin": "png"}`),
		})

		_, err := execute(t)
		require.NoError(t, err)
		assert.FileExists(t, "dist/a.png")
		assert.NoDirExists(t, "assets")
	})

	t.Run("flags_win_over_file", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"static/a.png":   img,
			"minifyimg.json": []byte(`{"inputDir": "static/*.png", "outDir": "dist"}`),
		})

		_, err := execute(t, "-o", "out")
		require.NoError(t, err)
		assert.FileExists(t, "out/a.png")
		assert.NoDirExists(t, "dist")
	})

	t.Run("yaml_file", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"static/a.png":   img,
			"minifyimg.yaml": []byte("inputDir: static/*.png\noutDir: build\ndeepCopy: false\n"),
		})

		_, err := execute(t, "-c", "minifyimg.yaml")
		require.NoError(t, err)
		assert.FileExists(t, "build/a.png")
	})

	t.Run("explicit_missing_file", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png": img,
		})

		_, err := execute(t, "-c", "nope.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})

	t.Run("invalid_file", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"minifyimg.json": []byte(`{"outDir": ""}`),
		})

		_, err := execute(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outDir must not be empty")
	})
}

func TestRootClean(t *testing.T) {
	img := uncompressedPNG(t)

	t.Run("removes_stale_output", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png":         img,
			"assets/images/stale.png":  img,
			"assets/images/old/c.jpeg": []byte("old"),
		})

		out, err := execute(t)
		require.NoError(t, err)
		assert.NoFileExists(t, "assets/images/stale.png")
		assert.NoDirExists(t, "assets/images/old")
		assert.FileExists(t, "assets/images/a.png")
		assert.Contains(t, out, "deleted "+filepath.Join("assets", "images", "stale.png"))
		assert.Contains(t, out, "cleaned assets/images")
	})

	t.Run("disabled", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png":        img,
			"assets/images/stale.png": img,
		})

		_, err := execute(t, "--clean=false")
		require.NoError(t, err)
		assert.FileExists(t, "assets/images/stale.png")
	})

	t.Run("refuses_working_directory", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png": img,
		})

		_, err := execute(t, "-o", ".")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contains the working directory")
		assert.FileExists(t, "src/images/a.png")
	})
}

func TestRootErrors(t *testing.T) {
	img := uncompressedPNG(t)

	t.Run("unknown_plugin", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/a.png": img,
		})

		_, err := execute(t, "-p", "gif")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown plugin "gif"`)
		assert.Contains(t, err.Error(), "jpeg, png, webp")
	})

	t.Run("corrupt_image", func(t *testing.T) {
		setupProject(t, map[string][]byte{
			"src/images/broken.png": append([]byte("\x89PNG\r\n\x1a\n"), "garbage"...),
		})

		_, err := execute(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.png")
		assert.NoFileExists(t, "assets/images/broken.png")
	})
}

func TestStartSpinnerSkipsNonTerminal(t *testing.T) {
	buf := &bytes.Buffer{}
	stop, err := startSpinner(buf, "Minifying images")
	require.NoError(t, err)
	stop()
	assert.Empty(t, buf.String())
}

func TestCheckDeletable(t *testing.T) {
	dir := setupProject(t, nil)

	assert.NoError(t, checkDeletable("assets/images"))
	assert.NoError(t, checkDeletable("../sibling"))
	assert.Error(t, checkDeletable("."))
	assert.Error(t, checkDeletable(filepath.Dir(dir)))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "minifyimg version info")
	assert.Contains(t, out, "Go:")
}

func TestFormatVersion(t *testing.T) {
	got := FormatVersion(&VersionInfo{
		Version:   "v1.2.3",
		GoVersion: "go1.23.5",
		Platform:  "linux/amd64",
		Revision:  "abc123",
		Time:      "2025-01-01T00:00:00Z",
		Modified:  true,
	})
	assert.Contains(t, got, "Version:   v1.2.3")
	assert.Contains(t, got, "Revision:  abc123 (modified)")
	assert.Contains(t, got, "Platform:  linux/amd64")
}
