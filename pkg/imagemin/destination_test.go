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

package imagemin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDestination(t *testing.T) {
	webp := BinaryFormat{Extension: ExtensionWebP, MIME: "image/webp"}
	png := BinaryFormat{Extension: "png", MIME: "image/png"}

	tests := []struct {
		name        string
		req         DestinationRequest
		want        string
		errContains string
	}{
		{
			name: "flatten",
			req:  DestinationRequest{SourcePath: "a/b/c.png", Root: "out", Template: "a/**/*", Format: png},
			want: filepath.Join("out", "c.png"),
		},
		{
			name: "preserve_structure",
			req:  DestinationRequest{SourcePath: "src/x/y.png", Root: "out", Template: "src/**/*", PreserveStructure: true, Format: png},
			want: filepath.Join("out", "x", "y.png"),
		},
		{
			name: "preserve_structure_dot_prefix",
			req:  DestinationRequest{SourcePath: "src/x/y.png", Root: "out", Template: "./src/**/*.png", PreserveStructure: true},
			want: filepath.Join("out", "x", "y.png"),
		},
		{
			name: "preserve_structure_partial_segment",
			req:  DestinationRequest{SourcePath: "src/img1.png", Root: "out", Template: "src/img*.png", PreserveStructure: true},
			want: filepath.Join("out", "img1.png"),
		},
		{
			name: "preserve_structure_no_directory",
			req:  DestinationRequest{SourcePath: "a.png", Root: "out", Template: "*.png", PreserveStructure: true},
			want: filepath.Join("out", "a.png"),
		},
		{
			name: "webp_override_flatten",
			req:  DestinationRequest{SourcePath: "a/b/c.png", Root: "out", Format: webp},
			want: filepath.Join("out", "c.webp"),
		},
		{
			name: "webp_override_preserve",
			req:  DestinationRequest{SourcePath: "src/x/y.jpeg", Root: "out", Template: "src/**", PreserveStructure: true, Format: webp},
			want: filepath.Join("out", "x", "y.webp"),
		},
		{
			name: "webp_override_without_extension",
			req:  DestinationRequest{SourcePath: "a/photo", Root: "out", Format: webp},
			want: filepath.Join("out", "photo.webp"),
		},
		{
			name: "unknown_format_keeps_extension",
			req:  DestinationRequest{SourcePath: "a/notes.txt", Root: "out", Format: FormatUnknown},
			want: filepath.Join("out", "notes.txt"),
		},
		{
			name: "no_root",
			req:  DestinationRequest{SourcePath: "a/b/c.png", Template: "a/**", PreserveStructure: true, Format: webp},
			want: "",
		},
		{
			name:        "preserve_without_wildcard",
			req:         DestinationRequest{SourcePath: "src/a.png", Root: "out", Template: "src/a.png", PreserveStructure: true},
			errContains: "requires a wildcard",
		},
		{
			name:        "preserve_outside_prefix",
			req:         DestinationRequest{SourcePath: "other/a.png", Root: "out", Template: "src/**/*", PreserveStructure: true},
			errContains: "outside the fixed prefix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDestination(tt.req)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructureRoot(t *testing.T) {
	tests := []struct {
		name        string
		inputs      []string
		glob        bool
		want        string
		errContains string
	}{
		{
			name:   "single_pattern",
			inputs: []string{"src/images/**/*"},
			glob:   true,
			want:   filepath.Join("src", "images"),
		},
		{
			name:   "shared_prefix",
			inputs: []string{"src/**/*.png", "src/**/*.jpg", "!src/tmp/**"},
			glob:   true,
			want:   "src",
		},
		{
			name:        "different_prefixes",
			inputs:      []string{"src/**/*.png", "assets/**/*.png"},
			glob:        true,
			errContains: "different fixed prefixes",
		},
		{
			name:        "literal_first_input",
			inputs:      []string{"src/a.png"},
			glob:        true,
			errContains: "requires a wildcard",
		},
		{
			name:        "negated_first_input",
			inputs:      []string{"!src/**", "src/**"},
			glob:        true,
			errContains: "positive glob pattern",
		},
		{
			name:        "glob_disabled",
			inputs:      []string{"src/**/*"},
			glob:        false,
			errContains: "requires glob expansion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := structureRoot(tt.inputs, tt.glob)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsJunk(t *testing.T) {
	junk := []string{".DS_Store", "Thumbs.db", "ehthumbs.db", "Desktop.ini", "desktop.ini", "._photo.png", ".photo.png.swp", "photo.png~", "npm-debug.log", "__MACOSX", "Icon\r"}
	for _, name := range junk {
		assert.True(t, IsJunk(name), "%q should be junk", name)
	}

	clean := []string{"photo.png", "logo.svg", "DS_Store.png", "thumbs.png", "Icon.png", ".gitkeep"}
	for _, name := range clean {
		assert.False(t, IsJunk(name), "%q should not be junk", name)
	}
}
