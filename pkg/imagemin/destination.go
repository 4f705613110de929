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
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// 📍 DestinationRequest carries everything needed to place one output file
type DestinationRequest struct {
	SourcePath string
	// Root is the destination directory. Empty means nothing is written.
	Root string
	// Template is the first input pattern; its fixed prefix anchors sub-paths.
	Template          string
	PreserveStructure bool
	Format            BinaryFormat
}

// 📍 ResolveDestination computes where a processed file goes. It performs no
// I/O. An empty path with a nil error means transform-only mode.
//
//	flatten:   out + base(src)                        a/b/c.png -> out/c.png
//	preserve:  out + rel(fixedPrefix(template), src)  src/x/y.png with src/**/* -> out/x/y.png
//
// When the content is webp the extension is rewritten to .webp.
func ResolveDestination(req DestinationRequest) (string, error) {
	if req.Root == "" {
		return "", nil
	}

	var dest string
	if req.PreserveStructure {
		base, err := fixedPrefix(req.Template)
		if err != nil {
			return "", err
		}

		rel, err := filepath.Rel(base, filepath.Clean(req.SourcePath))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", invalidf("%s is outside the fixed prefix %s of %q", req.SourcePath, base, req.Template)
		}
		dest = filepath.Join(req.Root, rel)
	} else {
		dest = filepath.Join(req.Root, filepath.Base(req.SourcePath))
	}

	if req.Format.Extension == ExtensionWebP {
		dest = replaceExt(dest, "."+ExtensionWebP)
	}

	return dest, nil
}

// fixedPrefix returns the directory part of pattern that precedes its first
// wildcard. A pattern without wildcards has no meaningful prefix.
func fixedPrefix(pattern string) (string, error) {
	if pattern == "" || strings.HasPrefix(pattern, negationPrefix) {
		return "", invalidf("preserving structure requires a positive glob pattern as the first input, got %q", pattern)
	}

	slashed := filepath.ToSlash(filepath.Clean(pattern))
	base, rest := doublestar.SplitPattern(slashed)
	if !strings.ContainsAny(rest, "*?[{") {
		return "", invalidf("preserving structure requires a wildcard in the first input, got %q", pattern)
	}

	return filepath.FromSlash(base), nil
}

// structureRoot validates that every positive input shares the fixed prefix
// of the first one, so each match has a well-defined sub-path.
func structureRoot(inputs []string, glob bool) (string, error) {
	if !glob {
		return "", invalidf("preserving structure requires glob expansion")
	}

	base, err := fixedPrefix(inputs[0])
	if err != nil {
		return "", err
	}

	for _, input := range inputs[1:] {
		if strings.HasPrefix(input, negationPrefix) {
			continue
		}
		other, err := fixedPrefix(input)
		if err != nil {
			return "", err
		}
		if other != base {
			return "", invalidf("inputs %q and %q have different fixed prefixes (%s, %s)", inputs[0], input, base, other)
		}
	}

	return base, nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
