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
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/minifyimg/pkg/storage"
)

const negationPrefix = "!"

// 🔍 Match resolves inputs into a deduplicated list of file paths.
//
// With glob enabled every input is expanded against fsys, keeping the order
// patterns were given in and the order fsys reports matches. Inputs starting
// with "!" remove matching paths instead. With glob disabled the inputs are
// taken verbatim. Paths are deduplicated on their cleaned form and junk
// files are dropped in both modes.
//
// A pattern that matches nothing contributes nothing; it is not an error.
func Match(ctx context.Context, fsys storage.FileSystem, inputs []string, glob bool) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	var (
		candidates []string
		negations  []string
	)

	if glob {
		for _, input := range inputs {
			if neg, ok := strings.CutPrefix(input, negationPrefix); ok {
				negations = append(negations, filepath.Clean(neg))
				continue
			}
			if !doublestar.ValidatePattern(filepath.ToSlash(input)) {
				return nil, invalidf("malformed pattern %q", input)
			}

			matches, err := fsys.Glob(ctx, input)
			if err != nil {
				return nil, ioErr("glob", input, err)
			}
			logger.Debug().Str("pattern", input).Int("matches", len(matches)).Msg("pattern expanded")
			candidates = append(candidates, matches...)
		}
	} else {
		candidates = inputs
	}

	seen := make(map[string]struct{}, len(candidates))
	paths := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		key := filepath.Clean(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if isNegated(key, negations) {
			logger.Debug().Str("file", candidate).Msg("file excluded by negated pattern")
			continue
		}
		if IsJunk(filepath.Base(candidate)) {
			logger.Debug().Str("file", candidate).Msg("junk file skipped")
			continue
		}
		paths = append(paths, candidate)
	}

	return paths, nil
}

func isNegated(path string, negations []string) bool {
	for _, neg := range negations {
		if doublestar.PathMatchUnvalidated(neg, path) {
			return true
		}
	}
	return false
}
