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
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Run expands inputs, processes every matching file concurrently and
// returns one FileResult per file in the order the files were discovered.
//
// The batch is all-or-nothing: the first failing file cancels the rest and
// Run returns only that error, annotated with the file and the inputs.
// Configuration problems are reported before any filesystem access.
func Run(ctx context.Context, inputs []string, opts Options) ([]FileResult, error) {
	if len(inputs) == 0 {
		return nil, invalidf("expected a non-empty list of input patterns")
	}
	for i, input := range inputs {
		if strings.TrimSpace(input) == "" || input == negationPrefix {
			return nil, invalidf("input at index %d is empty", i)
		}
		if opts.Glob && !doublestar.ValidatePattern(filepath.ToSlash(strings.TrimPrefix(input, negationPrefix))) {
			return nil, invalidf("malformed pattern %q", input)
		}
	}

	if opts.Destination != "" && opts.PreserveStructure {
		if _, err := structureRoot(inputs, opts.Glob); err != nil {
			return nil, err
		}
	}

	proc, err := newFileProcessor(opts, inputs[0])
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)

	paths, err := Match(ctx, proc.fs, inputs, opts.Glob)
	if err != nil {
		return nil, errors.Errorf("resolving inputs %s: %w", formatInputs(inputs), err)
	}

	logger.Debug().Strs("inputs", inputs).Int("files", len(paths)).Msg("starting batch")

	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			res, err := proc.process(gctx, path)
			if err != nil {
				return errors.Errorf("handling file %s (input %s): %w", path, formatInputs(inputs), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Debug().Err(err).Msg("batch failed")
		return nil, err
	}

	logger.Debug().Int("files", len(results)).Msg("batch complete")
	return results, nil
}

// 🧪 Buffer runs plugins over data without touching the filesystem. With no
// plugins data is returned unchanged.
func Buffer(ctx context.Context, data []byte, plugins []Transform) ([]byte, error) {
	if data == nil {
		return nil, invalidf("expected a buffer, got nil")
	}

	chain, err := Chain(plugins)
	if err != nil {
		return nil, err
	}

	return chain(ctx, data)
}

func formatInputs(inputs []string) string {
	return strings.Join(inputs, ", ")
}
