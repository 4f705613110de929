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
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/minifyimg/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// 📦 fileProcessor runs one source file through the pipeline
type fileProcessor struct {
	fs                storage.FileSystem
	chain             Transform
	destination       string
	template          string
	preserveStructure bool

	mu     sync.Mutex
	claims map[string]string // destination -> source
}

func newFileProcessor(opts Options, template string) (*fileProcessor, error) {
	chain, err := Chain(opts.Plugins)
	if err != nil {
		return nil, err
	}
	return &fileProcessor{
		fs:                opts.fileSystem(),
		chain:             chain,
		destination:       opts.Destination,
		template:          template,
		preserveStructure: opts.PreserveStructure,
		claims:            map[string]string{},
	}, nil
}

// 📄 ProcessFile reads sourcePath, runs the plugins, and writes the result
// below opts.Destination when one is set. template is the first input
// pattern of the batch the file came from.
func ProcessFile(ctx context.Context, sourcePath string, opts Options, template string) (FileResult, error) {
	p, err := newFileProcessor(opts, template)
	if err != nil {
		return FileResult{}, err
	}
	return p.process(ctx, sourcePath)
}

func (p *fileProcessor) process(ctx context.Context, sourcePath string) (FileResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("file", sourcePath).Logger()

	original, err := p.fs.ReadFile(ctx, sourcePath)
	if err != nil {
		return FileResult{}, ioErr("read", sourcePath, err)
	}

	data, err := p.chain(ctx, original)
	if err != nil {
		return FileResult{}, err
	}

	format := Sniff(data)

	dest, err := ResolveDestination(DestinationRequest{
		SourcePath:        sourcePath,
		Root:              p.destination,
		Template:          p.template,
		PreserveStructure: p.preserveStructure,
		Format:            format,
	})
	if err != nil {
		return FileResult{}, err
	}

	result := FileResult{
		Data:            data,
		SourcePath:      sourcePath,
		DestinationPath: dest,
		Format:          format,
		OriginalSize:    len(original),
	}

	if dest == "" {
		logger.Debug().Str("format", format.String()).Msg("transformed without writing")
		return result, nil
	}

	// another file already failed; skip the write
	if err := ctx.Err(); err != nil {
		return FileResult{}, errors.WithStack(err)
	}

	if err := p.claim(dest, sourcePath); err != nil {
		return FileResult{}, err
	}

	dir := filepath.Dir(dest)
	if err := p.fs.CreateDir(ctx, dir); err != nil {
		return FileResult{}, ioErr("mkdir", dir, err)
	}
	if err := p.fs.WriteFile(ctx, dest, data); err != nil {
		return FileResult{}, ioErr("write", dest, err)
	}

	logger.Debug().
		Str("destination", dest).
		Str("format", format.String()).
		Int("original_size", len(original)).
		Int("size", len(data)).
		Msg("file written")

	return result, nil
}

// claim reserves dest for source. Each destination is written by one file only.
func (p *fileProcessor) claim(dest, source string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := filepath.Clean(dest)
	if prev, ok := p.claims[key]; ok && prev != source {
		return invalidf("%s and %s both resolve to %s", prev, source, dest)
	}
	p.claims[key] = source
	return nil
}
