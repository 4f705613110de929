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

	"github.com/walteh/minifyimg/pkg/storage"
)

// 🔌 Transform maps one buffer to another. Implementations may block and
// should honor ctx.
type Transform func(ctx context.Context, data []byte) ([]byte, error)

// 🔧 Options configures one batch run. It is read-only for the duration of
// the run.
type Options struct {
	// Destination is the output root. Empty means transform only, nothing is written.
	Destination string
	// PreserveStructure mirrors the source sub-path below the first input's
	// fixed prefix instead of flattening every file into Destination.
	PreserveStructure bool
	// Plugins run left to right over each file's bytes. May be empty.
	Plugins []Transform
	// Glob treats inputs as patterns. When false they are literal paths.
	Glob bool
	// FS defaults to the host filesystem.
	FS storage.FileSystem
}

// 🏭 DefaultOptions returns options with glob expansion enabled
func DefaultOptions() Options {
	return Options{Glob: true}
}

func (o Options) fileSystem() storage.FileSystem {
	if o.FS == nil {
		return storage.NewDisk()
	}
	return o.FS
}

// 📄 FileResult is the outcome of processing one file
type FileResult struct {
	Data       []byte
	SourcePath string
	// DestinationPath is empty when nothing was written.
	DestinationPath string
	Format          BinaryFormat
	// OriginalSize is the byte length of the source before transforms ran.
	OriginalSize int
}

// Written reports whether the result was written to disk.
func (r FileResult) Written() bool {
	return r.DestinationPath != ""
}
