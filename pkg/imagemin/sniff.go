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
	"github.com/h2non/filetype"
)

// ExtensionWebP is the format whose detection rewrites the output extension.
const ExtensionWebP = "webp"

// 🔍 BinaryFormat is a format inferred from content, never from a file name
type BinaryFormat struct {
	Extension string // e.g. png, jpg, webp
	MIME      string // e.g. image/png
}

// FormatUnknown is reported when no signature matches.
var FormatUnknown = BinaryFormat{Extension: filetype.Unknown.Extension}

// Known reports whether a signature matched.
func (f BinaryFormat) Known() bool {
	return f != FormatUnknown && f.Extension != ""
}

func (f BinaryFormat) String() string {
	if !f.Known() {
		return FormatUnknown.Extension
	}
	return f.Extension
}

// 🔍 Sniff infers the format of data from its leading bytes. It never fails;
// empty or unrecognized input yields FormatUnknown.
func Sniff(data []byte) BinaryFormat {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return FormatUnknown
	}
	return BinaryFormat{
		Extension: kind.Extension,
		MIME:      kind.MIME.Value,
	}
}
