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
	"github.com/bmatcuk/doublestar/v4"
)

// junkPatterns matches base names of OS and editor artifacts.
var junkPatterns = []string{
	"npm-debug.log",
	".*.swp",
	".DS_Store",
	".AppleDouble",
	".LSOverride",
	"Icon\r",
	"._*",
	".Spotlight-V100",
	"*.Trashes*",
	"__MACOSX",
	"*~",
	"Thumbs.db",
	"ehthumbs.db",
	"[Dd]esktop.ini",
	"*@eaDir",
}

// 🗑️ IsJunk reports whether a base name is a junk file such as .DS_Store
func IsJunk(name string) bool {
	for _, pattern := range junkPatterns {
		if doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}
	return false
}
