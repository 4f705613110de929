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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidConfiguration is returned for malformed inputs or options. It is
// raised before any filesystem access takes place.
var ErrInvalidConfiguration = errors.Base("invalid configuration")

// 💾 IOError reports a read, directory creation or write failure for one path
type IOError struct {
	Op   string // read, mkdir or write
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return errors.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func ioErr(op, path string, err error) error {
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}
