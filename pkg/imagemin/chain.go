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
	"slices"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

func identity(_ context.Context, data []byte) ([]byte, error) {
	return data, nil
}

// 🔗 Chain composes plugins into one Transform that applies them strictly
// left to right. An empty chain returns its input unchanged. The first
// failing plugin stops the chain and its error is returned as-is.
func Chain(plugins []Transform) (Transform, error) {
	for i, p := range plugins {
		if p == nil {
			return nil, invalidf("plugin at index %d is nil", i)
		}
	}

	if len(plugins) == 0 {
		return identity, nil
	}

	steps := slices.Clone(plugins)

	return func(ctx context.Context, data []byte) ([]byte, error) {
		logger := zerolog.Ctx(ctx)
		for i, step := range steps {
			if err := ctx.Err(); err != nil {
				return nil, errors.WithStack(err)
			}

			out, err := step(ctx, data)
			if err != nil {
				return nil, err
			}

			logger.Trace().Int("step", i).Int("in", len(data)).Int("out", len(out)).Msg("transform applied")
			data = out
		}
		return data, nil
	}, nil
}
