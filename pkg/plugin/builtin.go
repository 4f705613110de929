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

package plugin

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/rs/zerolog"
	"github.com/walteh/minifyimg/pkg/imagemin"
	"gitlab.com/tozd/go/errors"
)

// DefaultJPEGQuality is the quality the jpeg plugin re-encodes at.
const DefaultJPEGQuality = 80

// WebPName is the plugin appended by --use-webp.
const WebPName = "webp"

// DefaultNames are used when no plugin is requested.
var DefaultNames = []string{"png", "jpeg"}

func init() {
	Register(Plugin{
		Name:        "png",
		Description: "re-encode PNG images with maximum compression",
		New:         func() imagemin.Transform { return PNG() },
	})
	Register(Plugin{
		Name:        "jpeg",
		Description: "re-encode JPEG images at quality 80",
		New:         func() imagemin.Transform { return JPEG(DefaultJPEGQuality) },
	})
	Register(Plugin{
		Name:        WebPName,
		Description: "convert PNG and JPEG images to lossless WebP",
		New:         WebP,
	})
}

// 🖼️ PNG re-encodes PNG input with the best compression level. Other
// formats pass through untouched.
func PNG() imagemin.Transform {
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	return reencoder("png", png.Decode, func(w io.Writer, img image.Image) error {
		return enc.Encode(w, img)
	})
}

// 🖼️ JPEG re-encodes JPEG input at quality. Other formats pass through
// untouched.
func JPEG(quality int) imagemin.Transform {
	opts := &jpeg.Options{Quality: quality}
	return reencoder("jpg", jpeg.Decode, func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, opts)
	})
}

// 🖼️ WebP converts PNG and JPEG input to lossless WebP. The output is kept
// even when larger since the format change is the point. Other formats pass
// through untouched.
func WebP() imagemin.Transform {
	return func(ctx context.Context, data []byte) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		var decode func(io.Reader) (image.Image, error)
		switch imagemin.Sniff(data).Extension {
		case "png":
			decode = png.Decode
		case "jpg":
			decode = jpeg.Decode
		default:
			return data, nil
		}

		img, err := decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Errorf("decoding image for webp: %w", err)
		}

		var buf bytes.Buffer
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, errors.Errorf("encoding webp: %w", err)
		}

		zerolog.Ctx(ctx).Trace().Int("in", len(data)).Int("out", buf.Len()).Msg("converted to webp")
		return buf.Bytes(), nil
	}
}

// reencoder decodes input of the given format and keeps the re-encoded
// bytes only when they are smaller.
func reencoder(ext string, decode func(io.Reader) (image.Image, error), encode func(io.Writer, image.Image) error) imagemin.Transform {
	return func(ctx context.Context, data []byte) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		if imagemin.Sniff(data).Extension != ext {
			return data, nil
		}

		img, err := decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Errorf("decoding %s: %w", ext, err)
		}

		var buf bytes.Buffer
		if err := encode(&buf, img); err != nil {
			return nil, errors.Errorf("encoding %s: %w", ext, err)
		}

		if buf.Len() >= len(data) {
			zerolog.Ctx(ctx).Trace().Str("format", ext).Int("size", len(data)).Msg("re-encoded output not smaller, keeping original")
			return data, nil
		}
		return buf.Bytes(), nil
	}
}
