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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "minifyimg.json"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds the values a minifyimg config file may set. Nil fields
// were not present in the file.
type Config struct {
	InputDir *string    `json:"inputDir,omitempty" yaml:"inputDir,omitempty"`
	OutDir   *string    `json:"outDir,omitempty" yaml:"outDir,omitempty"`
	DeepCopy *bool      `json:"deepCopy,omitempty" yaml:"deepCopy,omitempty"`
	Clean    *bool      `json:"clean,omitempty" yaml:"clean,omitempty"`
	UseWebp  *bool      `json:"useWebp,omitempty" yaml:"useWebp,omitempty"`
	Plugin   StringList `json:"plugin,omitempty" yaml:"plugin,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields an empty config.
func LoadOptional(ctx context.Context, path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file")
		return &Config{}, nil
	}
	return Load(ctx, path)
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.InputDir != nil && strings.TrimSpace(*cfg.InputDir) == "" {
		return errors.Errorf("inputDir must not be empty")
	}
	if cfg.OutDir != nil {
		if strings.TrimSpace(*cfg.OutDir) == "" {
			return errors.Errorf("outDir must not be empty")
		}
		clean := filepath.Clean(*cfg.OutDir)
		cfg.OutDir = &clean
	}
	for i, name := range cfg.Plugin {
		if strings.TrimSpace(name) == "" {
			return errors.Errorf("plugin %d: name is required", i)
		}
	}
	return nil
}
