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

// Package plugin maps plugin names to transforms. The CLI resolves the names
// a user asks for here; the pipeline itself only ever sees transforms.
package plugin

import (
	"sort"
	"strings"
	"sync"

	"github.com/walteh/minifyimg/pkg/imagemin"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Plugin is a named transform factory
type Plugin struct {
	Name        string
	Description string
	New         func() imagemin.Transform
}

var (
	mu sync.RWMutex
	// 🗺️ registry holds every registered plugin by name
	registry = map[string]Plugin{}
)

// 📝 Register adds a plugin, replacing any plugin with the same name
func Register(p Plugin) {
	mu.Lock()
	defer mu.Unlock()
	registry[p.Name] = p
}

// 🎯 Lookup returns the plugin registered under name
func Lookup(name string) (Plugin, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// Names lists registered plugins in lexical order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// 🏭 Resolve instantiates the named plugins in order
func Resolve(names []string) ([]imagemin.Transform, error) {
	transforms := make([]imagemin.Transform, 0, len(names))
	for _, name := range names {
		p, ok := Lookup(strings.TrimSpace(name))
		if !ok || p.New == nil {
			return nil, errors.Errorf("unknown plugin %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		transforms = append(transforms, p.New())
	}
	return transforms, nil
}
