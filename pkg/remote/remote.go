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

// Package remote retrieves the documentation source tree that a run mirrors.
package remote

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrSourceMissing is returned when the fetched tree lacks the documentation subtree.
var ErrSourceMissing = errors.Base("source subtree missing")

// 📦 Source identifies the tree to fetch
type Source struct {
	Repo   string // clone URL or github.com/owner/name
	Ref    string // branch or tag, empty for the default branch
	Subdir string // subtree holding the documents
	Depth  int    // history depth for cloning fetchers, 0 for full
	Path   string // local directory for the local fetcher
	Token  string // optional credential understood by the transport
}

// 🔌 Fetcher materializes a source tree on the local filesystem
type Fetcher interface {
	// Name returns the registry name of the fetcher (e.g. "git")
	Name() string
	// Fetch retrieves src below workDir and returns the root of the fetched tree
	Fetch(ctx context.Context, src Source, workDir string) (string, error)
}

// 🏭 Factory creates a new fetcher
type Factory func(ctx context.Context) (Fetcher, error)

var (
	mu sync.RWMutex
	// 🗺️ registry is a map of fetcher names to factories
	registry = map[string]Factory{}
)

// 📝 Register registers a fetcher factory
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// 🎯 Get creates the fetcher registered under name
func Get(ctx context.Context, name string) (Fetcher, error) {
	mu.RLock()
	factory, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("fetcher %s not found, options: %s", name, strings.Join(Names(), ", "))
	}
	f, err := factory(ctx)
	if err != nil {
		return nil, errors.Errorf("creating fetcher %s: %w", name, err)
	}
	return f, nil
}

// Names lists the registered fetchers in order.
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

// 📥 Retrieve fetches src and returns the directory holding its subtree.
// It fails with ErrSourceMissing when the subtree does not exist.
func Retrieve(ctx context.Context, fetcher Fetcher, src Source, workDir string) (string, error) {
	logger := zerolog.Ctx(ctx)

	root, err := fetcher.Fetch(ctx, src, workDir)
	if err != nil {
		return "", errors.Errorf("fetching with %s: %w", fetcher.Name(), err)
	}

	dir := filepath.Join(root, filepath.FromSlash(src.Subdir))
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return "", errors.Errorf("%w: %s", ErrSourceMissing, dir)
	case err != nil:
		return "", errors.Errorf("checking source subtree: %w", err)
	case !info.IsDir():
		return "", errors.Errorf("%w: %s is not a directory", ErrSourceMissing, dir)
	}

	logger.Debug().Str("fetcher", fetcher.Name()).Str("dir", dir).Msg("source subtree ready")
	return dir, nil
}
