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

package remote

import (
	"context"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register("local", func(ctx context.Context) (Fetcher, error) {
		return &LocalFetcher{}, nil
	})
}

// 📁 LocalFetcher reads an existing checkout in place
type LocalFetcher struct{}

// Name returns "local".
func (f *LocalFetcher) Name() string {
	return "local"
}

// Fetch returns src.Path without copying it.
func (f *LocalFetcher) Fetch(ctx context.Context, src Source, workDir string) (string, error) {
	if src.Path == "" {
		return "", errors.Errorf("local fetcher needs a path")
	}
	abs, err := filepath.Abs(src.Path)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", src.Path, err)
	}
	return abs, nil
}
