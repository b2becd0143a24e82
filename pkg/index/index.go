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

// Package index renders the title index written next to the mirrored documents.
package index

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 📚 Index maps slash-separated output paths to document titles; "" means no title
type Index map[string]string

// 🏭 New returns an empty index
func New() Index {
	return Index{}
}

// ➕ Add records path with an optional title, replacing any earlier entry
func (ix Index) Add(path, title string) {
	ix[filepath.ToSlash(path)] = title
}

// 📋 Paths returns the indexed paths in lexicographic order
func (ix Index) Paths() []string {
	paths := make([]string, 0, len(ix))
	for p := range ix {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// RenderOptions holds the fixed text around the file list.
type RenderOptions struct {
	Title       string
	Description string
}

// 📝 Render produces the index document
func (ix Index) Render(opts RenderOptions) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", opts.Title)
	if opts.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", opts.Description)
	}
	buf.WriteString("## Files\n\n")

	for _, p := range ix.Paths() {
		if title := ix[p]; title != "" {
			fmt.Fprintf(&buf, "- `%s` - %s\n", p, title)
		} else {
			fmt.Fprintf(&buf, "- `%s`\n", p)
		}
	}

	return buf.Bytes()
}

// 💾 Write renders ix into root/filename
func Write(root, filename string, ix Index, opts RenderOptions) error {
	path := filepath.Join(root, filename)
	if err := os.WriteFile(path, ix.Render(opts), 0644); err != nil {
		return errors.Errorf("writing index %s: %w", path, err)
	}
	return nil
}
