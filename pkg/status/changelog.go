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

package status

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind is the shape of a changelog
type Kind int

const (
	KindInitial   Kind = iota // target had no index yet
	KindNoChanges             // staging matches target
	KindUpdate                // at least one path changed
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindNoChanges:
		return "no-changes"
	case KindUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// 📝 GenerateOptions configures Generate
type GenerateOptions struct {
	// IndexFile marks a previously deployed target; without it the run is an initial import
	IndexFile string
	// ChangelogFile is excluded from the comparison
	ChangelogFile string
	// Limit caps the entries listed per section
	Limit int
	// LineDeltas is passed through to Diff
	LineDeltas bool
}

// 📜 Changelog records what one run changes in the target
type Changelog struct {
	Kind     Kind
	Imported int      // documents imported by an initial run
	Changes  *Changes // nil for an initial import
	Limit    int
}

// 🔄 Generate classifies the staged tree against the deployed one
func Generate(ctx context.Context, targetRoot, stagingRoot string, opts GenerateOptions) (*Changelog, error) {
	logger := zerolog.Ctx(ctx)

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	_, err := os.Stat(filepath.Join(targetRoot, opts.IndexFile))
	switch {
	case os.IsNotExist(err):
		staged, err := scan(ctx, stagingRoot, map[string]bool{
			filepath.ToSlash(opts.IndexFile):     true,
			filepath.ToSlash(opts.ChangelogFile): true,
		}, false)
		if err != nil {
			return nil, errors.Errorf("counting staged documents: %w", err)
		}
		logger.Info().Int("files", len(staged)).Msg("no previous index, recording initial import")
		return &Changelog{Kind: KindInitial, Imported: len(staged), Limit: limit}, nil
	case err != nil:
		return nil, errors.Errorf("checking previous index: %w", err)
	}

	changes, err := Diff(ctx, targetRoot, stagingRoot, DiffOptions{
		Exclude:    []string{opts.ChangelogFile, opts.IndexFile},
		LineDeltas: opts.LineDeltas,
	})
	if err != nil {
		return nil, errors.Errorf("comparing trees: %w", err)
	}

	cl := &Changelog{Kind: KindUpdate, Changes: changes, Limit: limit}
	if changes.Empty() {
		cl.Kind = KindNoChanges
	}
	return cl, nil
}

// 📝 Render produces the changelog document
func (c *Changelog) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString("# Changelog\n\n")

	switch c.Kind {
	case KindInitial:
		fmt.Fprintf(&buf, "## Initial import\n\nImported %d files.\n", c.Imported)
	case KindNoChanges:
		buf.WriteString("## No changes\n")
	default:
		buf.WriteString("## Latest update\n\n")

		var sections []string
		for _, s := range []struct {
			heading string
			paths   []string
		}{
			{"Added", c.Changes.Added},
			{"Modified", c.Changes.Modified},
			{"Removed", c.Changes.Removed},
		} {
			if len(s.paths) > 0 {
				sections = append(sections, renderSection(s.heading, s.paths, c.Limit))
			}
		}
		buf.WriteString(strings.Join(sections, "\n"))
	}

	return buf.Bytes()
}

func renderSection(heading string, paths []string, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s (%d files)\n", heading, len(paths))
	for i, p := range paths {
		if i == limit {
			fmt.Fprintf(&b, "- ... and %d more\n", len(paths)-limit)
			break
		}
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return b.String()
}

// 💾 Write renders the changelog into root/filename
func (c *Changelog) Write(root, filename string) error {
	path := filepath.Join(root, filename)
	if err := os.MkdirAll(root, 0755); err != nil {
		return errors.Errorf("creating %s: %w", root, err)
	}
	if err := os.WriteFile(path, c.Render(), 0644); err != nil {
		return errors.Errorf("writing changelog %s: %w", path, err)
	}
	return nil
}
