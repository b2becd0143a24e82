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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents how a path differs between the deployed and staged trees
type FileStatus int

const (
	StatusUnknown  FileStatus = iota
	StatusAdded               // only in staging
	StatusModified            // in both, content differs
	StatusRemoved             // only in target
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about one classified file
type FileInfo struct {
	Path         string     // slash-separated path relative to both roots
	Status       FileStatus // classification
	Size         int64      // size of the staged file, or of the removed file
	Checksum     string     // SHA-256 of the staged content, empty for removed files
	LinesAdded   int        // line delta for modified files when DiffOptions.LineDeltas is set
	LinesRemoved int
}

// 🔍 DiffOptions tunes the comparison
type DiffOptions struct {
	// Exclude lists slash-separated paths, relative to the roots, left out of the comparison
	Exclude []string
	// LineDeltas computes added/removed line counts for modified files
	LineDeltas bool
	// Formatter renders the debug message logged per classified file
	Formatter FileFormatter
}

// 📋 Changes is the classified difference between two trees
type Changes struct {
	Added    []string
	Modified []string
	Removed  []string

	// Files holds every classified path in lexicographic order
	Files []FileInfo
}

// Empty reports whether nothing changed.
func (c *Changes) Empty() bool {
	return len(c.Files) == 0
}

// Total returns the number of changed paths.
func (c *Changes) Total() int {
	return len(c.Files)
}

type entry struct {
	full string
	size int64
}

// 🔄 Diff compares the regular files under targetRoot and stagingRoot.
// A missing targetRoot is treated as empty.
func Diff(ctx context.Context, targetRoot, stagingRoot string, opts DiffOptions) (*Changes, error) {
	logger := zerolog.Ctx(ctx)
	formatter := opts.Formatter
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}

	exclude := make(map[string]bool, len(opts.Exclude))
	for _, p := range opts.Exclude {
		exclude[filepath.ToSlash(p)] = true
	}

	target, err := scan(ctx, targetRoot, exclude, true)
	if err != nil {
		return nil, errors.Errorf("scanning target: %w", err)
	}
	staged, err := scan(ctx, stagingRoot, exclude, false)
	if err != nil {
		return nil, errors.Errorf("scanning staging: %w", err)
	}

	paths := make([]string, 0, len(target)+len(staged))
	for p := range staged {
		paths = append(paths, p)
	}
	for p := range target {
		if _, ok := staged[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	changes := &Changes{}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("comparing trees: %w", err)
		}

		old, inTarget := target[p]
		cur, inStaging := staged[p]

		var info FileInfo
		switch {
		case !inTarget:
			sum, err := fileChecksum(cur.full)
			if err != nil {
				return nil, err
			}
			info = FileInfo{Path: p, Status: StatusAdded, Size: cur.size, Checksum: sum}
			changes.Added = append(changes.Added, p)
		case !inStaging:
			info = FileInfo{Path: p, Status: StatusRemoved, Size: old.size}
			changes.Removed = append(changes.Removed, p)
		default:
			sum, err := fileChecksum(cur.full)
			if err != nil {
				return nil, err
			}
			if old.size == cur.size {
				oldSum, err := fileChecksum(old.full)
				if err != nil {
					return nil, err
				}
				if oldSum == sum {
					continue
				}
			}
			info = FileInfo{Path: p, Status: StatusModified, Size: cur.size, Checksum: sum}
			if opts.LineDeltas {
				if info.LinesAdded, info.LinesRemoved, err = lineDelta(old.full, cur.full); err != nil {
					return nil, err
				}
			}
			changes.Modified = append(changes.Modified, p)
		}

		changes.Files = append(changes.Files, info)
		logger.Debug().Str("path", p).Str("status", info.Status.String()).Msg(formatter.FormatChange(info))
	}

	logger.Info().
		Int("added", len(changes.Added)).
		Int("modified", len(changes.Modified)).
		Int("removed", len(changes.Removed)).
		Msg(formatter.FormatSummary(changes))

	return changes, nil
}

// scan lists the regular files below root keyed by slash-separated relative path
func scan(ctx context.Context, root string, exclude map[string]bool, allowMissing bool) (map[string]entry, error) {
	files := map[string]entry{}

	if _, err := os.Stat(root); err != nil {
		if allowMissing && os.IsNotExist(err) {
			return files, nil
		}
		return nil, errors.Errorf("checking %s: %w", root, err)
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)
		if exclude[rel] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return errors.Errorf("stat %s: %w", path, err)
		}
		files[rel] = entry{full: path, size: info.Size()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// 🔍 fileChecksum generates a SHA-256 hash of the file content
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// lineDelta counts inserted and deleted lines between two files
func lineDelta(oldPath, newPath string) (int, int, error) {
	oldContent, err := os.ReadFile(oldPath)
	if err != nil {
		return 0, 0, errors.Errorf("reading %s: %w", oldPath, err)
	}
	newContent, err := os.ReadFile(newPath)
	if err != nil {
		return 0, 0, errors.Errorf("reading %s: %w", newPath, err)
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(oldContent), string(newContent))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	added, removed := 0, 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += countLines(d.Text)
		}
	}
	return added, removed, nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
