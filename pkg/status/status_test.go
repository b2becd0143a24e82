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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name         string
		target       map[string]string
		staging      map[string]string
		opts         DiffOptions
		wantAdded    []string
		wantModified []string
		wantRemoved  []string
	}{
		{
			name:    "identical",
			target:  map[string]string{"a.md": "a\n", "dir/b.md": "b\n"},
			staging: map[string]string{"a.md": "a\n", "dir/b.md": "b\n"},
		},
		{
			name:         "one_of_each",
			target:       map[string]string{"keep.md": "same\n", "edit.md": "old\n", "gone.md": "bye\n"},
			staging:      map[string]string{"keep.md": "same\n", "edit.md": "new\n", "new/file.md": "hi\n"},
			wantAdded:    []string{"new/file.md"},
			wantModified: []string{"edit.md"},
			wantRemoved:  []string{"gone.md"},
		},
		{
			name:         "same_size_different_content",
			target:       map[string]string{"a.md": "abc\n"},
			staging:      map[string]string{"a.md": "xyz\n"},
			wantModified: []string{"a.md"},
		},
		{
			name:    "excluded_path_ignored",
			target:  map[string]string{"CHANGELOG.md": "# Changelog\n", "a.md": "a\n"},
			staging: map[string]string{"a.md": "a\n"},
			opts:    DiffOptions{Exclude: []string{"CHANGELOG.md"}},
		},
		{
			name:        "exclude_only_matches_root",
			target:      map[string]string{"sub/CHANGELOG.md": "x\n"},
			staging:     map[string]string{},
			opts:        DiffOptions{Exclude: []string{"CHANGELOG.md"}},
			wantRemoved: []string{"sub/CHANGELOG.md"},
		},
		{
			name:      "sorted_output",
			target:    map[string]string{},
			staging:   map[string]string{"b.md": "b", "a/z.md": "z", "a.md": "a"},
			wantAdded: []string{"a.md", "a/z.md", "b.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := t.TempDir()
			staging := t.TempDir()
			writeTree(t, target, tt.target)
			writeTree(t, staging, tt.staging)

			changes, err := Diff(testContext(t), target, staging, tt.opts)
			require.NoError(t, err, "Diff should succeed")

			assert.Equal(t, tt.wantAdded, changes.Added, "added should match")
			assert.Equal(t, tt.wantModified, changes.Modified, "modified should match")
			assert.Equal(t, tt.wantRemoved, changes.Removed, "removed should match")
			assert.Equal(t, len(tt.wantAdded)+len(tt.wantModified)+len(tt.wantRemoved), changes.Total())
		})
	}
}

func TestDiffMissingTarget(t *testing.T) {
	staging := t.TempDir()
	writeTree(t, staging, map[string]string{"a.md": "a\n"})

	changes, err := Diff(testContext(t), filepath.Join(t.TempDir(), "missing"), staging, DiffOptions{})
	require.NoError(t, err, "a missing target should compare as empty")
	assert.Equal(t, []string{"a.md"}, changes.Added)
}

func TestDiffMissingStaging(t *testing.T) {
	_, err := Diff(testContext(t), t.TempDir(), filepath.Join(t.TempDir(), "missing"), DiffOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning staging")
}

func TestDiffLineDeltas(t *testing.T) {
	target := t.TempDir()
	staging := t.TempDir()
	writeTree(t, target, map[string]string{"a.md": "one\ntwo\nthree\n"})
	writeTree(t, staging, map[string]string{"a.md": "one\n2\nthree\nfour\n"})

	changes, err := Diff(testContext(t), target, staging, DiffOptions{LineDeltas: true})
	require.NoError(t, err)
	require.Len(t, changes.Files, 1)

	info := changes.Files[0]
	assert.Equal(t, StatusModified, info.Status)
	assert.Equal(t, 2, info.LinesAdded, "should count the replaced and appended lines")
	assert.Equal(t, 1, info.LinesRemoved, "should count the replaced line")
	assert.NotEmpty(t, info.Checksum)
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("a"))
	assert.Equal(t, 1, countLines("a\n"))
	assert.Equal(t, 2, countLines("a\nb"))
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "added", StatusAdded.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "removed", StatusRemoved.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
