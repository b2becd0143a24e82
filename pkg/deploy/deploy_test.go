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

package deploy

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

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestDeploy(t *testing.T) {
	tests := []struct {
		name        string
		target      map[string]string
		staging     map[string]string
		preserve    []string
		want        map[string]string
		wantRemoved int
	}{
		{
			name:    "empty_target",
			staging: map[string]string{"CLAUDE.md": "index", "a/b.md": "b"},
			want:    map[string]string{"CLAUDE.md": "index", "a/b.md": "b"},
		},
		{
			name:        "replaces_everything_but_changelog",
			target:      map[string]string{"CHANGELOG.md": "log", "old.md": "old", "dir/x.md": "x", "CLAUDE.md": "stale"},
			staging:     map[string]string{"CLAUDE.md": "fresh", "dir/y.md": "y"},
			preserve:    []string{"CHANGELOG.md"},
			want:        map[string]string{"CHANGELOG.md": "log", "CLAUDE.md": "fresh", "dir/y.md": "y"},
			wantRemoved: 3,
		},
		{
			name:        "preserve_is_top_level_only",
			target:      map[string]string{"dir/CHANGELOG.md": "nested"},
			staging:     map[string]string{"a.md": "a"},
			preserve:    []string{"CHANGELOG.md"},
			want:        map[string]string{"a.md": "a"},
			wantRemoved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			target := filepath.Join(t.TempDir(), "target")
			staging := t.TempDir()
			if tt.target != nil {
				writeTree(t, target, tt.target)
			}
			writeTree(t, staging, tt.staging)

			result, err := Deploy(ctx, staging, target, Options{Preserve: tt.preserve})
			require.NoError(t, err, "Deploy should succeed")

			assert.Equal(t, tt.want, readTree(t, target), "target contents should match")
			assert.Equal(t, tt.wantRemoved, result.Removed, "removed count should match")
			assert.Equal(t, len(tt.staging), result.Copied, "copied count should match")
		})
	}
}

func TestDeployMissingStaging(t *testing.T) {
	target := t.TempDir()
	writeTree(t, target, map[string]string{"keep.md": "k"})

	_, err := Deploy(context.Background(), filepath.Join(t.TempDir(), "missing"), target, Options{})
	require.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.md")
	dst := filepath.Join(dir, "nested", "deeper", "dst.md")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0644))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	err = CopyFile(filepath.Join(dir, "missing.md"), dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening source file")
}
