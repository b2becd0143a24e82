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

// Package deploy replaces the contents of a target directory with a staged tree.
package deploy

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚚 Options configures Deploy
type Options struct {
	// Preserve names entries directly under the target that survive the clear, e.g. the changelog
	Preserve []string
}

// 📊 Result counts what Deploy touched
type Result struct {
	Removed int // top-level entries deleted from the target
	Copied  int // files copied from staging
}

// 🚀 Deploy clears targetRoot except the preserved names, then copies stagingRoot into it.
// The two phases are not atomic; a failure during the copy leaves a partial target.
func Deploy(ctx context.Context, stagingRoot, targetRoot string, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(targetRoot, 0755); err != nil {
		return nil, errors.Errorf("creating target: %w", err)
	}

	preserve := make(map[string]bool, len(opts.Preserve))
	for _, name := range opts.Preserve {
		preserve[name] = true
	}

	result := &Result{}

	entries, err := os.ReadDir(targetRoot)
	if err != nil {
		return nil, errors.Errorf("listing target: %w", err)
	}
	for _, e := range entries {
		if preserve[e.Name()] {
			logger.Debug().Str("entry", e.Name()).Msg("preserving target entry")
			continue
		}
		if err := os.RemoveAll(filepath.Join(targetRoot, e.Name())); err != nil {
			return nil, errors.Errorf("removing %s: %w", e.Name(), err)
		}
		result.Removed++
	}

	err = filepath.WalkDir(stagingRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return errors.Errorf("copying staging: %w", err)
		}

		rel, err := filepath.Rel(stagingRoot, path)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", path, err)
		}
		dst := filepath.Join(targetRoot, rel)

		switch {
		case d.IsDir():
			if err := os.MkdirAll(dst, 0755); err != nil {
				return errors.Errorf("creating directory %s: %w", rel, err)
			}
		case d.Type().IsRegular():
			if err := CopyFile(path, dst); err != nil {
				return errors.Errorf("copying %s: %w", rel, err)
			}
			result.Copied++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("removed", result.Removed).
		Int("copied", result.Copied).
		Str("target", targetRoot).
		Msg("deployed staging tree")

	return result, nil
}

// CopyFile copies a file from src to dst, creating parent directories if needed
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Errorf("copying file content: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	return nil
}
