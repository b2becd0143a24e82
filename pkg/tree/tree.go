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

// Package tree walks a fetched source tree and writes cleaned documents into staging.
package tree

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmirror/pkg/index"
	"github.com/walteh/docmirror/pkg/log"
	"github.com/walteh/docmirror/pkg/text"
)

// 📁 Options selects and renames the files a Processor handles
type Options struct {
	// Include globs, matched against the slash-separated path relative to the source root
	Include []string
	// Ignore globs win over Include
	Ignore []string
	// Extensions rewrites the final extension of each output path, e.g. ".markdown" -> ".md"
	Extensions map[string]string
	// Reserved output names at the staging root, such as the index file; sources mapping to them are skipped
	Reserved []string
}

// 📄 File describes one processed document
type File struct {
	Source       string // relative source path
	Output       string // relative output path
	Title        string
	Replacements int
	Size         int
}

// 📊 Result is the outcome of one tree walk
type Result struct {
	Index   index.Index
	Files   []File
	Skipped []string // selected sources that collided with a reserved name
}

// 🌲 Processor turns a source tree into a staging tree
type Processor struct {
	transformer *text.Transformer
	opts        Options
}

// 🏭 NewProcessor creates a processor using transformer for every selected file
func NewProcessor(transformer *text.Transformer, opts Options) *Processor {
	return &Processor{
		transformer: transformer,
		opts:        opts,
	}
}

// 🔍 Selected reports whether rel matches an include glob and no ignore glob
func (p *Processor) Selected(rel string) bool {
	rel = filepath.ToSlash(rel)
	if !matchAny(p.opts.Include, rel) {
		return false
	}
	return !matchAny(p.opts.Ignore, rel)
}

// 🏷️ OutputPath maps a relative source path to its relative output path
func (p *Processor) OutputPath(rel string) string {
	rel = filepath.ToSlash(rel)
	ext := path.Ext(rel)
	if to, ok := p.opts.Extensions[ext]; ok {
		return strings.TrimSuffix(rel, ext) + to
	}
	return rel
}

// 🏃 Process transforms every selected file under srcRoot into stagingRoot
func (p *Processor) Process(ctx context.Context, srcRoot, stagingRoot string) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	result := &Result{
		Index: index.New(),
	}

	err := filepath.WalkDir(srcRoot, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", fullPath, err)
		}
		if err := ctx.Err(); err != nil {
			return errors.Errorf("walking %s: %w", fullPath, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(srcRoot, fullPath)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", fullPath, err)
		}
		rel = filepath.ToSlash(rel)

		if !p.Selected(rel) {
			return nil
		}

		out := p.OutputPath(rel)
		if p.reserved(out) {
			console.Warningf("skipping %s: %s is a generated file", rel, out)
			result.Skipped = append(result.Skipped, rel)
			return nil
		}
		if _, seen := result.Index[out]; seen {
			console.Warningf("%s overwrites an earlier source of %s", rel, out)
		}

		file, err := p.processFile(fullPath, stagingRoot, rel, out)
		if err != nil {
			return errors.Errorf("processing %s: %w", rel, err)
		}

		logger.Debug().
			Str("file", rel).
			Str("output", out).
			Str("title", file.Title).
			Int("replacements", file.Replacements).
			Msg("processed file")

		result.Index.Add(out, file.Title)
		result.Files = append(result.Files, file)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int("files", len(result.Files)).Str("source", srcRoot).Msg("processed source tree")

	return result, nil
}

func (p *Processor) processFile(fullPath, stagingRoot, rel, out string) (File, error) {
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return File{}, errors.Errorf("reading file: %w", err)
	}

	cleaned := p.transformer.Transform(out, raw)

	dst := filepath.Join(stagingRoot, filepath.FromSlash(out))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return File{}, errors.Errorf("creating parent directories: %w", err)
	}
	if err := os.WriteFile(dst, []byte(cleaned.Content), 0644); err != nil {
		return File{}, errors.Errorf("writing file: %w", err)
	}

	return File{
		Source:       rel,
		Output:       out,
		Title:        cleaned.Title,
		Replacements: cleaned.Replacements,
		Size:         len(cleaned.Content),
	}, nil
}

func (p *Processor) reserved(out string) bool {
	for _, name := range p.opts.Reserved {
		if out == name {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
