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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.Base("invalid configuration")

// 📦 Fetcher names understood by the remote registry
const (
	FetcherGit    = "git"
	FetcherGitHub = "github"
	FetcherLocal  = "local"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data on top of the defaults
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 Source describes where the documentation tree comes from
type Source struct {
	Fetcher string `json:"fetcher" yaml:"fetcher"` // git, github or local
	Repo    string `json:"repo" yaml:"repo"`       // clone URL or github.com/org/repo
	Ref     string `json:"ref" yaml:"ref"`         // branch or tag, empty for the default branch
	Subdir  string `json:"subdir" yaml:"subdir"`   // subtree holding the documents
	Depth   int    `json:"depth" yaml:"depth"`     // clone depth, 0 for full history
	Path    string `json:"path" yaml:"path"`       // local checkout for the local fetcher
}

// 🔄 Replacement represents a literal string replacement in cleaned output
type Replacement struct {
	Old  string  `json:"old" yaml:"old"`
	New  string  `json:"new" yaml:"new"`
	File *string `json:"file,omitempty" yaml:"file,omitempty"` // optional glob on the output path
}

// 🧹 Transform configures the content cleaning passes
type Transform struct {
	Components      []string      `json:"components" yaml:"components"`
	HTMLTags        []string      `json:"html_tags" yaml:"html_tags"`
	ImportNamespace string        `json:"import_namespace" yaml:"import_namespace"`
	Replacements    []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty"`
}

// 📁 Output configures file selection and the generated documents
type Output struct {
	Include          []string          `json:"include" yaml:"include"`
	Ignore           []string          `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Extensions       map[string]string `json:"extensions" yaml:"extensions"`
	IndexFile        string            `json:"index_file" yaml:"index_file"`
	IndexTitle       string            `json:"index_title" yaml:"index_title"`
	IndexDescription string            `json:"index_description" yaml:"index_description"`
	ChangelogFile    string            `json:"changelog_file" yaml:"changelog_file"`
	ChangelogLimit   int               `json:"changelog_limit" yaml:"changelog_limit"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Source    Source    `json:"source" yaml:"source"`
	Transform Transform `json:"transform" yaml:"transform"`
	Output    Output    `json:"output" yaml:"output"`
}

// Default returns the configuration for mirroring the Home Assistant user docs.
func Default() *Config {
	return &Config{
		Source: Source{
			Fetcher: FetcherGit,
			Repo:    "https://github.com/home-assistant/home-assistant.io.git",
			Subdir:  "source/_docs",
			Depth:   1,
		},
		Transform: Transform{
			Components: []string{"ApiEndpoint", "RelatedRules", "TabItem", "Tabs", "CodeBlock", "GRADLE_MODULE"},
			HTMLTags: []string{
				"div", "span", "iframe", "img", "br", "hr", "sup", "sub", "a", "p",
				"ul", "ol", "li", "table", "thead", "tbody", "tr", "td", "th", "details", "summary",
			},
			ImportNamespace: "@site/",
		},
		Output: Output{
			Include:          []string{"**/*.markdown"},
			Extensions:       map[string]string{".markdown": ".md"},
			IndexFile:        "CLAUDE.md",
			IndexTitle:       "Home Assistant User Documentation",
			IndexDescription: "This is a cleaned mirror of the Home Assistant user-facing documentation.",
			ChangelogFile:    "CHANGELOG.md",
			ChangelogLimit:   10,
		},
	}
}

// 🎯 Load loads the configuration from a file, layering it over Default
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and normalizes paths
func (cfg *Config) Validate() error {
	switch cfg.Source.Fetcher {
	case FetcherGit, FetcherGitHub:
		if cfg.Source.Repo == "" {
			return errors.Errorf("%w: source.repo is required", ErrInvalid)
		}
	case FetcherLocal:
		if cfg.Source.Path == "" {
			return errors.Errorf("%w: source.path is required for the local fetcher", ErrInvalid)
		}
		cfg.Source.Path = filepath.Clean(cfg.Source.Path)
	default:
		return errors.Errorf("%w: unknown fetcher %q", ErrInvalid, cfg.Source.Fetcher)
	}
	if cfg.Source.Depth < 0 {
		return errors.Errorf("%w: source.depth must not be negative", ErrInvalid)
	}
	if cfg.Source.Subdir != "" {
		cfg.Source.Subdir = filepath.Clean(cfg.Source.Subdir)
		if filepath.IsAbs(cfg.Source.Subdir) || strings.HasPrefix(cfg.Source.Subdir, "..") {
			return errors.Errorf("%w: source.subdir must be relative to the repository root", ErrInvalid)
		}
	}

	if len(cfg.Output.Include) == 0 {
		return errors.Errorf("%w: output.include needs at least one pattern", ErrInvalid)
	}
	for _, pattern := range append(append([]string{}, cfg.Output.Include...), cfg.Output.Ignore...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: bad glob %q", ErrInvalid, pattern)
		}
	}
	for from, to := range cfg.Output.Extensions {
		if !strings.HasPrefix(from, ".") || !strings.HasPrefix(to, ".") {
			return errors.Errorf("%w: extension mapping %q -> %q must use dotted extensions", ErrInvalid, from, to)
		}
	}

	if cfg.Output.IndexFile == "" {
		return errors.Errorf("%w: output.index_file is required", ErrInvalid)
	}
	if cfg.Output.ChangelogFile == "" {
		return errors.Errorf("%w: output.changelog_file is required", ErrInvalid)
	}
	if cfg.Output.IndexFile == cfg.Output.ChangelogFile {
		return errors.Errorf("%w: index and changelog must use different files", ErrInvalid)
	}
	for _, name := range []string{cfg.Output.IndexFile, cfg.Output.ChangelogFile} {
		if strings.ContainsAny(name, `/\`) {
			return errors.Errorf("%w: %q must be a bare filename", ErrInvalid, name)
		}
	}
	if cfg.Output.ChangelogLimit <= 0 {
		return errors.Errorf("%w: output.changelog_limit must be positive", ErrInvalid)
	}

	for i, r := range cfg.Transform.Replacements {
		if r.Old == "" {
			return errors.Errorf("%w: replacement %d: old is required", ErrInvalid, i)
		}
		if r.File != nil && !doublestar.ValidatePattern(*r.File) {
			return errors.Errorf("%w: replacement %d: bad glob %q", ErrInvalid, i, *r.File)
		}
	}

	return nil
}

// 📝 String returns a one-line description of the source
func (cfg *Config) String() string {
	switch cfg.Source.Fetcher {
	case FetcherLocal:
		return fmt.Sprintf("local:%s", filepath.Join(cfg.Source.Path, cfg.Source.Subdir))
	default:
		ref := cfg.Source.Ref
		if ref == "" {
			ref = "HEAD"
		}
		return fmt.Sprintf("%s@%s:%s", cfg.Source.Repo, ref, cfg.Source.Subdir)
	}
}
