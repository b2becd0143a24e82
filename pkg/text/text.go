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

// Package text turns documentation sources into plain text.
package text

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🧹 Options configures which markup a Transformer removes
type Options struct {
	// Components are framework component tags removed together with their content
	Components []string
	// HTMLTags are generic tags removed while keeping their content
	HTMLTags []string
	// ImportNamespace is the module prefix of import lines to drop, e.g. "@site/"
	ImportNamespace string
	// Replacements run after markup stripping
	Replacements []ReplacementRule
}

// 📄 Result is one cleaned document
type Result struct {
	Content      string
	Title        string // empty when the document has no title
	Replacements int
}

// 🧹 Transformer cleans documents using patterns compiled from Options
type Transformer struct {
	opts Options

	importLine *regexp.Regexp

	componentSelfClosing *regexp.Regexp
	componentOpen        *regexp.Regexp
	componentClose       map[string]*regexp.Regexp

	htmlTag *regexp.Regexp

	replacer *SimpleTextReplacer
}

var (
	admonitionMarker = regexp.MustCompile(`(?m)^:::\w*[ \t\r]*(?:\n|$)`)
	blankLineRun     = regexp.MustCompile(`\n(?:[ \t\r]*\n){3,}`)
)

// 🏭 NewTransformer compiles the patterns for opts
func NewTransformer(opts Options) (*Transformer, error) {
	t := &Transformer{
		opts:           opts,
		componentClose: map[string]*regexp.Regexp{},
		replacer:       NewSimpleTextReplacer(),
	}

	if err := t.replacer.ValidateRules(opts.Replacements); err != nil {
		return nil, errors.Errorf("validating replacements: %w", err)
	}

	if opts.ImportNamespace != "" {
		t.importLine = regexp.MustCompile(`(?m)^import\s+.*?from\s+['"]` + regexp.QuoteMeta(opts.ImportNamespace) + `.*$`)
	}

	if names := quoteAll(opts.Components); len(names) > 0 {
		alt := strings.Join(names, "|")
		t.componentSelfClosing = regexp.MustCompile(`(?i)<(?:` + alt + `)\b[^>]*/>`)
		t.componentOpen = regexp.MustCompile(`(?i)<(` + alt + `)\b[^>]*>`)
		for _, name := range opts.Components {
			if name = strings.TrimSpace(name); name != "" {
				t.componentClose[strings.ToLower(name)] = regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(name) + `>`)
			}
		}
	}

	if names := quoteAll(opts.HTMLTags); len(names) > 0 {
		t.htmlTag = regexp.MustCompile(`(?i)</?(?:` + strings.Join(names, "|") + `)\b[^>]*/?>`)
	}

	return t, nil
}

// 🔄 Transform cleans raw and extracts its title; path is the output path used for replacement globs
func (t *Transformer) Transform(path string, raw []byte) Result {
	content := Decode(raw)

	title, _ := ExtractTitle(content)
	content = StripFrontmatter(content)
	content = t.StripImports(content)
	content = t.StripComponents(content)
	content = t.StripTags(content)
	content = StripAdmonitions(content)

	replaced := t.replacer.ReplaceText(path, content, t.opts.Replacements)

	return Result{
		Content:      Normalize(replaced.ModifiedContent),
		Title:        title,
		Replacements: replaced.ReplacementCount,
	}
}

// StripImports removes import statements that pull from the configured namespace.
func (t *Transformer) StripImports(content string) string {
	if t.importLine == nil {
		return content
	}
	return t.importLine.ReplaceAllString(content, "")
}

// StripComponents removes allow-listed component tags: self-closing tags first,
// then open/close pairs with everything between them, then leftover openers.
// A pair ends at the first matching closing tag; nesting is not tracked.
func (t *Transformer) StripComponents(content string) string {
	if t.componentOpen == nil {
		return content
	}
	content = t.componentSelfClosing.ReplaceAllString(content, "")
	content = t.stripComponentPairs(content)
	return t.componentOpen.ReplaceAllString(content, "")
}

func (t *Transformer) stripComponentPairs(content string) string {
	var b strings.Builder
	pos := 0
	for pos < len(content) {
		loc := t.componentOpen.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		name := strings.ToLower(content[pos+loc[2] : pos+loc[3]])

		closer := t.componentClose[name]
		if closer != nil {
			if c := closer.FindStringIndex(content[end:]); c != nil {
				b.WriteString(content[pos:start])
				pos = end + c[1]
				continue
			}
		}

		// unmatched opener: resume the scan one byte later so an opener nested
		// in its attributes still gets a chance to pair
		b.WriteString(content[pos : start+1])
		pos = start + 1
	}
	b.WriteString(content[pos:])
	return b.String()
}

// StripTags removes generic HTML tags but keeps the text between them.
func (t *Transformer) StripTags(content string) string {
	if t.htmlTag == nil {
		return content
	}
	return t.htmlTag.ReplaceAllString(content, "")
}

// StripAdmonitions removes ":::" marker lines, line break included, and keeps
// the admonition body.
func StripAdmonitions(content string) string {
	return admonitionMarker.ReplaceAllString(content, "")
}

// CollapseBlankLines turns any run of three or more blank lines into a single
// blank line. Shorter runs are kept as they are.
func CollapseBlankLines(content string) string {
	return blankLineRun.ReplaceAllString(content, "\n\n")
}

// Normalize collapses blank line runs, trims the document and terminates it
// with exactly one newline.
func Normalize(content string) string {
	return strings.TrimSpace(CollapseBlankLines(content)) + "\n"
}

func quoteAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, regexp.QuoteMeta(n))
		}
	}
	return out
}
