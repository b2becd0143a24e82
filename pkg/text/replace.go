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

package text

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ReplacementRule defines a single literal text replacement
type ReplacementRule struct {
	// FromText is the text to replace
	FromText string

	// ToText is the replacement text
	ToText string

	// FileFilterGlob limits the rule to output paths matching the glob; empty matches every file
	FileFilterGlob string
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent string

	// ModifiedContent is the content after replacements
	ModifiedContent string
}

// SimpleTextReplacer applies rules with plain string replacement
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText applies every rule whose glob matches path, in order
func (r *SimpleTextReplacer) ReplaceText(path string, content string, rules []ReplacementRule) ReplacementResult {
	result := ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
	}

	current := content
	for _, rule := range rules {
		if rule.FromText == "" {
			continue
		}
		if rule.FileFilterGlob != "" {
			if ok, err := doublestar.Match(rule.FileFilterGlob, path); err != nil || !ok {
				continue
			}
		}

		if n := strings.Count(current, rule.FromText); n > 0 {
			current = strings.ReplaceAll(current, rule.FromText, rule.ToText)
			result.WasModified = true
			result.ReplacementCount += n
		}
	}

	result.ModifiedContent = current
	return result
}

// ValidateRules checks that every rule has search text and a well-formed glob
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}
