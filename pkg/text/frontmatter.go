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
	"regexp"
	"strings"
)

var (
	frontmatterBlock = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---`)
	frontmatterStrip = regexp.MustCompile(`(?s)^---\s*\n.*?\n---\s*\n`)
	titleField       = regexp.MustCompile(`(?m)^title:\s*["']?(.*?)["']?\s*$`)
)

// ExtractTitle returns the title field of a leading "---" metadata block.
// Surrounding quotes and whitespace are trimmed.
func ExtractTitle(content string) (string, bool) {
	block := frontmatterBlock.FindStringSubmatch(content)
	if block == nil {
		return "", false
	}
	field := titleField.FindStringSubmatch(block[1])
	if field == nil {
		return "", false
	}
	return strings.TrimSpace(field[1]), true
}

// StripFrontmatter removes the leading metadata block including both delimiter lines.
func StripFrontmatter(content string) string {
	loc := frontmatterStrip.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[loc[1]:]
}
