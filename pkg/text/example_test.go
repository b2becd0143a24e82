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

package text_test

import (
	"fmt"

	"github.com/walteh/docmirror/pkg/text"
)

func ExampleTransformer_Transform() {
	transformer, err := text.NewTransformer(text.Options{
		Components: []string{"Tabs", "TabItem"},
		HTMLTags:   []string{"div"},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	raw := "---\ntitle: \"Getting Started\"\n---\n\nHello <Tabs>\n<TabItem>A</TabItem>\n</Tabs> world\n\n\n\nBye\n"
	result := transformer.Transform("getting_started.md", []byte(raw))

	fmt.Printf("Title: %s\n", result.Title)
	fmt.Printf("Content: %q\n", result.Content)

	// Output:
	// Title: Getting Started
	// Content: "Hello  world\n\nBye\n"
}

func ExampleSimpleTextReplacer_ReplaceText() {
	replacer := text.NewSimpleTextReplacer()

	rules := []text.ReplacementRule{
		{
			FromText:       "World",
			ToText:         "Universe",
			FileFilterGlob: "*.md",
		},
		{
			FromText: "Hello",
			ToText:   "Hi",
		},
	}

	result := replacer.ReplaceText("greeting.md", "Hello World!", rules)

	fmt.Printf("Original: %s\n", result.OriginalContent)
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: Hello World!
	// Modified: Hi Universe!
	// Changes: 2
	// Was Modified: true
}

func ExampleSimpleTextReplacer_ValidateRules() {
	replacer := text.NewSimpleTextReplacer()

	err := replacer.ValidateRules([]text.ReplacementRule{
		{FromText: "foo", ToText: "bar", FileFilterGlob: "[invalid"},
	})

	fmt.Printf("Error: %v\n", err)

	// Output:
	// Error: rule 0: invalid file_filter_glob "[invalid"
}
