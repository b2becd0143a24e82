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
	"fmt"
)

// FileFormatter defines how classified files and summaries are rendered in log messages
type FileFormatter interface {
	// FormatChange formats a single classified file
	FormatChange(info FileInfo) string

	// FormatSummary formats the totals of a comparison
	FormatSummary(changes *Changes) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatChange formats a classified file with emojis
func (f *DefaultFileFormatter) FormatChange(info FileInfo) string {
	switch info.Status {
	case StatusAdded:
		return fmt.Sprintf("✨ Added %s", info.Path)
	case StatusModified:
		if info.LinesAdded > 0 || info.LinesRemoved > 0 {
			return fmt.Sprintf("📝 Modified %s (+%d -%d)", info.Path, info.LinesAdded, info.LinesRemoved)
		}
		return fmt.Sprintf("📝 Modified %s", info.Path)
	case StatusRemoved:
		return fmt.Sprintf("🗑️  Removed %s", info.Path)
	default:
		return fmt.Sprintf("❓ Unknown %s", info.Path)
	}
}

// FormatSummary formats the comparison totals
func (f *DefaultFileFormatter) FormatSummary(changes *Changes) string {
	if changes.Empty() {
		return "👍 No changes"
	}
	return fmt.Sprintf("📊 %d added, %d modified, %d removed",
		len(changes.Added), len(changes.Modified), len(changes.Removed))
}
