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

	"github.com/walteh/renamerc/pkg/plan"
)

// Formatter defines how plan items and progress should be formatted
type Formatter interface {
	// FormatItem formats a single plan item
	FormatItem(it plan.Item) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatItem formats a plan item with emojis
func (f *DefaultFormatter) FormatItem(it plan.Item) string {
	switch Of(it) {
	case StatusRename:
		return fmt.Sprintf("✏️  Rename %s → %s", it.OriginalName, it.NewName)
	case StatusInvalid:
		return fmt.Sprintf("❌ Invalid %s → %s (%s)", it.OriginalName, it.NewName, plan.InvalidNameReason(it.NewName))
	case StatusOutOfScope:
		return fmt.Sprintf("⏭️  Skipped %s", it.OriginalName)
	default:
		return fmt.Sprintf("👍 Unchanged %s", it.OriginalName)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}
	if percentage > 100 {
		percentage = 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
