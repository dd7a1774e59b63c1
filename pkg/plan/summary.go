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

package plan

import (
	"path/filepath"
	"strings"

	"github.com/walteh/renamerc/pkg/rule"
)

// maxNameBytes is NAME_MAX on common filesystems
const maxNameBytes = 255

// Invalid pairs a plan item with the reason its new name cannot be used
type Invalid struct {
	Item   Item
	Reason string
}

// 📊 Summary counts what a plan would do
type Summary struct {
	Total      int
	Changed    int
	Unchanged  int
	OutOfScope int
	Invalid    []Invalid
}

// Summarize tallies items. Only changed items are checked for invalid names.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch {
		case !it.InScope:
			s.OutOfScope++
		case it.NewName == it.OriginalName:
			s.Unchanged++
		default:
			s.Changed++
			if reason := InvalidNameReason(it.NewName); reason != "" {
				s.Invalid = append(s.Invalid, Invalid{Item: it, Reason: reason})
			}
		}
	}
	return s
}

// ⚠️ InvalidNameReason returns why name is unusable as a file name, or "" when it is fine
func InvalidNameReason(name string) string {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return "empty name"
	case trimmed == "." || trimmed == "..":
		return "reserved path component"
	case strings.ContainsAny(name, rule.ForbiddenChars):
		return "invalid characters"
	case strings.HasSuffix(name, " ") || strings.HasSuffix(name, "."):
		return "trailing space or dot"
	case len(name) > maxNameBytes:
		return "name too long"
	}
	if rule.IsReserved(strings.TrimSuffix(trimmed, filepath.Ext(trimmed))) {
		return "reserved filename"
	}
	return ""
}
