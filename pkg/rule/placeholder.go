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

package rule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"gitlab.com/tozd/go/errors"
)

// Placeholders lists the names understood by templates and numbering formats
var Placeholders = []string{"number", "name", "ext", "index", "filename", "date", "time"}

// MaxWidth bounds zero padding; no common filesystem accepts a longer name
const MaxWidth = 255

// placeholderPattern matches {name} and {name:03}
var placeholderPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// vars holds the values a placeholder can resolve to
type vars struct {
	number   int
	digits   int
	index    int
	name     string
	ext      string
	filename string
	now      time.Time
}

// lookup resolves one placeholder. width > 0 zero-pads numeric values.
func (v vars) lookup(key string, width int) (string, bool) {
	switch key {
	case "number":
		if width == 0 {
			width = v.digits
		}
		return pad(v.number, width), true
	case "index":
		return pad(v.index, width), true
	case "name":
		return v.name, true
	case "ext":
		return v.ext, true
	case "filename":
		return v.filename, true
	case "date":
		return v.now.Format("2006-01-02"), true
	case "time":
		return v.now.Format("150405"), true
	default:
		return "", false
	}
}

// expand substitutes known placeholders. Unknown ones are left as written.
func expand(format string, v vars) string {
	return placeholderPattern.ReplaceAllStringFunc(format, func(match string) string {
		parts := placeholderPattern.FindStringSubmatch(match)
		width := 0
		if parts[2] != "" {
			if w, err := strconv.Atoi(parts[2]); err == nil {
				width = w
			}
		}
		if val, ok := v.lookup(parts[1], width); ok {
			return val
		}
		return match
	})
}

func pad(n, width int) string {
	if width <= 0 {
		return strconv.Itoa(n)
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	return fmt.Sprintf("%0*d", width, n)
}

// checkWidths rejects {x:NN} widths above MaxWidth in format
func checkWidths(format string) error {
	for _, m := range placeholderPattern.FindAllStringSubmatch(format, -1) {
		if m[2] == "" {
			continue
		}
		if w, err := strconv.Atoi(m[2]); err != nil || w > MaxWidth {
			return errors.Errorf("width of {%s:%s} exceeds %d", m[1], m[2], MaxWidth)
		}
	}
	return nil
}
