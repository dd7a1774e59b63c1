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

// Package condition decides whether a catalog entry is in scope for a batch.
package condition

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/catalog"
)

// SizeTolerance is the band used by the "=" size operator
const SizeTolerance = 1024

// DateLayout is the calendar-day layout of DateCondition.Date
const DateLayout = "2006-01-02"

var units = map[string]float64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// 📏 SizeCondition compares the file size against Value×Unit
type SizeCondition struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Operator string `json:"operator" yaml:"operator"` // one of < <= = >= >
	Value    string `json:"value" yaml:"value"`
	Unit     string `json:"unit" yaml:"unit"` // B, KB, MB or GB
}

// 📅 DateCondition compares the modification day against Date
type DateCondition struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Mode    string `json:"mode" yaml:"mode"` // after or before
	Date    string `json:"date" yaml:"date"` // YYYY-MM-DD
}

// 🏷️ ExtensionCondition restricts the batch to a comma separated allow-list
type ExtensionCondition struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Extensions string `json:"extensions" yaml:"extensions"` // e.g. ".jpg,.png"
}

// 🔍 PatternCondition matches the base name against a doublestar glob
type PatternCondition struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// 🎛️ Config groups the predicates. The zero value matches everything.
type Config struct {
	Size      SizeCondition      `json:"size" yaml:"size"`
	Date      DateCondition      `json:"date" yaml:"date"`
	Extension ExtensionCondition `json:"extension" yaml:"extension"`
	Pattern   PatternCondition   `json:"pattern" yaml:"pattern"`
}

// ✅ Matches reports whether entry passes every enabled predicate.
// Malformed predicate input makes that predicate false for the file.
func Matches(entry catalog.FileEntry, cfg Config) bool {
	return matchSize(entry, cfg.Size) &&
		matchDate(entry, cfg.Date) &&
		matchExtension(entry, cfg.Extension) &&
		matchPattern(entry, cfg.Pattern)
}

// 🔍 Validate reports malformed input in enabled predicates. Matches never
// fails on it; this lets callers reject a job before planning.
func (c Config) Validate() error {
	if c.Size.Enabled {
		switch strings.TrimSpace(c.Size.Operator) {
		case "<", "<=", "=", "==", ">=", ">":
		default:
			return errors.Errorf("size: unknown operator %q", c.Size.Operator)
		}
		if _, ok := Bytes(c.Size.Value, c.Size.Unit); !ok {
			return errors.Errorf("size: invalid value %q %q", c.Size.Value, c.Size.Unit)
		}
	}
	if c.Date.Enabled {
		switch strings.ToLower(strings.TrimSpace(c.Date.Mode)) {
		case "after", "before":
		default:
			return errors.Errorf("date: unknown mode %q", c.Date.Mode)
		}
		if _, err := time.Parse(DateLayout, strings.TrimSpace(c.Date.Date)); err != nil {
			return errors.Errorf("date: parsing %q: %w", c.Date.Date, err)
		}
	}
	if c.Extension.Enabled && len(ParseExtensions(c.Extension.Extensions)) == 0 {
		return errors.Errorf("extension: allow-list is empty")
	}
	if c.Pattern.Enabled && !doublestar.ValidatePattern(c.Pattern.Pattern) {
		return errors.Errorf("pattern: invalid glob %q", c.Pattern.Pattern)
	}
	return nil
}

// Bytes converts a value and unit to a byte count
func Bytes(value, unit string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	mult, ok := units[strings.ToUpper(strings.TrimSpace(unit))]
	if !ok {
		return 0, false
	}
	return v * mult, true
}

func matchSize(entry catalog.FileEntry, c SizeCondition) bool {
	if !c.Enabled {
		return true
	}
	target, ok := Bytes(c.Value, c.Unit)
	if !ok {
		return false
	}
	size := float64(entry.Size)

	switch strings.TrimSpace(c.Operator) {
	case "<":
		return size < target
	case "<=":
		return size <= target
	case "=", "==":
		diff := size - target
		if diff < 0 {
			diff = -diff
		}
		return diff < SizeTolerance
	case ">=":
		return size >= target
	case ">":
		return size > target
	default:
		return false
	}
}

func matchDate(entry catalog.FileEntry, c DateCondition) bool {
	if !c.Enabled {
		return true
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(c.Date), time.Local)
	if err != nil {
		return false
	}
	mod := entry.ModTime.In(time.Local)
	modDay := time.Date(mod.Year(), mod.Month(), mod.Day(), 0, 0, 0, 0, time.Local)

	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "after":
		return modDay.After(day)
	case "before":
		return modDay.Before(day)
	default:
		return false
	}
}

func matchExtension(entry catalog.FileEntry, c ExtensionCondition) bool {
	if !c.Enabled {
		return true
	}
	ext := strings.ToLower(filepath.Ext(entry.Path))
	for _, allowed := range ParseExtensions(c.Extensions) {
		if allowed == ext {
			return true
		}
	}
	return false
}

func matchPattern(entry catalog.FileEntry, c PatternCondition) bool {
	if !c.Enabled {
		return true
	}
	ok, err := doublestar.Match(c.Pattern, filepath.Base(entry.Path))
	return err == nil && ok
}

// ParseExtensions splits a comma separated allow-list into lower-cased
// extensions. A missing leading dot is added.
func ParseExtensions(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		out = append(out, part)
	}
	return out
}
