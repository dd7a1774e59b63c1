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
	"regexp"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 🔧 Method selects the base transformation
type Method string

const (
	MethodPrefix    Method = "prefix"
	MethodSuffix    Method = "suffix"
	MethodReplace   Method = "replace"
	MethodRegex     Method = "regex"
	MethodNumbering Method = "numbering"
	MethodSanitize  Method = "sanitize"
	MethodCase      Method = "case"
	MethodTemplate  Method = "template"
)

// Methods lists every supported method
var Methods = []Method{
	MethodPrefix, MethodSuffix, MethodReplace, MethodRegex,
	MethodNumbering, MethodSanitize, MethodCase, MethodTemplate,
}

// 🔠 CaseMode is applied to the stem after the base method
type CaseMode string

const (
	CaseNone  CaseMode = "none"
	CaseUpper CaseMode = "upper"
	CaseLower CaseMode = "lower"
	CaseTitle CaseMode = "title"
)

// 📍 Position places the number relative to the stem
type Position string

const (
	PositionPrefix Position = "prefix"
	PositionSuffix Position = "suffix"
)

// 🔢 NumberingConfig parameterizes MethodNumbering
type NumberingConfig struct {
	Start     int      `json:"start" yaml:"start"`
	Step      int      `json:"step" yaml:"step"`     // 0 means 1
	Digits    int      `json:"digits" yaml:"digits"` // zero padding width
	Position  Position `json:"position" yaml:"position"`
	Separator string   `json:"separator" yaml:"separator"` // "" means "_"
	Format    string   `json:"format" yaml:"format"`       // overrides Position/Separator, e.g. "{name}-{number}"
}

// 🔄 ReplaceConfig parameterizes MethodReplace
type ReplaceConfig struct {
	Find          string `json:"find" yaml:"find"`
	Replace       string `json:"replace" yaml:"replace"`
	CaseSensitive bool   `json:"case_sensitive" yaml:"case_sensitive"`
	UseRegex      bool   `json:"use_regex" yaml:"use_regex"`
}

// 🧩 RegexConfig parameterizes MethodRegex
type RegexConfig struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Flags       string `json:"flags" yaml:"flags"` // any of i, m, s
}

// 📋 Config is an immutable description of a rename rule
type Config struct {
	Method    Method          `json:"method" yaml:"method"`
	Text      string          `json:"text" yaml:"text"` // prefix or suffix text
	Numbering NumberingConfig `json:"numbering" yaml:"numbering"`
	Replace   ReplaceConfig   `json:"replace" yaml:"replace"`
	Regex     RegexConfig     `json:"regex" yaml:"regex"`
	Template  string          `json:"template" yaml:"template"`
	Case      CaseMode        `json:"case" yaml:"case"`

	RemoveSpecialChars bool `json:"remove_special_chars" yaml:"remove_special_chars"`
	ReplaceSpaces      bool `json:"replace_spaces" yaml:"replace_spaces"`
	MaxLength          int  `json:"max_length" yaml:"max_length"` // 0 disables truncation

	// Now feeds {date} and {time}. The zero value means the current time.
	Now time.Time `json:"-" yaml:"-"`
}

// 🔍 Validate reports configuration mistakes up front. Transform never
// fails on them; this is for callers that want to reject a job early.
func (c Config) Validate() error {
	known := false
	for _, m := range Methods {
		if c.Method == m {
			known = true
			break
		}
	}
	if !known {
		return errors.Errorf("unknown method %q", c.Method)
	}

	switch c.Case {
	case "", CaseNone, CaseUpper, CaseLower, CaseTitle:
	default:
		return errors.Errorf("unknown case mode %q", c.Case)
	}

	switch c.Method {
	case MethodNumbering:
		switch c.Numbering.Position {
		case "", PositionPrefix, PositionSuffix:
		default:
			return errors.Errorf("unknown numbering position %q", c.Numbering.Position)
		}
		if c.Numbering.Digits < 0 {
			return errors.Errorf("numbering digits must not be negative")
		}
		if c.Numbering.Digits > MaxWidth {
			return errors.Errorf("numbering digits must not exceed %d", MaxWidth)
		}
		if err := checkWidths(c.Numbering.Format); err != nil {
			return errors.Errorf("numbering format: %w", err)
		}
	case MethodReplace:
		if c.Replace.Find == "" {
			return errors.Errorf("replace.find is required")
		}
		if c.Replace.UseRegex {
			if _, err := compile(c.Replace.Find, caseFlags(c.Replace.CaseSensitive)); err != nil {
				return errors.Errorf("compiling replace pattern: %w", err)
			}
		}
	case MethodRegex:
		if _, err := compile(c.Regex.Pattern, c.Regex.Flags); err != nil {
			return errors.Errorf("compiling regex: %w", err)
		}
	case MethodTemplate:
		if c.Template == "" {
			return errors.Errorf("template is required")
		}
		if err := checkWidths(c.Template); err != nil {
			return errors.Errorf("template: %w", err)
		}
	}

	if c.MaxLength < 0 {
		return errors.Errorf("max_length must not be negative")
	}
	return nil
}

func caseFlags(caseSensitive bool) string {
	if caseSensitive {
		return ""
	}
	return "i"
}

// compile builds a regexp honoring flags made of the letters i, m and s
func compile(pattern, flags string) (*regexp.Regexp, error) {
	var set []rune
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			set = append(set, f)
		case ' ', ',':
		default:
			return nil, errors.Errorf("unknown regex flag %q", f)
		}
	}
	if len(set) > 0 {
		pattern = "(?" + string(set) + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling %q: %w", pattern, err)
	}
	return re, nil
}
