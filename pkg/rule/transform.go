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
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ForbiddenChars may not appear in a file name on common operating systems
const ForbiddenChars = `<>:"/\|?*`

var (
	specialChars   = regexp.MustCompile(`[^\p{L}\p{N}_\s.\-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	separatorRuns  = regexp.MustCompile(`[\s_]+`)
	backrefs       = regexp.MustCompile(`\\(\d+)|\\g<(\w+)>`)
)

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// 🎯 Transform computes the candidate new name for originalName.
// index is the file's position in the batch and drives numbering.
// It is pure: the same inputs always give the same output, and bad
// configuration leaves the affected stage a no-op instead of failing.
func Transform(originalName string, index int, cfg Config) string {
	stem, ext := SplitExt(originalName)

	// 1. base method
	switch cfg.Method {
	case MethodPrefix:
		stem = cfg.Text + stem
	case MethodSuffix:
		stem = stem + cfg.Text
	case MethodReplace:
		stem = replaceText(stem, cfg.Replace)
	case MethodRegex:
		stem = replaceRegex(stem, cfg.Regex)
	case MethodSanitize:
		stem = Sanitize(stem)
	case MethodNumbering:
		stem = withExt(expand(numberingFormat(cfg.Numbering), newVars(originalName, index, cfg)), ext, stem)
	case MethodTemplate:
		if cfg.Template != "" {
			stem = withExt(expand(cfg.Template, newVars(originalName, index, cfg)), ext, stem)
		}
	}

	// 2. case
	stem = applyCase(stem, cfg.Case)

	// 3. cleanup
	if cfg.RemoveSpecialChars {
		stem = specialChars.ReplaceAllString(stem, "")
	}
	if cfg.ReplaceSpaces {
		stem = whitespaceRuns.ReplaceAllString(stem, "_")
	}

	// 4. truncation
	if cfg.MaxLength > 0 {
		stem = truncate(stem, cfg.MaxLength-utf8.RuneCountInString(ext))
	}

	// 5. extension
	return stem + ext
}

// SplitExt splits name into stem and extension. Dotfiles such as ".bashrc"
// are all stem.
func SplitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// withExt turns a generated full name back into a stem. The generated
// name gets the extension appended when it does not already end with it.
func withExt(generated, ext, fallback string) string {
	if generated == "" {
		return fallback
	}
	if !strings.HasSuffix(generated, ext) {
		generated += ext
	}
	return strings.TrimSuffix(generated, ext)
}

func numberingFormat(n NumberingConfig) string {
	if n.Format != "" {
		return n.Format
	}
	sep := n.Separator
	if sep == "" {
		sep = "_"
	}
	if n.Position == PositionSuffix {
		return "{name}" + sep + "{number}"
	}
	return "{number}" + sep + "{name}"
}

func newVars(originalName string, index int, cfg Config) vars {
	name, ext := SplitExt(originalName)
	step := cfg.Numbering.Step
	if step == 0 {
		step = 1
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	return vars{
		number:   cfg.Numbering.Start + index*step,
		digits:   cfg.Numbering.Digits,
		index:    index + 1,
		name:     name,
		ext:      ext,
		filename: originalName,
		now:      now,
	}
}

func replaceText(stem string, r ReplaceConfig) string {
	if r.Find == "" {
		return stem
	}
	if r.UseRegex {
		re, err := compile(r.Find, caseFlags(r.CaseSensitive))
		if err != nil {
			return stem
		}
		return re.ReplaceAllString(stem, convertBackrefs(r.Replace))
	}
	if r.CaseSensitive {
		return strings.ReplaceAll(stem, r.Find, r.Replace)
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(r.Find))
	return re.ReplaceAllLiteralString(stem, r.Replace)
}

func replaceRegex(stem string, r RegexConfig) string {
	if r.Pattern == "" {
		return stem
	}
	re, err := compile(r.Pattern, r.Flags)
	if err != nil {
		return stem
	}
	return re.ReplaceAllString(stem, convertBackrefs(r.Replacement))
}

// convertBackrefs accepts \1 and \g<name> references alongside Go's ${1}
func convertBackrefs(repl string) string {
	return backrefs.ReplaceAllStringFunc(repl, func(m string) string {
		sub := backrefs.FindStringSubmatch(m)
		if sub[1] != "" {
			return "${" + sub[1] + "}"
		}
		return "${" + sub[2] + "}"
	})
}

func applyCase(stem string, mode CaseMode) string {
	// casers keep state, so they are not shared
	switch mode {
	case CaseUpper:
		return cases.Upper(language.Und).String(stem)
	case CaseLower:
		return cases.Lower(language.Und).String(stem)
	case CaseTitle:
		return cases.Title(language.Und).String(stem)
	default:
		return stem
	}
}

func truncate(stem string, limit int) string {
	if limit < 1 {
		limit = 1
	}
	runes := []rune(stem)
	if len(runes) <= limit {
		return stem
	}
	return string(runes[:limit])
}

// 🧼 Sanitize strips characters that are invalid in file names on common
// operating systems, collapses whitespace and underscore runs into a single
// underscore and trims separators from both ends. A leading dot survives.
func Sanitize(stem string) string {
	dotfile := strings.HasPrefix(stem, ".")
	stem = strings.Map(func(r rune) rune {
		if strings.ContainsRune(ForbiddenChars, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, stem)
	stem = separatorRuns.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, " ._-")
	if stem == "" {
		return "file"
	}
	if IsReserved(stem) {
		stem += "_"
	}
	if dotfile {
		stem = "." + stem
	}
	return stem
}

// IsReserved reports whether stem is a device name Windows refuses as a file name
func IsReserved(stem string) bool {
	_, ok := reservedNames[strings.ToUpper(stem)]
	return ok
}
