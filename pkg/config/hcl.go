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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/condition"
	"github.com/walteh/renamerc/pkg/rule"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclJob struct {
	Files       []string       `hcl:"files,optional"`
	Directory   string         `hcl:"directory,optional"`
	Pattern     string         `hcl:"pattern,optional"`
	Recursive   bool           `hcl:"recursive,optional"`
	NaturalSort bool           `hcl:"natural_sort,optional"`
	BackupDir   string         `hcl:"backup_dir,optional"`
	Manifest    bool           `hcl:"manifest,optional"`
	Journal     string         `hcl:"journal,optional"`
	FoldCase    *bool          `hcl:"fold_case,optional"`
	Rule        *hclRule       `hcl:"rule,block"`
	Conditions  *hclConditions `hcl:"conditions,block"`
}

type hclRule struct {
	Method             string        `hcl:"method"`
	Text               string        `hcl:"text,optional"`
	Template           string        `hcl:"template,optional"`
	Case               string        `hcl:"case,optional"`
	RemoveSpecialChars bool          `hcl:"remove_special_chars,optional"`
	ReplaceSpaces      bool          `hcl:"replace_spaces,optional"`
	MaxLength          int           `hcl:"max_length,optional"`
	Numbering          *hclNumbering `hcl:"numbering,block"`
	Replace            *hclReplace   `hcl:"replace,block"`
	Regex              *hclRegex     `hcl:"regex,block"`
}

type hclNumbering struct {
	Start     *int    `hcl:"start,optional"`
	Step      *int    `hcl:"step,optional"`
	Digits    *int    `hcl:"digits,optional"`
	Position  *string `hcl:"position,optional"`
	Separator *string `hcl:"separator,optional"`
	Format    *string `hcl:"format,optional"`
}

type hclReplace struct {
	Find          string `hcl:"find"`
	Replace       string `hcl:"replace,optional"`
	CaseSensitive bool   `hcl:"case_sensitive,optional"`
	UseRegex      bool   `hcl:"use_regex,optional"`
}

type hclRegex struct {
	Pattern     string `hcl:"pattern"`
	Replacement string `hcl:"replacement,optional"`
	Flags       string `hcl:"flags,optional"`
}

// a condition block turns its predicate on unless enabled = false
type hclConditions struct {
	Size *struct {
		Enabled  *bool  `hcl:"enabled,optional"`
		Operator string `hcl:"operator"`
		Value    string `hcl:"value"`
		Unit     string `hcl:"unit,optional"`
	} `hcl:"size,block"`
	Date *struct {
		Enabled *bool  `hcl:"enabled,optional"`
		Mode    string `hcl:"mode"`
		Date    string `hcl:"date"`
	} `hcl:"date,block"`
	Extension *struct {
		Enabled    *bool  `hcl:"enabled,optional"`
		Extensions string `hcl:"extensions"`
	} `hcl:"extension,block"`
	Pattern *struct {
		Enabled *bool  `hcl:"enabled,optional"`
		Pattern string `hcl:"pattern"`
	} `hcl:"pattern,block"`
}

// 📝 Parse parses the job from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Job, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "job.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw hclJob
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	job := NewJob()
	job.Files = raw.Files
	job.Directory = raw.Directory
	job.Pattern = raw.Pattern
	job.Recursive = raw.Recursive
	job.NaturalSort = raw.NaturalSort
	job.BackupDir = raw.BackupDir
	job.Manifest = raw.Manifest
	job.Journal = raw.Journal
	job.FoldCase = raw.FoldCase

	if r := raw.Rule; r != nil {
		applyRule(&job.Rule, r)
	}
	if c := raw.Conditions; c != nil {
		applyConditions(&job.Conditions, c)
	}

	return job, nil
}

// evalContext exposes the environment as env.NAME plus a few string functions
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && validIdent(k) {
			env[k] = cty.StringVal(v)
		}
	}

	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		envVal = cty.ObjectVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
		},
	}
}

// validIdent reports whether name can be used after "env."
func validIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func applyRule(dst *rule.Config, r *hclRule) {
	dst.Method = rule.Method(r.Method)
	dst.Text = r.Text
	dst.Template = r.Template
	if r.Case != "" {
		dst.Case = rule.CaseMode(r.Case)
	}
	dst.RemoveSpecialChars = r.RemoveSpecialChars
	dst.ReplaceSpaces = r.ReplaceSpaces
	dst.MaxLength = r.MaxLength

	if n := r.Numbering; n != nil {
		if n.Start != nil {
			dst.Numbering.Start = *n.Start
		}
		if n.Step != nil {
			dst.Numbering.Step = *n.Step
		}
		if n.Digits != nil {
			dst.Numbering.Digits = *n.Digits
		}
		if n.Position != nil {
			dst.Numbering.Position = rule.Position(*n.Position)
		}
		if n.Separator != nil {
			dst.Numbering.Separator = *n.Separator
		}
		if n.Format != nil {
			dst.Numbering.Format = *n.Format
		}
	}
	if rp := r.Replace; rp != nil {
		dst.Replace = rule.ReplaceConfig{
			Find:          rp.Find,
			Replace:       rp.Replace,
			CaseSensitive: rp.CaseSensitive,
			UseRegex:      rp.UseRegex,
		}
	}
	if rx := r.Regex; rx != nil {
		dst.Regex = rule.RegexConfig{
			Pattern:     rx.Pattern,
			Replacement: rx.Replacement,
			Flags:       rx.Flags,
		}
	}
}

func applyConditions(dst *condition.Config, c *hclConditions) {
	if s := c.Size; s != nil {
		unit := s.Unit
		if unit == "" {
			unit = "B"
		}
		dst.Size = condition.SizeCondition{Enabled: enabled(s.Enabled), Operator: s.Operator, Value: s.Value, Unit: unit}
	}
	if d := c.Date; d != nil {
		dst.Date = condition.DateCondition{Enabled: enabled(d.Enabled), Mode: d.Mode, Date: d.Date}
	}
	if e := c.Extension; e != nil {
		dst.Extension = condition.ExtensionCondition{Enabled: enabled(e.Enabled), Extensions: e.Extensions}
	}
	if p := c.Pattern; p != nil {
		dst.Pattern = condition.PatternCondition{Enabled: enabled(p.Enabled), Pattern: p.Pattern}
	}
}

func enabled(b *bool) bool {
	return b == nil || *b
}
