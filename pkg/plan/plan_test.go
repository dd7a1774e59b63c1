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
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/renamerc/pkg/catalog"
	"github.com/walteh/renamerc/pkg/collision"
	"github.com/walteh/renamerc/pkg/condition"
	"github.com/walteh/renamerc/pkg/rule"
)

func newCatalog(t *testing.T, files ...string) *catalog.Catalog {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, f, []byte(f), 0644), "writing %s should succeed", f)
	}
	cat := catalog.New(fsys)
	require.Equal(t, len(files), cat.Add(files), "all files should be added")
	return cat
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.NewName
	}
	return out
}

func TestGenerate(t *testing.T) {
	numbering := rule.Config{
		Method:    rule.MethodNumbering,
		Numbering: rule.NumberingConfig{Start: 1, Digits: 3, Position: rule.PositionPrefix},
	}
	onlyImages := condition.Config{
		Extension: condition.ExtensionCondition{Enabled: true, Extensions: ".jpg,.png"},
	}

	tests := []struct {
		name        string
		files       []string
		rule        rule.Config
		cond        condition.Config
		wantNames   []string
		wantInScope []bool
	}{
		{
			name:        "numbering_prefix",
			files:       []string{"/d/a.txt", "/d/b.txt"},
			rule:        numbering,
			wantNames:   []string{"001_a.txt", "002_b.txt"},
			wantInScope: []bool{true, true},
		},
		{
			name:        "replace_space",
			files:       []string{"/d/report v1.pdf"},
			rule:        rule.Config{Method: rule.MethodReplace, Replace: rule.ReplaceConfig{Find: " ", Replace: "_", CaseSensitive: true}},
			wantNames:   []string{"report_v1.pdf"},
			wantInScope: []bool{true},
		},
		{
			name:        "collision_gets_suffix",
			files:       []string{"/d/out1.txt", "/d/out2.txt"},
			rule:        rule.Config{Method: rule.MethodRegex, Regex: rule.RegexConfig{Pattern: `\d+$`}},
			wantNames:   []string{"out.txt", "out_1.txt"},
			wantInScope: []bool{true, true},
		},
		{
			name:        "extension_filter",
			files:       []string{"/d/a.jpg", "/d/b.txt"},
			rule:        rule.Config{Method: rule.MethodPrefix, Text: "x_"},
			cond:        onlyImages,
			wantNames:   []string{"x_a.jpg", "b.txt"},
			wantInScope: []bool{true, false},
		},
		{
			name:        "numbering_skips_out_of_scope",
			files:       []string{"/d/a.jpg", "/d/b.txt", "/d/c.png"},
			rule:        numbering,
			cond:        onlyImages,
			wantNames:   []string{"001_a.jpg", "b.txt", "002_c.png"},
			wantInScope: []bool{true, false, true},
		},
		{
			name:        "out_of_scope_names_do_not_collide",
			files:       []string{"/d/out.jpg", "/d/x.jpg"},
			rule:        rule.Config{Method: rule.MethodReplace, Replace: rule.ReplaceConfig{Find: "x", Replace: "out"}},
			cond:        condition.Config{Pattern: condition.PatternCondition{Enabled: true, Pattern: "x*"}},
			wantNames:   []string{"out.jpg", "out.jpg"},
			wantInScope: []bool{false, true},
		},
		{
			name:        "unchanged_names_stay",
			files:       []string{"/d/a.txt"},
			rule:        rule.Config{Method: rule.MethodCase, Case: rule.CaseLower},
			wantNames:   []string{"a.txt"},
			wantInScope: []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Generate(newCatalog(t, tt.files...), tt.rule, tt.cond)
			require.Len(t, items, len(tt.files), "plan should cover every entry")

			assert.Equal(t, tt.wantNames, names(items), "new names should match")
			for i, it := range items {
				assert.Equal(t, tt.wantInScope[i], it.InScope, "scope of %s should match", it.OriginalName)
				assert.Equal(t, tt.files[i], it.OriginalPath, "original path should be kept")
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cat := newCatalog(t, "/d/b.txt", "/d/a.txt", "/d/a b.txt", "/d/c.TXT")
	rc := rule.Config{Method: rule.MethodSanitize, Case: rule.CaseLower, ReplaceSpaces: true}

	first := Generate(cat, rc, condition.Config{})
	second := Generate(cat, rc, condition.Config{})

	assert.Equal(t, first, second, "repeated plans should be identical")
}

func TestGenerateUniqueInScopeNames(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = "/d/" + strings.Repeat("x", i+1) + ".txt"
	}
	cat := newCatalog(t, files...)

	items := Generate(cat, rule.Config{Method: rule.MethodTemplate, Template: "same"}, condition.Config{})

	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.NewName], "%s should be unique", it.NewName)
		seen[it.NewName] = true
	}
}

func TestGenerateStampsOneInstant(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 20, 59, 0, time.UTC)
	calls := 0
	planner := Planner{Clock: func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}}

	cat := newCatalog(t, "/d/a.txt", "/d/b.txt", "/d/c.txt")
	rc := rule.Config{Method: rule.MethodTemplate, Template: "{time}_{name}"}

	items := planner.Generate(cat, rc, condition.Config{})
	assert.Equal(t, 1, calls, "the clock should be read once per plan")
	assert.Equal(t, []string{"102059_a.txt", "102059_b.txt", "102059_c.txt"}, names(items), "every item should share one stamp")
	assert.True(t, rc.Now.IsZero(), "the caller's rule should not be modified")

	pinned := rc
	pinned.Now = time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	items = planner.Generate(cat, pinned, condition.Config{})
	assert.Equal(t, 1, calls, "a pinned Now should not read the clock")
	assert.Equal(t, "030405_a.txt", items[0].NewName, "the pinned instant should be used")
}

func TestPlannerFoldCase(t *testing.T) {
	cat := newCatalog(t, "/d/A.txt", "/d/b.txt")
	p := Planner{Resolver: collision.Resolver{FoldCase: true}}

	items := p.Generate(cat, rule.Config{Method: rule.MethodCase, Case: rule.CaseLower}, condition.Config{})

	assert.Equal(t, []string{"a.txt", "b.txt"}, names(items), "distinct names should stay apart")

	cat = newCatalog(t, "/d/A.txt", "/d/a.txt")
	items = p.Generate(cat, rule.Config{Method: rule.MethodCase, Case: rule.CaseUpper}, condition.Config{})
	assert.Equal(t, []string{"A.txt", "A_1.txt"}, names(items), "case variants should be disambiguated")
}

func TestItem(t *testing.T) {
	it := Item{OriginalName: "a.txt", NewName: "b.txt", OriginalPath: "/d/a.txt", InScope: true}
	assert.Equal(t, "/d/b.txt", it.NewPath(), "new path should sit next to the original")
	assert.True(t, it.Changed(), "renamed in-scope item should be changed")

	it.InScope = false
	assert.False(t, it.Changed(), "out of scope item should not be changed")

	it = Item{OriginalName: "a.txt", NewName: "a.txt", OriginalPath: "/d/a.txt", InScope: true}
	assert.False(t, it.Changed(), "same name should not be changed")
}

func TestSummarize(t *testing.T) {
	items := []Item{
		{OriginalName: "a.txt", NewName: "b.txt", InScope: true},
		{OriginalName: "c.txt", NewName: "c.txt", InScope: true},
		{OriginalName: "d.txt", NewName: "d.txt"},
		{OriginalName: "e.txt", NewName: "CON.txt", InScope: true},
	}

	s := Summarize(items)

	assert.Equal(t, 4, s.Total, "total should count every item")
	assert.Equal(t, 2, s.Changed, "changed count should match")
	assert.Equal(t, 1, s.Unchanged, "unchanged count should match")
	assert.Equal(t, 1, s.OutOfScope, "out of scope count should match")
	require.Len(t, s.Invalid, 1, "one invalid name should be reported")
	assert.Equal(t, "reserved filename", s.Invalid[0].Reason, "reason should match")
}

func TestInvalidNameReason(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "valid", input: "photo.jpg", want: ""},
		{name: "empty", input: "  ", want: "empty name"},
		{name: "dot_dot", input: "..", want: "reserved path component"},
		{name: "colon", input: "a:b.txt", want: "invalid characters"},
		{name: "slash", input: "a/b.txt", want: "invalid characters"},
		{name: "trailing_dot", input: "a.", want: "trailing space or dot"},
		{name: "trailing_space", input: "a.txt ", want: "trailing space or dot"},
		{name: "too_long", input: strings.Repeat("a", 256), want: "name too long"},
		{name: "reserved", input: "nul.txt", want: "reserved filename"},
		{name: "reserved_prefix_is_fine", input: "console.txt", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InvalidNameReason(tt.input), "reason should match")
		})
	}
}
