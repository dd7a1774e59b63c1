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

// Package collision makes the candidate names of a rename batch unique.
package collision

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/walteh/renamerc/pkg/rule"
)

// DefaultFoldCase reports whether the host filesystem usually ignores case
var DefaultFoldCase = runtime.GOOS == "darwin" || runtime.GOOS == "windows"

// 🧮 Resolver disambiguates duplicate names within one batch
type Resolver struct {
	// FoldCase treats names differing only in case as colliding
	FoldCase bool
}

// 🔀 Resolve returns names in the same order with duplicates suffixed by
// _1, _2 ... before the extension. The first occurrence keeps its name.
// Only the given list is consulted; the filesystem is never touched.
func (r Resolver) Resolve(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]struct{}, len(names))

	for i, name := range names {
		candidate := name
		if _, dup := seen[r.key(candidate)]; dup {
			stem, ext := rule.SplitExt(name)
			for n := 1; ; n++ {
				candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
				if _, taken := seen[r.key(candidate)]; !taken {
					break
				}
			}
		}
		seen[r.key(candidate)] = struct{}{}
		out[i] = candidate
	}
	return out
}

func (r Resolver) key(name string) string {
	if r.FoldCase {
		return strings.ToLower(name)
	}
	return name
}

// Resolve is Resolver{}.Resolve: exact, case-sensitive matching
func Resolve(names []string) []string {
	return Resolver{}.Resolve(names)
}
