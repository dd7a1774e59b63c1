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
	"time"

	"github.com/walteh/renamerc/pkg/catalog"
	"github.com/walteh/renamerc/pkg/collision"
	"github.com/walteh/renamerc/pkg/condition"
	"github.com/walteh/renamerc/pkg/rule"
)

// 📝 Item is one proposed rename
type Item struct {
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name"`
	OriginalPath string `json:"original_path"`
	InScope      bool   `json:"in_scope"`
}

// NewPath returns the path the file will have after the rename
func (i Item) NewPath() string {
	return filepath.Join(filepath.Dir(i.OriginalPath), i.NewName)
}

// Changed reports whether applying the item would touch the file
func (i Item) Changed() bool {
	return i.InScope && i.NewName != i.OriginalName
}

// Planner builds plans. The zero value resolves collisions case-sensitively.
type Planner struct {
	Resolver collision.Resolver
	// Clock stamps {date} and {time} once per plan when the rule leaves Now
	// zero. Nil means time.Now.
	Clock func() time.Time
}

// 🗺️ Generate builds the plan for every catalog entry in catalog order.
// In-scope entries are numbered by their position among in-scope entries
// only, and only they take part in collision resolution.
func (p Planner) Generate(cat *catalog.Catalog, rc rule.Config, cc condition.Config) []Item {
	entries := cat.Entries()
	items := make([]Item, len(entries))

	if rc.Now.IsZero() {
		clock := p.Clock
		if clock == nil {
			clock = time.Now
		}
		rc.Now = clock()
	}

	var scoped []int
	var candidates []string

	for i, e := range entries {
		name := e.Name()
		items[i] = Item{
			OriginalName: name,
			NewName:      name,
			OriginalPath: e.Path,
		}
		if !condition.Matches(e, cc) {
			continue
		}
		items[i].InScope = true
		candidates = append(candidates, rule.Transform(name, len(scoped), rc))
		scoped = append(scoped, i)
	}

	for j, name := range p.Resolver.Resolve(candidates) {
		items[scoped[j]].NewName = name
	}
	return items
}

// Generate is Planner{}.Generate
func Generate(cat *catalog.Catalog, rc rule.Config, cc condition.Config) []Item {
	return Planner{}.Generate(cat, rc, cc)
}
