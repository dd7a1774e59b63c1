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

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/catalog"
	"github.com/walteh/renamerc/pkg/plan"
)

// 📂 Catalog collects the job's inputs: explicit files first, then the
// directory scan or pattern matches, then natural ordering when asked for.
func (j *Job) Catalog(ctx context.Context, fsys afero.Fs) (*catalog.Catalog, error) {
	cat := catalog.New(fsys)
	cat.Add(j.Files)

	switch {
	case j.Pattern != "":
		root := j.Directory
		if root == "" {
			root = "."
		}
		if _, err := cat.AddGlob(ctx, root, j.Pattern); err != nil {
			return nil, errors.Errorf("collecting files: %w", err)
		}
	case j.Directory != "":
		if _, err := cat.AddDir(ctx, j.Directory, j.Recursive); err != nil {
			return nil, errors.Errorf("collecting files: %w", err)
		}
	}

	if j.NaturalSort {
		cat.SortNatural()
	}

	zerolog.Ctx(ctx).Debug().Int("files", cat.Len()).Msg("catalog ready")
	return cat, nil
}

// 🗺️ Plan generates the rename plan for cat using the job's rule,
// conditions and collision mode
func (j *Job) Plan(cat *catalog.Catalog) []plan.Item {
	planner := plan.Planner{Resolver: j.Resolver()}
	return planner.Generate(cat, j.Rule, j.Conditions)
}
