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

package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/status"
)

// NewPreviewCmd creates a new preview command
func NewPreviewCmd(opts *opts.RootOpts) *cobra.Command {
	var all, asJSON bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what a rename batch would do",
		Long: `Preview builds the rename plan for the configured job without touching any file.
Only rows that change are listed unless --all is given; --json prints every plan item.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			job, err := opts.Job(ctx)
			if err != nil {
				return err
			}

			cat, err := job.Catalog(ctx, opts.Fs)
			if err != nil {
				return errors.Errorf("building catalog: %w", err)
			}

			items := job.Plan(cat)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(items); err != nil {
					return errors.Errorf("encoding plan: %w", err)
				}
				return nil
			}

			return status.RenderPreview(cmd.OutOrStdout(), items, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list unchanged and out of scope files too")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")

	return cmd
}
