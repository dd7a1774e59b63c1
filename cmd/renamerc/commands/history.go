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
	"io/fs"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/status"
)

// NewHistoryCmd creates a new history command
func NewHistoryCmd(opts *opts.RootOpts) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List rename batches recorded in the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// the journal may come from --journal alone
			job, err := opts.Job(ctx)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				job = nil
			}

			jr, err := opts.OpenJournal(ctx, job)
			if err != nil {
				return err
			}
			if jr == nil {
				return errors.Errorf("no journal configured: set journal in the job or pass --journal")
			}
			defer jr.Close()

			batches, err := jr.Batches(ctx, limit)
			if err != nil {
				return errors.Errorf("listing batches: %w", err)
			}
			return status.RenderHistory(cmd.OutOrStdout(), batches)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of batches to show, 0 for all")

	return cmd
}
