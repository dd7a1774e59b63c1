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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/operation"
	"github.com/walteh/renamerc/pkg/plan"
	"github.com/walteh/renamerc/pkg/status"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	var dryRun, async, quiet, force bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Rename the files of the configured job",
		Long: `Apply builds the rename plan and executes it.
It will:
1. Collect the files named by the job
2. Generate the plan and refuse names that cannot exist on disk (unless --force)
3. Back up each file when a backup directory is set
4. Rename each file, recording it in the journal when one is configured
5. Write a manifest into the backup directory when asked to`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			job, err := opts.Job(ctx)
			if err != nil {
				return err
			}

			cat, err := job.Catalog(ctx, opts.Fs)
			if err != nil {
				return errors.Errorf("building catalog: %w", err)
			}

			items := job.Plan(cat)

			if dryRun {
				return status.RenderPreview(cmd.OutOrStdout(), items, false)
			}

			summary := plan.Summarize(items)
			if len(summary.Invalid) > 0 && !force {
				for _, inv := range summary.Invalid {
					opts.Console.Warningf("%s → %s: %s", inv.Item.OriginalName, inv.Item.NewName, inv.Reason)
				}
				return errors.Errorf("plan has %d invalid names, fix the rule or pass --force", len(summary.Invalid))
			}
			if summary.Changed == 0 {
				opts.Console.Info("nothing to rename")
				return nil
			}

			jr, err := opts.OpenJournal(ctx, job)
			if err != nil {
				return err
			}
			if jr != nil {
				defer jr.Close()
			}

			var reporter operation.Reporter = opts.Console
			if quiet {
				reporter = status.NewTracker()
			}

			exec := opts.Executor(operation.ExecutorOptions{Catalog: cat, Reporter: reporter}, jr)
			runner := operation.NewRunner(nil, async)

			res, err := runner.Run(ctx, exec, items, operation.Options{
				BackupDir:     job.BackupDir,
				WriteManifest: job.Manifest,
			})
			if res.ManifestPath != "" {
				opts.Console.Infof("manifest written to %s", res.ManifestPath)
			}
			if err != nil {
				return errors.Errorf("applying plan: %w", err)
			}
			if len(res.Errors) > 0 {
				return errors.Errorf("%d of %d renames failed", len(res.Errors), summary.Changed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without renaming")
	cmd.Flags().BoolVar(&async, "async", false, "run the batch in the background")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "log progress instead of printing each file")
	cmd.Flags().BoolVar(&force, "force", false, "apply even when some new names are invalid")

	return cmd
}
