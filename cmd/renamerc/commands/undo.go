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
	"context"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/journal"
	"github.com/walteh/renamerc/pkg/manifest"
	"github.com/walteh/renamerc/pkg/operation"
)

// NewUndoCmd creates a new undo command
func NewUndoCmd(opts *opts.RootOpts) *cobra.Command {
	var last bool

	cmd := &cobra.Command{
		Use:   "undo [manifest]",
		Short: "Reverse a previous rename batch",
		Long: `Undo renames every file of a batch back to its old name, last rename first.
The batch comes from a manifest file, or with --last from the journal (when
configured) or the newest manifest in the backup directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "undo").Logger().WithContext(ctx)

			if last == (len(args) == 1) {
				return errors.Errorf("pass either a manifest path or --last")
			}

			job, err := opts.Job(ctx)
			if err != nil {
				// an explicit manifest does not need a job
				if last || !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				job = nil
			}

			jr, err := opts.OpenJournal(ctx, job)
			if err != nil {
				return err
			}
			if jr != nil {
				defer jr.Close()
			}

			var m *manifest.Manifest
			var batch journal.Batch
			switch {
			case len(args) == 1:
				m, err = manifest.Read(ctx, opts.Fs, args[0])
			case jr != nil:
				m, batch, err = lastFromJournal(ctx, jr)
			default:
				m, err = lastFromBackupDir(ctx, opts, job)
			}
			if err != nil {
				return err
			}

			exec := opts.Executor(operation.ExecutorOptions{Reporter: opts.Console}, jr)
			res, err := exec.Undo(ctx, m)
			if err != nil {
				return errors.Errorf("undoing batch: %w", err)
			}

			if batch.ID != "" && res.BatchID != "" {
				if err := jr.MarkUndone(ctx, batch.ID, res.BatchID); err != nil {
					opts.Console.Warningf("batch %s was undone but the journal was not updated: %v", batch.ID, err)
				}
			}

			if len(res.Errors) > 0 {
				return errors.Errorf("%d of %d renames could not be undone", len(res.Errors), len(m.Changes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "undo the most recent batch")

	return cmd
}

func lastFromJournal(ctx context.Context, jr *journal.Journal) (*manifest.Manifest, journal.Batch, error) {
	batch, err := jr.Latest(ctx)
	if err != nil {
		return nil, journal.Batch{}, errors.Errorf("finding last batch: %w", err)
	}
	m, err := jr.Manifest(ctx, batch)
	if err != nil {
		return nil, journal.Batch{}, errors.Errorf("reading batch %s: %w", batch.ID, err)
	}
	return m, batch, nil
}

func lastFromBackupDir(ctx context.Context, opts *opts.RootOpts, job *config.Job) (*manifest.Manifest, error) {
	if job == nil || job.BackupDir == "" {
		return nil, errors.Errorf("--last needs a journal or a backup_dir")
	}
	path, err := manifest.Latest(opts.Fs, job.BackupDir)
	if err != nil {
		return nil, errors.Errorf("finding last manifest: %w", err)
	}
	return manifest.Read(ctx, opts.Fs, path)
}
