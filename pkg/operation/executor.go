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

package operation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/catalog"
	"github.com/walteh/renamerc/pkg/manifest"
	"github.com/walteh/renamerc/pkg/plan"
)

// 🔧 ExecutorOptions wires an Executor. Every field is optional.
type ExecutorOptions struct {
	// Fs defaults to the catalog's filesystem, or the OS filesystem without a catalog
	Fs afero.Fs
	// Catalog gets its paths updated after each successful rename
	Catalog *catalog.Catalog
	// Reporter defaults to NopReporter
	Reporter Reporter
	// Journal records every rename as it happens
	Journal Journal
}

// 🏃 Executor applies rename plans. It is owned by the caller and holds no
// global state; one Execute call should run at a time.
type Executor struct {
	fs       afero.Fs
	catalog  *catalog.Catalog
	reporter Reporter
	journal  Journal
}

// 🏭 NewExecutor creates an executor from opts
func NewExecutor(opts ExecutorOptions) *Executor {
	e := &Executor{
		fs:       opts.Fs,
		catalog:  opts.Catalog,
		reporter: opts.Reporter,
		journal:  opts.Journal,
	}
	if e.fs == nil {
		if e.catalog != nil {
			e.fs = e.catalog.Fs()
		} else {
			e.fs = afero.NewOsFs()
		}
	}
	if e.reporter == nil {
		e.reporter = NopReporter{}
	}
	return e
}

// 🚀 Execute applies items in order. Per item failures end up in the
// Result; the returned error is reserved for problems that stop the batch
// before any rename, a cancelled context or a manifest that could not be
// written. The Result is always complete for the items that were processed.
func (e *Executor) Execute(ctx context.Context, items []plan.Item, opts Options) (Result, error) {
	logger := zerolog.Ctx(ctx)
	var res Result

	if err := e.preflight(items, opts); err != nil {
		return res, err
	}

	if e.journal != nil && countChanged(items) > 0 {
		id, err := e.journal.BeginBatch(ctx, len(items))
		if err != nil {
			return res, errors.Errorf("starting journal batch: %w", err)
		}
		res.BatchID = id
	}

	logger.Debug().Int("items", len(items)).Str("backup_dir", opts.BackupDir).Msg("executing rename plan")

	e.reporter.StartOperation(ctx, len(items))
	for i, item := range items {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}

		outcome := e.apply(ctx, item, opts, res.BatchID)
		res.record(outcome)

		e.reporter.ReportItem(ctx, outcome)
		e.reporter.UpdateProgress(ctx, i+1)
	}
	e.reporter.FinishOperation(ctx)

	// a cancelled batch still closes its journal entry
	if res.BatchID != "" {
		if err := e.journal.FinishBatch(context.WithoutCancel(ctx), res.BatchID, res.SuccessCount, len(res.Errors)); err != nil {
			logger.Warn().Err(err).Str("batch", res.BatchID).Msg("finishing journal batch")
		}
	}

	if opts.WriteManifest && opts.BackupDir != "" && len(res.RenamedPairs) > 0 {
		path, err := manifest.Write(ctx, e.fs, opts.BackupDir, manifest.New(changes(res.RenamedPairs)))
		if err != nil {
			return res, errors.Errorf("writing manifest: %w", err)
		}
		res.ManifestPath = path
	}

	logger.Debug().
		Int("renamed", res.SuccessCount).
		Int("failed", len(res.Errors)).
		Int("skipped", res.Skipped).
		Bool("cancelled", res.Cancelled).
		Msg("rename plan finished")

	if res.Cancelled {
		return res, errors.Errorf("execution cancelled: %w", ctx.Err())
	}
	return res, nil
}

// ↩️ Undo reverses a manifest: every new path is renamed back to its old
// path, last rename first, with the same per item handling as Execute
func (e *Executor) Undo(ctx context.Context, m *manifest.Manifest) (Result, error) {
	reversed := m.Reversed()
	items := make([]plan.Item, 0, len(reversed))
	for _, c := range reversed {
		if filepath.Dir(c.Old) != filepath.Dir(c.New) {
			return Result{}, errors.Errorf("manifest change %s -> %s moves between directories", c.New, c.Old)
		}
		items = append(items, plan.Item{
			OriginalName: filepath.Base(c.Old),
			NewName:      filepath.Base(c.New),
			OriginalPath: c.Old,
			InScope:      true,
		})
	}
	return e.Execute(ctx, items, Options{})
}

// preflight rejects plans that must not touch the disk at all
func (e *Executor) preflight(items []plan.Item, opts Options) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.OriginalPath]; dup {
			return errors.Errorf("%w: %s", ErrDuplicateSource, it.OriginalPath)
		}
		seen[it.OriginalPath] = struct{}{}
	}

	if opts.BackupDir != "" && countChanged(items) > 0 {
		if err := e.fs.MkdirAll(opts.BackupDir, 0755); err != nil {
			return errors.Errorf("%w: %s: %v", ErrBackupDir, opts.BackupDir, err)
		}
	}
	return nil
}

// apply runs the state machine for one item
func (e *Executor) apply(ctx context.Context, item plan.Item, opts Options, batchID string) Outcome {
	logger := zerolog.Ctx(ctx).With().Str("file", item.OriginalPath).Logger()

	if !item.InScope {
		return Outcome{Item: item, State: StateSkippedOutOfScope}
	}
	if item.NewName == item.OriginalName {
		return Outcome{Item: item, State: StateSkippedUnchanged}
	}

	failed := func(err error) Outcome {
		logger.Debug().Err(err).Msg("rename failed")
		return Outcome{Item: item, State: StateFailed, Err: err}
	}

	target := item.NewPath()
	if err := e.checkTarget(item.OriginalPath, target); err != nil {
		return failed(err)
	}

	if opts.BackupDir != "" {
		dst, err := backup(e.fs, opts.BackupDir, item.OriginalPath)
		if err != nil {
			return failed(err)
		}
		logger.Debug().Str("backup", dst).Msg("backed up original")
	}

	if err := e.fs.Rename(item.OriginalPath, target); err != nil {
		return failed(errors.Errorf("renaming: %w", err))
	}

	if e.catalog != nil {
		e.catalog.UpdatePath(item.OriginalPath, target)
	}

	if batchID != "" {
		// the rename already happened on disk, so record it even after a cancel
		if err := e.journal.RecordRename(context.WithoutCancel(ctx), batchID, item.OriginalPath, target); err != nil {
			logger.Warn().Err(err).Msg("recording rename in journal")
		}
	}

	logger.Debug().Str("target", target).Msg("renamed")
	return Outcome{Item: item, State: StateRenamed}
}

// checkTarget fails when target is taken by another file. A target that
// resolves to the source itself is a case-only rename on a case-insensitive
// filesystem and is allowed.
func (e *Executor) checkTarget(source, target string) error {
	targetInfo, err := e.fs.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("checking target: %w", err)
	}

	if sourceInfo, err := e.fs.Stat(source); err == nil && os.SameFile(sourceInfo, targetInfo) {
		return nil
	}
	return errors.Errorf("%w: %s", ErrTargetExists, target)
}

func countChanged(items []plan.Item) int {
	n := 0
	for _, it := range items {
		if it.Changed() {
			n++
		}
	}
	return n
}

func changes(pairs []Pair) []manifest.Change {
	out := make([]manifest.Change, len(pairs))
	for i, p := range pairs {
		out[i] = manifest.Change{Old: p.Old, New: p.New}
	}
	return out
}
