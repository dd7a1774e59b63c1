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

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/renamerc/pkg/plan"
)

// 🏃 Runner executes batches either inline or on a background goroutine
type Runner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a new runner. A nil logger keeps whatever logger
// the context passed to Run already carries.
func NewRunner(logger *zerolog.Logger, async bool) *Runner {
	return &Runner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes the batch and waits for it to finish
func (r *Runner) Run(ctx context.Context, exec *Executor, items []plan.Item, opts Options) (Result, error) {
	if r.async {
		return r.Start(ctx, exec, items, opts).Wait()
	}
	return r.runSync(ctx, exec, items, opts)
}

// 🔄 runSync runs the batch on the calling goroutine
func (r *Runner) runSync(ctx context.Context, exec *Executor, items []plan.Item, opts Options) (Result, error) {
	if r.logger != nil {
		ctx = r.logger.WithContext(ctx)
	}
	return exec.Execute(ctx, items, opts)
}

// ⚡ Handle is a batch running in the background
type Handle struct {
	group  *errgroup.Group
	cancel context.CancelFunc
	result Result
}

// Start launches the batch on a background goroutine and returns at once.
// Progress arrives through the executor's Reporter.
func (r *Runner) Start(ctx context.Context, exec *Executor, items []plan.Item, opts Options) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)

	h := &Handle{group: group, cancel: cancel}
	group.Go(func() error {
		zerolog.Ctx(gctx).Debug().Int("items", len(items)).Msg("starting background batch")
		res, err := r.runSync(gctx, exec, items, opts)
		h.result = res
		return err
	})
	return h
}

// Cancel asks the batch to stop before its next item
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the batch has stopped. It never returns while a rename
// is still in flight, so the Result always matches the disk.
func (h *Handle) Wait() (Result, error) {
	err := h.group.Wait()
	h.cancel()
	return h.result, err
}
