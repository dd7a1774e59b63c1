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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/walteh/renamerc/pkg/operation"
)

// 🔧 Tracker reports batch progress through zerolog instead of the console.
// It implements operation.Reporter and remembers the last outcome per file.
type Tracker struct {
	formatter Formatter

	mu       sync.RWMutex
	outcomes map[string]operation.Outcome
	order    []string

	total     int
	processed int
}

// 🏭 NewTracker creates a tracker using the default formatter
func NewTracker() *Tracker {
	return &Tracker{
		formatter: NewDefaultFormatter(),
		outcomes:  make(map[string]operation.Outcome),
	}
}

func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.processed = 0
	zerolog.Ctx(ctx).Info().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) ReportItem(ctx context.Context, outcome operation.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	path := outcome.Item.OriginalPath
	if _, ok := t.outcomes[path]; !ok {
		t.order = append(t.order, path)
	}
	t.outcomes[path] = outcome

	if outcome.Err != nil {
		zerolog.Ctx(ctx).Error().Str("path", path).Msg(t.formatter.FormatError(outcome.Err))
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg(t.formatter.FormatItem(outcome.Item))
}

func (t *Tracker) UpdateProgress(ctx context.Context, processed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(processed, t.total))
}

func (t *Tracker) FinishOperation(ctx context.Context) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	zerolog.Ctx(ctx).Info().
		Int("processed", t.processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.processed, t.total))
}

// Outcome returns the recorded outcome for an original path
func (t *Tracker) Outcome(path string) (operation.Outcome, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o, ok := t.outcomes[path]
	return o, ok
}

// Outcomes returns recorded outcomes in the order they were first reported
func (t *Tracker) Outcomes() []operation.Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]operation.Outcome, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.outcomes[p])
	}
	return out
}

var _ operation.Reporter = (*Tracker)(nil)
