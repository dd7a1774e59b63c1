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

import "context"

// 📈 Reporter receives progress while a batch runs.
// Calls arrive from the goroutine running the batch.
type Reporter interface {
	StartOperation(ctx context.Context, total int)
	ReportItem(ctx context.Context, outcome Outcome)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// NopReporter discards all progress
type NopReporter struct{}

func (NopReporter) StartOperation(context.Context, int) {}
func (NopReporter) ReportItem(context.Context, Outcome) {}
func (NopReporter) UpdateProgress(context.Context, int) {}
func (NopReporter) FinishOperation(context.Context) {}

// 📓 Journal durably records renames as they happen
type Journal interface {
	BeginBatch(ctx context.Context, total int) (string, error)
	RecordRename(ctx context.Context, batchID, oldPath, newPath string) error
	FinishBatch(ctx context.Context, batchID string, renamed, failed int) error
}
