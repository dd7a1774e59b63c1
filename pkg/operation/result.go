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
	"github.com/walteh/renamerc/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrTargetExists marks an item whose new path is already taken on disk
	ErrTargetExists = errors.Base("already exists")
	// ErrDuplicateSource means the plan lists one source path twice
	ErrDuplicateSource = errors.Base("duplicate source path in plan")
	// ErrBackupDir means the backup directory could not be created
	ErrBackupDir = errors.Base("backup directory unavailable")
)

// 🚦 State is the terminal state of one plan item
type State int

const (
	StateRenamed State = iota
	StateSkippedUnchanged
	StateSkippedOutOfScope
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRenamed:
		return "renamed"
	case StateSkippedUnchanged:
		return "unchanged"
	case StateSkippedOutOfScope:
		return "out of scope"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pair is an applied rename
type Pair struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// 📌 Outcome is what happened to one plan item
type Outcome struct {
	Item  plan.Item
	State State
	Err   error
}

// 📊 Result summarizes one Execute call.
// For a batch that was not cancelled SuccessCount+len(Errors)+Skipped
// equals the number of plan items.
type Result struct {
	SuccessCount int
	Errors       []string // "name: message", one per failed item
	RenamedPairs []Pair
	Skipped      int
	Cancelled    bool
	Outcomes     []Outcome
	ManifestPath string
	BatchID      string // journal batch, empty without a journal
}

func (r *Result) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.State {
	case StateRenamed:
		r.SuccessCount++
		r.RenamedPairs = append(r.RenamedPairs, Pair{Old: o.Item.OriginalPath, New: o.Item.NewPath()})
	case StateFailed:
		r.Errors = append(r.Errors, o.Item.OriginalName+": "+o.Err.Error())
	default:
		r.Skipped++
	}
}

// ⚙️ Options configures one Execute call
type Options struct {
	// BackupDir receives a copy of every file before it is renamed. Empty disables backups.
	BackupDir string
	// WriteManifest stores a manifest of the batch in BackupDir
	WriteManifest bool
}
