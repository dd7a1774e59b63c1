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
	"github.com/walteh/renamerc/pkg/plan"
)

// 📊 Status classifies a plan item for display
type Status int

const (
	StatusUnknown    Status = iota
	StatusRename            // In scope and the name changes
	StatusUnchanged         // In scope but the rules produced the same name
	StatusOutOfScope        // Filtered out by the conditions
	StatusInvalid           // The new name cannot be used on disk
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusRename:
		return "rename"
	case StatusUnchanged:
		return "unchanged"
	case StatusOutOfScope:
		return "out of scope"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Of classifies a single plan item
func Of(it plan.Item) Status {
	switch {
	case !it.InScope:
		return StatusOutOfScope
	case it.NewName == it.OriginalName:
		return StatusUnchanged
	case plan.InvalidNameReason(it.NewName) != "":
		return StatusInvalid
	default:
		return StatusRename
	}
}
