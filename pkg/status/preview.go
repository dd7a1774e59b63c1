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
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/journal"
	"github.com/walteh/renamerc/pkg/plan"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// 🖼️ RenderPreview writes the dry-run table followed by a summary.
// Unless all is set, only rows that would change (or are invalid) are listed.
func RenderPreview(w io.Writer, items []plan.Item, all bool) error {
	data := pterm.TableData{{"#", "Original", "New", "Status"}}
	for i, it := range items {
		st := Of(it)
		if !all && st != StatusRename && st != StatusInvalid {
			continue
		}
		data = append(data, []string{strconv.Itoa(i + 1), it.OriginalName, it.NewName, st.String()})
	}

	if len(data) > 1 {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Errorf("rendering preview table: %w", err)
		}
		if _, err := fmt.Fprintln(w, table); err != nil {
			return errors.Errorf("writing preview: %w", err)
		}
	}

	summary := plan.Summarize(items)
	out := pterm.Info.WithPrefix(pterm.Prefix{Text: "📋"}).Sprintfln(
		"%d files: %d to rename, %d unchanged, %d out of scope",
		summary.Total, summary.Changed, summary.Unchanged, summary.OutOfScope)
	for _, inv := range summary.Invalid {
		out += pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Sprintfln(
			"%s → %s: %s", inv.Item.OriginalName, inv.Item.NewName, inv.Reason)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Errorf("writing preview summary: %w", err)
	}
	return nil
}

// 📜 RenderHistory writes journal batches, newest first as given
func RenderHistory(w io.Writer, batches []journal.Batch) error {
	if len(batches) == 0 {
		_, err := io.WriteString(w, pterm.Info.WithPrefix(pterm.Prefix{Text: "📜"}).Sprintln("no batches recorded"))
		if err != nil {
			return errors.Errorf("writing history: %w", err)
		}
		return nil
	}

	data := pterm.TableData{{"Batch", "Started", "Renamed", "Failed", "State"}}
	for _, b := range batches {
		data = append(data, []string{
			b.ID,
			b.StartedAt.Local().Format(historyTimeLayout),
			strconv.Itoa(b.Renamed),
			strconv.Itoa(b.Failed),
			batchState(b),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering history table: %w", err)
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return errors.Errorf("writing history: %w", err)
	}
	return nil
}

func batchState(b journal.Batch) string {
	switch {
	case b.UndoneBy != "":
		return "undone"
	case b.Interrupted():
		return "interrupted"
	default:
		return "done"
	}
}
