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
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/catalog"
	"github.com/walteh/renamerc/pkg/condition"
	"github.com/walteh/renamerc/pkg/journal"
	"github.com/walteh/renamerc/pkg/manifest"
	"github.com/walteh/renamerc/pkg/plan"
	"github.com/walteh/renamerc/pkg/rule"
)

// 🔧 countingFs counts renames so tests can prove none happened
type countingFs struct {
	afero.Fs
	renames int
}

func (c *countingFs) Rename(oldname, newname string) error {
	c.renames++
	return c.Fs.Rename(oldname, newname)
}

// 🔧 MockReporter is a mock implementation of Reporter
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) StartOperation(ctx context.Context, total int) {
	m.Called(ctx, total)
}

func (m *MockReporter) ReportItem(ctx context.Context, outcome Outcome) {
	m.Called(ctx, outcome)
}

func (m *MockReporter) UpdateProgress(ctx context.Context, processed int) {
	m.Called(ctx, processed)
}

func (m *MockReporter) FinishOperation(ctx context.Context) {
	m.Called(ctx)
}

// 🔧 MockJournal is a mock implementation of Journal
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) BeginBatch(ctx context.Context, total int) (string, error) {
	args := m.Called(ctx, total)
	return args.String(0), args.Error(1)
}

func (m *MockJournal) RecordRename(ctx context.Context, batchID, oldPath, newPath string) error {
	return m.Called(ctx, batchID, oldPath, newPath).Error(0)
}

func (m *MockJournal) FinishBatch(ctx context.Context, batchID string, renamed, failed int) error {
	return m.Called(ctx, batchID, renamed, failed).Error(0)
}

func setup(t *testing.T, files ...string) (*countingFs, *catalog.Catalog) {
	t.Helper()
	fsys := &countingFs{Fs: afero.NewMemMapFs()}
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, f, []byte("content of "+f), 0644), "writing %s should succeed", f)
	}
	cat := catalog.New(fsys)
	cat.Add(files)
	return fsys, cat
}

func item(path, newName string) plan.Item {
	return plan.Item{
		OriginalName: filepath.Base(path),
		NewName:      newName,
		OriginalPath: path,
		InScope:      true,
	}
}

func assertExists(t *testing.T, fsys afero.Fs, path string, want bool) {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	require.NoError(t, err, "stat %s should succeed", path)
	assert.Equal(t, want, ok, "existence of %s should match", path)
}

func TestExecuteRenamesAndUpdatesCatalog(t *testing.T) {
	ctx := context.Background()
	fsys, cat := setup(t, "/d/a.txt", "/d/b.txt")

	items := plan.Generate(cat, rule.Config{
		Method:    rule.MethodNumbering,
		Numbering: rule.NumberingConfig{Start: 1, Digits: 3, Position: rule.PositionPrefix},
	}, condition.Config{})

	res, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, items, Options{})
	require.NoError(t, err, "execute should succeed")

	assert.Equal(t, 2, res.SuccessCount, "both files should be renamed")
	assert.Empty(t, res.Errors, "no errors expected")
	assert.Equal(t, []Pair{
		{Old: "/d/a.txt", New: "/d/001_a.txt"},
		{Old: "/d/b.txt", New: "/d/002_b.txt"},
	}, res.RenamedPairs, "renamed pairs should match")

	assertExists(t, fsys, "/d/001_a.txt", true)
	assertExists(t, fsys, "/d/a.txt", false)
	assert.True(t, cat.Contains("/d/001_a.txt"), "catalog should track the new path")
	assert.False(t, cat.Contains("/d/a.txt"), "catalog should drop the old path")

	content, err := afero.ReadFile(fsys, "/d/002_b.txt")
	require.NoError(t, err, "renamed file should be readable")
	assert.Equal(t, "content of /d/b.txt", string(content), "content should move with the file")
}

func TestExecuteTargetExists(t *testing.T) {
	ctx := context.Background()
	fsys, cat := setup(t, "/d/x.jpg", "/d/a.jpg")

	res, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, []plan.Item{item("/d/x.jpg", "a.jpg")}, Options{})
	require.NoError(t, err, "per item failures should not fail execute")

	assert.Equal(t, 0, res.SuccessCount, "nothing should be renamed")
	require.Len(t, res.Errors, 1, "one error expected")
	assert.Contains(t, res.Errors[0], "already exists", "error should explain the collision")
	assert.Contains(t, res.Errors[0], "x.jpg", "error should name the file")
	require.Len(t, res.Outcomes, 1, "one outcome expected")
	assert.Equal(t, StateFailed, res.Outcomes[0].State, "item should fail")
	assert.True(t, errors.Is(res.Outcomes[0].Err, ErrTargetExists), "error should wrap ErrTargetExists")

	assert.Equal(t, 0, fsys.renames, "no rename should be attempted")
	content, err := afero.ReadFile(fsys, "/d/a.jpg")
	require.NoError(t, err, "existing target should remain")
	assert.Equal(t, "content of /d/a.jpg", string(content), "existing target should be untouched")
	assertExists(t, fsys, "/d/x.jpg", true)
}

func TestExecuteSkipsWithoutTouchingDisk(t *testing.T) {
	ctx := context.Background()
	fsys, cat := setup(t, "/d/a.txt", "/d/b.txt")

	items := []plan.Item{
		item("/d/a.txt", "a.txt"),
		{OriginalName: "b.txt", NewName: "b.txt", OriginalPath: "/d/b.txt", InScope: false},
	}

	res, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, items, Options{BackupDir: "/bak"})
	require.NoError(t, err, "execute should succeed")

	assert.Equal(t, 2, res.Skipped, "both items should be skipped")
	assert.Equal(t, 0, fsys.renames, "no rename should be attempted")
	assert.Equal(t, StateSkippedUnchanged, res.Outcomes[0].State, "same name should be unchanged")
	assert.Equal(t, StateSkippedOutOfScope, res.Outcomes[1].State, "filtered item should be out of scope")
	assertExists(t, fsys, "/bak", false)
}

func TestExecutePartialFailure(t *testing.T) {
	ctx := context.Background()
	fsys, cat := setup(t, "/d/a.txt", "/d/c.txt", "/d/d.txt")

	items := []plan.Item{
		item("/d/a.txt", "a2.txt"),
		item("/d/missing.txt", "m2.txt"),
		item("/d/c.txt", "c2.txt"),
		item("/d/d.txt", "d.txt"),
	}

	res, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, items, Options{})
	require.NoError(t, err, "execute should succeed")

	assert.Equal(t, 2, res.SuccessCount, "items around the failure should be renamed")
	require.Len(t, res.Errors, 1, "one failure expected")
	assert.Contains(t, res.Errors[0], "missing.txt", "error should name the failed file")
	assert.Equal(t, 1, res.Skipped, "unchanged item should be skipped")
	assert.Equal(t, len(items), res.SuccessCount+len(res.Errors)+res.Skipped, "every item should be accounted for")
	assertExists(t, fsys, "/d/c2.txt", true)
}

func TestExecuteBackupAndManifest(t *testing.T) {
	ctx := context.Background()
	fsys, cat := setup(t, "/d/a.txt", "/e/a.txt")

	items := []plan.Item{item("/d/a.txt", "b.txt"), item("/e/a.txt", "c.txt")}

	res, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, items, Options{BackupDir: "/bak", WriteManifest: true})
	require.NoError(t, err, "execute should succeed")
	require.Equal(t, 2, res.SuccessCount, "both files should be renamed")

	first, err := afero.ReadFile(fsys, "/bak/a.txt")
	require.NoError(t, err, "first backup should exist")
	assert.Equal(t, "content of /d/a.txt", string(first), "first backup should hold the original content")

	second, err := afero.ReadFile(fsys, "/bak/a_1.txt")
	require.NoError(t, err, "second backup should not overwrite the first")
	assert.Equal(t, "content of /e/a.txt", string(second), "second backup should hold its own content")

	require.NotEmpty(t, res.ManifestPath, "manifest should be written")
	m, err := manifest.Read(ctx, fsys, res.ManifestPath)
	require.NoError(t, err, "manifest should be readable")
	assert.Equal(t, []manifest.Change{
		{Old: "/d/a.txt", New: "/d/b.txt"},
		{Old: "/e/a.txt", New: "/e/c.txt"},
	}, m.Changes, "manifest should list the renames")
}

func TestExecuteBackupDirFatal(t *testing.T) {
	ctx := context.Background()
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/d/a.txt", []byte("a"), 0644), "setup should succeed")
	fsys := &countingFs{Fs: afero.NewReadOnlyFs(base)}

	res, err := NewExecutor(ExecutorOptions{Fs: fsys}).Execute(ctx, []plan.Item{item("/d/a.txt", "b.txt")}, Options{BackupDir: "/bak"})
	require.Error(t, err, "uncreatable backup dir should be fatal")
	assert.True(t, errors.Is(err, ErrBackupDir), "error should wrap ErrBackupDir")
	assert.Empty(t, res.Outcomes, "no item should be processed")
	assert.Equal(t, 0, fsys.renames, "no rename should be attempted")
}

func TestExecuteDuplicateSource(t *testing.T) {
	ctx := context.Background()
	fsys, cat := setup(t, "/d/a.txt")

	items := []plan.Item{item("/d/a.txt", "b.txt"), item("/d/a.txt", "c.txt")}

	_, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, items, Options{})
	require.Error(t, err, "duplicate source should be fatal")
	assert.True(t, errors.Is(err, ErrDuplicateSource), "error should wrap ErrDuplicateSource")
	assert.Equal(t, 0, fsys.renames, "no rename should be attempted")
}

func TestExecuteCancelled(t *testing.T) {
	t.Run("before_start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fsys, cat := setup(t, "/d/a.txt")

		res, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, []plan.Item{item("/d/a.txt", "b.txt")}, Options{})
		require.Error(t, err, "cancelled batch should report an error")
		assert.True(t, errors.Is(err, context.Canceled), "error should wrap context.Canceled")
		assert.True(t, res.Cancelled, "result should be marked cancelled")
		assert.Equal(t, 0, fsys.renames, "nothing should be renamed")
	})

	t.Run("mid_batch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		fsys, cat := setup(t, "/d/a.txt", "/d/b.txt", "/d/c.txt")

		reporter := &MockReporter{}
		reporter.On("StartOperation", mock.Anything, 3).Return()
		reporter.On("ReportItem", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return()
		reporter.On("UpdateProgress", mock.Anything, mock.Anything).Return()
		reporter.On("FinishOperation", mock.Anything).Return()

		items := []plan.Item{item("/d/a.txt", "a2.txt"), item("/d/b.txt", "b2.txt"), item("/d/c.txt", "c2.txt")}
		res, err := NewExecutor(ExecutorOptions{Catalog: cat, Reporter: reporter}).Execute(ctx, items, Options{})
		require.Error(t, err, "cancelled batch should report an error")

		assert.True(t, res.Cancelled, "result should be marked cancelled")
		assert.Equal(t, 1, res.SuccessCount, "the first item should stay renamed")
		assert.Len(t, res.Outcomes, 1, "later items should not be processed")
		assert.Equal(t, 1, fsys.renames, "only one rename should happen")
		assertExists(t, fsys, "/d/a2.txt", true)
		assertExists(t, fsys, "/d/b.txt", true)
		reporter.AssertCalled(t, "FinishOperation", mock.Anything)
	})
}

func TestExecuteReportsProgress(t *testing.T) {
	ctx := context.Background()
	_, cat := setup(t, "/d/a.txt", "/d/b.txt")

	reporter := &MockReporter{}
	reporter.On("StartOperation", mock.Anything, 2).Return().Once()
	reporter.On("ReportItem", mock.Anything, mock.MatchedBy(func(o Outcome) bool { return o.State == StateRenamed })).Return().Once()
	reporter.On("ReportItem", mock.Anything, mock.MatchedBy(func(o Outcome) bool { return o.State == StateSkippedUnchanged })).Return().Once()
	reporter.On("UpdateProgress", mock.Anything, 1).Return().Once()
	reporter.On("UpdateProgress", mock.Anything, 2).Return().Once()
	reporter.On("FinishOperation", mock.Anything).Return().Once()

	items := []plan.Item{item("/d/a.txt", "z.txt"), item("/d/b.txt", "b.txt")}
	_, err := NewExecutor(ExecutorOptions{Catalog: cat, Reporter: reporter}).Execute(ctx, items, Options{})
	require.NoError(t, err, "execute should succeed")

	reporter.AssertExpectations(t)
}

func TestExecuteJournal(t *testing.T) {
	ctx := context.Background()
	_, cat := setup(t, "/d/a.txt", "/d/b.txt")

	journal := &MockJournal{}
	journal.On("BeginBatch", mock.Anything, 2).Return("batch-1", nil).Once()
	journal.On("RecordRename", mock.Anything, "batch-1", "/d/a.txt", "/d/a2.txt").Return(nil).Once()
	journal.On("FinishBatch", mock.Anything, "batch-1", 1, 1).Return(nil).Once()

	items := []plan.Item{item("/d/a.txt", "a2.txt"), item("/d/gone.txt", "g.txt")}
	res, err := NewExecutor(ExecutorOptions{Catalog: cat, Journal: journal}).Execute(ctx, items, Options{})
	require.NoError(t, err, "execute should succeed")

	assert.Equal(t, "batch-1", res.BatchID, "result should carry the batch id")
	journal.AssertExpectations(t)
}

// 🔧 cancelOnRenameFs cancels the batch context while a rename is in flight
type cancelOnRenameFs struct {
	afero.Fs
	cancel context.CancelFunc
}

func (c *cancelOnRenameFs) Rename(oldname, newname string) error {
	c.cancel()
	return c.Fs.Rename(oldname, newname)
}

func TestExecuteJournalSurvivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jr, err := journal.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err, "opening journal should succeed")
	defer jr.Close()

	fsys := &cancelOnRenameFs{Fs: afero.NewMemMapFs(), cancel: cancel}
	for _, f := range []string{"/d/a.txt", "/d/b.txt"} {
		require.NoError(t, afero.WriteFile(fsys, f, []byte(f), 0644), "writing %s should succeed", f)
	}
	cat := catalog.New(fsys)
	cat.Add([]string{"/d/a.txt", "/d/b.txt"})

	items := []plan.Item{item("/d/a.txt", "x.txt"), item("/d/b.txt", "y.txt")}
	res, err := NewExecutor(ExecutorOptions{Catalog: cat, Journal: jr}).Execute(ctx, items, Options{})
	require.Error(t, err, "cancelled batch should report an error")
	require.True(t, res.Cancelled, "result should be marked cancelled")
	require.Equal(t, 1, res.SuccessCount, "the in-flight rename should complete")
	assertExists(t, fsys, "/d/x.txt", true)

	bg := context.Background()
	changes, err := jr.Changes(bg, res.BatchID)
	require.NoError(t, err, "reading changes should succeed")
	assert.Equal(t, []manifest.Change{{Old: "/d/a.txt", New: "/d/x.txt"}}, changes, "the rename should be journaled")

	latest, err := jr.Latest(bg)
	require.NoError(t, err, "the cancelled batch should be undoable")
	assert.Equal(t, res.BatchID, latest.ID, "latest batch should be the cancelled one")
	assert.False(t, latest.Interrupted(), "the batch should be finished")
	assert.Equal(t, 1, latest.Renamed, "the batch should count the rename")
}

func TestExecuteJournalSkippedWhenNothingChanges(t *testing.T) {
	ctx := context.Background()
	_, cat := setup(t, "/d/a.txt")

	journal := &MockJournal{}
	res, err := NewExecutor(ExecutorOptions{Catalog: cat, Journal: journal}).Execute(ctx, []plan.Item{item("/d/a.txt", "a.txt")}, Options{})
	require.NoError(t, err, "execute should succeed")

	assert.Empty(t, res.BatchID, "no batch should be opened")
	journal.AssertNotCalled(t, "BeginBatch", mock.Anything, mock.Anything)
}

func TestUndo(t *testing.T) {
	ctx := context.Background()
	fsys, cat := setup(t, "/d/a.txt", "/d/b.txt")
	exec := NewExecutor(ExecutorOptions{Catalog: cat})

	items := []plan.Item{item("/d/a.txt", "b2.txt"), item("/d/b.txt", "c2.txt")}
	res, err := exec.Execute(ctx, items, Options{BackupDir: "/bak", WriteManifest: true})
	require.NoError(t, err, "execute should succeed")

	m, err := manifest.Read(ctx, fsys, res.ManifestPath)
	require.NoError(t, err, "manifest should be readable")

	undone, err := exec.Undo(ctx, m)
	require.NoError(t, err, "undo should succeed")

	assert.Equal(t, 2, undone.SuccessCount, "both renames should be reversed")
	assertExists(t, fsys, "/d/a.txt", true)
	assertExists(t, fsys, "/d/b.txt", true)
	assertExists(t, fsys, "/d/b2.txt", false)
	assert.True(t, cat.Contains("/d/a.txt"), "catalog should follow the undo")
}

func TestUndoRejectsCrossDirectoryChanges(t *testing.T) {
	_, cat := setup(t)
	m := &manifest.Manifest{Changes: []manifest.Change{{Old: "/d/a.txt", New: "/e/a.txt"}}}

	_, err := NewExecutor(ExecutorOptions{Catalog: cat}).Undo(context.Background(), m)
	require.Error(t, err, "moves are not renames")
}

func TestExecuteCaseOnlyRenameOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	require.NoError(t, afero.WriteFile(afero.NewOsFs(), src, []byte("x"), 0644), "setup should succeed")

	cat := catalog.New(afero.NewOsFs())
	require.Equal(t, 1, cat.Add([]string{src}), "file should be added")

	res, err := NewExecutor(ExecutorOptions{Catalog: cat}).Execute(ctx, []plan.Item{item(src, "PHOTO.jpg")}, Options{})
	require.NoError(t, err, "execute should succeed")

	assert.Equal(t, 1, res.SuccessCount, "case-only rename should succeed on any filesystem")
	assert.True(t, cat.Contains(filepath.Join(dir, "PHOTO.jpg")), "catalog should track the new case")
}
