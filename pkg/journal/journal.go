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

// Package journal keeps a sqlite record of every rename as it happens, so a
// batch interrupted halfway can still be inspected and reversed.
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/manifest"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    total INTEGER NOT NULL DEFAULT 0,
    renamed INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    undone_by TEXT
);

CREATE TABLE IF NOT EXISTS renames (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id TEXT NOT NULL REFERENCES batches(id),
    old_path TEXT NOT NULL,
    new_path TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_renames_batch ON renames(batch_id);
`

// stampLayout has a fixed width so stored timestamps sort as text
const stampLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNoBatch is returned when no batch matches a lookup
var ErrNoBatch = errors.Base("no batch found")

// 📦 Batch is one recorded Execute call
type Batch struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the batch is running or was interrupted
	Total      int
	Renamed    int
	Failed     int
	UndoneBy   string
}

// Interrupted reports whether the batch never finished
func (b Batch) Interrupted() bool {
	return b.FinishedAt.IsZero()
}

// 📓 Journal is a sqlite backed rename log
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// 🏭 Open opens (or creates) the journal database at path
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Errorf("creating journal dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Errorf("opening sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Errorf("applying journal schema: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("opened journal")
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) stamp() string {
	return j.now().UTC().Format(stampLayout)
}

// BeginBatch starts a new batch and returns its id
func (j *Journal) BeginBatch(ctx context.Context, total int) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO batches (id, started_at, total) VALUES (?, ?, ?)`,
		id, j.stamp(), total)
	if err != nil {
		return "", errors.Errorf("inserting batch: %w", err)
	}
	return id, nil
}

// RecordRename appends one applied rename to a batch
func (j *Journal) RecordRename(ctx context.Context, batchID, oldPath, newPath string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO renames (batch_id, old_path, new_path, created_at) VALUES (?, ?, ?, ?)`,
		batchID, oldPath, newPath, j.stamp())
	if err != nil {
		return errors.Errorf("inserting rename: %w", err)
	}
	return nil
}

// FinishBatch stores the final counts of a batch
func (j *Journal) FinishBatch(ctx context.Context, batchID string, renamed, failed int) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE batches SET finished_at = ?, renamed = ?, failed = ? WHERE id = ?`,
		j.stamp(), renamed, failed, batchID)
	if err != nil {
		return errors.Errorf("updating batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Errorf("%w: %s", ErrNoBatch, batchID)
	}
	return nil
}

// MarkUndone links a batch to the batch that reversed it
func (j *Journal) MarkUndone(ctx context.Context, batchID, undoBatchID string) error {
	_, err := j.db.ExecContext(ctx, `UPDATE batches SET undone_by = ? WHERE id = ?`, undoBatchID, batchID)
	if err != nil {
		return errors.Errorf("marking batch undone: %w", err)
	}
	return nil
}

const batchColumns = `id, started_at, COALESCE(finished_at, ''), total, renamed, failed, COALESCE(undone_by, '')`

// 📋 Batches lists the newest batches first. limit <= 0 lists all of them.
func (j *Journal) Batches(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+batchColumns+` FROM batches ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("reading batches: %w", err)
	}
	return out, nil
}

// Latest returns the newest batch that has not been undone and is not itself an undo
func (j *Journal) Latest(ctx context.Context) (Batch, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+batchColumns+` FROM batches
		WHERE undone_by IS NULL
		AND id NOT IN (SELECT undone_by FROM batches WHERE undone_by IS NOT NULL)
		AND id IN (SELECT batch_id FROM renames)
		ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, errors.Errorf("%w to undo", ErrNoBatch)
	}
	return b, err
}

// Changes returns the renames of a batch in the order they happened
func (j *Journal) Changes(ctx context.Context, batchID string) ([]manifest.Change, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT old_path, new_path FROM renames WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, errors.Errorf("querying renames: %w", err)
	}
	defer rows.Close()

	var out []manifest.Change
	for rows.Next() {
		var c manifest.Change
		if err := rows.Scan(&c.Old, &c.New); err != nil {
			return nil, errors.Errorf("scanning rename: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("reading renames: %w", err)
	}
	return out, nil
}

// Manifest builds an undo-ready manifest from a recorded batch
func (j *Journal) Manifest(ctx context.Context, b Batch) (*manifest.Manifest, error) {
	changes, err := j.Changes(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &manifest.Manifest{ID: b.ID, Timestamp: b.StartedAt, Changes: changes}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(s scanner) (Batch, error) {
	var b Batch
	var started, finished string
	if err := s.Scan(&b.ID, &started, &finished, &b.Total, &b.Renamed, &b.Failed, &b.UndoneBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, errors.Errorf("scanning batch: %w", err)
	}

	var err error
	if b.StartedAt, err = time.Parse(stampLayout, started); err != nil {
		return b, errors.Errorf("parsing started_at: %w", err)
	}
	if finished != "" {
		if b.FinishedAt, err = time.Parse(stampLayout, finished); err != nil {
			return b, errors.Errorf("parsing finished_at: %w", err)
		}
	}
	return b, nil
}
