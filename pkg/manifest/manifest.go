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

// Package manifest persists the old and new paths of a rename batch so the
// batch can be reversed later.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const (
	filePrefix = "rename_manifest_"
	fileLayout = "20060102_150405"
)

// ErrNoManifest is returned by Latest when a directory holds no manifest
var ErrNoManifest = errors.Base("no manifest found")

// 🔁 Change is one rename, stored on disk as a two element array [old, new]
type Change struct {
	Old string
	New string
}

func (c Change) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.Old, c.New})
}

func (c *Change) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Errorf("decoding change: %w", err)
	}
	if len(pair) != 2 {
		return errors.Errorf("change must have 2 elements, got %d", len(pair))
	}
	c.Old, c.New = pair[0], pair[1]
	return nil
}

// 📜 Manifest records a finished batch
type Manifest struct {
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Changes   []Change  `json:"changes"`
}

// 🏭 New creates a manifest stamped with the current time
func New(changes []Change) *Manifest {
	return &Manifest{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Changes:   changes,
	}
}

// Reversed returns the changes needed to undo the batch, last rename first
func (m *Manifest) Reversed() []Change {
	out := make([]Change, 0, len(m.Changes))
	for i := len(m.Changes) - 1; i >= 0; i-- {
		out = append(out, Change{Old: m.Changes[i].New, New: m.Changes[i].Old})
	}
	return out
}

// FileName returns the manifest file name for a batch finished at t
func FileName(t time.Time) string {
	return filePrefix + t.Format(fileLayout) + ".json"
}

// 💾 Write stores m in dir and returns the path written. Batches finishing in
// the same second get a numeric suffix instead of overwriting each other.
func Write(ctx context.Context, fsys afero.Fs, dir string, m *Manifest) (string, error) {
	logger := zerolog.Ctx(ctx)

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", errors.Errorf("creating manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.Errorf("encoding manifest: %w", err)
	}

	name := FileName(m.Timestamp)
	path := filepath.Join(dir, name)
	for n := 1; ; n++ {
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return "", errors.Errorf("checking manifest path: %w", err)
		}
		if !exists {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.json", name[:len(name)-len(".json")], n))
	}

	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return "", errors.Errorf("writing manifest: %w", err)
	}

	logger.Debug().Str("path", path).Int("changes", len(m.Changes)).Msg("wrote manifest")
	return path, nil
}

// 📖 Read loads a manifest from path
func Read(ctx context.Context, fsys afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Errorf("decoding manifest %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("changes", len(m.Changes)).Msg("read manifest")
	return &m, nil
}

// Latest returns the path of the newest manifest in dir
func Latest(fsys afero.Fs, dir string) (string, error) {
	matches, err := afero.Glob(fsys, filepath.Join(dir, filePrefix+"*.json"))
	if err != nil {
		return "", errors.Errorf("listing manifests: %w", err)
	}
	if len(matches) == 0 {
		return "", errors.Errorf("%w in %s", ErrNoManifest, dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
