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

package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileEntry is one file in the working set
type FileEntry struct {
	Path    string    // Absolute path, the entry's identity
	Size    int64     // Size in bytes at add time
	ModTime time.Time // Modification time at add time
}

// Name returns the base name of the entry
func (e FileEntry) Name() string {
	return filepath.Base(e.Path)
}

// 📚 Catalog holds the ordered working set of files for a rename batch
type Catalog struct {
	fs      afero.Fs
	entries []FileEntry
	index   map[string]int
}

// 🏭 New creates an empty catalog backed by the given filesystem
func New(fsys afero.Fs) *Catalog {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Catalog{
		fs:    fsys,
		index: make(map[string]int),
	}
}

// Fs returns the filesystem the catalog checks paths against
func (c *Catalog) Fs() afero.Fs {
	return c.fs
}

// ➕ Add adds every path that is an existing regular file and not yet present.
// Missing, non-regular and duplicate paths are skipped silently.
func (c *Catalog) Add(paths []string) int {
	added := 0
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if _, ok := c.index[abs]; ok {
			continue
		}
		info, err := c.fs.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		c.index[abs] = len(c.entries)
		c.entries = append(c.entries, FileEntry{
			Path:    abs,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		added++
	}
	return added
}

// 📂 AddDir adds the regular files found in dir, descending into
// subdirectories when recursive is set. Files are added in lexical order.
func (c *Catalog) AddDir(ctx context.Context, dir string, recursive bool) (int, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("dir", dir).Bool("recursive", recursive).Msg("scanning directory")

	var paths []string
	err := afero.Walk(c.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return 0, errors.Errorf("walking %s: %w", dir, err)
	}

	sort.Strings(paths)
	return c.Add(paths), nil
}

// 🔍 AddGlob adds the files under root matching a doublestar pattern such as
// "**/*.jpg". The pattern is relative to root.
func (c *Catalog) AddGlob(ctx context.Context, root, pattern string) (int, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("root", root).Str("pattern", pattern).Msg("globbing files")

	if !doublestar.ValidatePattern(pattern) {
		return 0, errors.Errorf("invalid pattern %q", pattern)
	}

	sub := afero.NewIOFS(afero.NewBasePathFs(c.fs, root))
	matches, err := doublestar.Glob(sub, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return 0, errors.Errorf("globbing %s in %s: %w", pattern, root, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return c.Add(paths), nil
}

// ➖ RemoveByIndices removes the entries at the given positions. Indices are
// processed from highest to lowest; out-of-range and repeated ones are ignored.
func (c *Catalog) RemoveByIndices(indices []int) int {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	removed := 0
	last := -1
	for _, i := range sorted {
		if i < 0 || i >= len(c.entries) || i == last {
			continue
		}
		last = i
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		removed++
	}
	if removed > 0 {
		c.reindex()
	}
	return removed
}

// 🧹 Clear empties the catalog and returns how many entries it held
func (c *Catalog) Clear() int {
	n := len(c.entries)
	c.entries = nil
	c.index = make(map[string]int)
	return n
}

// 🔄 UpdatePath replaces the stored path of an entry after a rename.
// It returns false when oldPath is not in the catalog or newPath already is.
func (c *Catalog) UpdatePath(oldPath, newPath string) bool {
	i, ok := c.index[oldPath]
	if !ok {
		return false
	}
	if _, taken := c.index[newPath]; taken {
		return false
	}
	c.entries[i].Path = newPath
	delete(c.index, oldPath)
	c.index[newPath] = i
	return true
}

// Contains reports whether path is in the catalog
func (c *Catalog) Contains(path string) bool {
	_, ok := c.index[path]
	return ok
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in catalog order
func (c *Catalog) Entries() []FileEntry {
	out := make([]FileEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// SortNatural orders entries by base name so that "file2" sorts before "file10"
func (c *Catalog) SortNatural() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return NaturalLess(c.entries[i].Name(), c.entries[j].Name())
	})
	c.reindex()
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.entries))
	for i, e := range c.entries {
		c.index[e.Path] = i
	}
}
