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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// copyFile copies src to dst with the source's permissions, failing if dst exists
func copyFile(fsys afero.Fs, src, dst string) error {
	source, err := fsys.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source info: %w", err)
	}

	destination, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}

	if err := destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	return nil
}

// backupPath picks a free name for name inside dir, adding _1, _2 ... when
// files from different directories share a name
func backupPath(fsys afero.Fs, dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for n := 1; ; n++ {
		exists, err := afero.Exists(fsys, candidate)
		if err != nil {
			return "", errors.Errorf("checking backup path: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// backup copies path into dir and returns the copy's location
func backup(fsys afero.Fs, dir, path string) (string, error) {
	dst, err := backupPath(fsys, dir, filepath.Base(path))
	if err != nil {
		return "", err
	}
	if err := copyFile(fsys, path, dst); err != nil {
		return "", errors.Errorf("backing up %s: %w", path, err)
	}
	return dst, nil
}
