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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a.sh", []byte("#!/bin/sh"), 0755), "setup should succeed")
	require.NoError(t, fsys.MkdirAll("/dst", 0755), "setup should succeed")

	require.NoError(t, copyFile(fsys, "/src/a.sh", "/dst/a.sh"), "copy should succeed")

	content, err := afero.ReadFile(fsys, "/dst/a.sh")
	require.NoError(t, err, "copy should be readable")
	assert.Equal(t, "#!/bin/sh", string(content), "content should match")

	info, err := fsys.Stat("/dst/a.sh")
	require.NoError(t, err, "copy should exist")
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String(), "permissions should be kept")

	require.Error(t, copyFile(fsys, "/src/a.sh", "/dst/a.sh"), "existing destination should not be overwritten")
	require.Error(t, copyFile(fsys, "/src/missing", "/dst/missing"), "missing source should fail")
}

func TestBackupPath(t *testing.T) {
	fsys := afero.NewMemMapFs()

	tests := []struct {
		name     string
		existing []string
		file     string
		want     string
	}{
		{name: "free", file: "a.txt", want: "/bak/a.txt"},
		{name: "taken_once", existing: []string{"/bak/a.txt"}, file: "a.txt", want: "/bak/a_1.txt"},
		{name: "taken_twice", existing: []string{"/bak/b.txt", "/bak/b_1.txt"}, file: "b.txt", want: "/bak/b_2.txt"},
		{name: "no_extension", existing: []string{"/bak/README"}, file: "README", want: "/bak/README_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range tt.existing {
				require.NoError(t, afero.WriteFile(fsys, f, nil, 0644), "setup should succeed")
			}
			got, err := backupPath(fsys, "/bak", tt.file)
			require.NoError(t, err, "backup path should resolve")
			assert.Equal(t, tt.want, got, "backup path should match")
		})
	}
}
