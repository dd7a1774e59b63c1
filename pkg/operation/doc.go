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

/*
Package operation applies rename plans to the filesystem.

	+-------------+      +-------------+      +-------------+
	|    plan     | ---> |  Executor   | ---> |   Result    |
	|  ([]Item)   |      | (afero.Fs)  |      | (per item)  |
	+-------------+      +------+------+      +-------------+
	                            |
	              +-------------+-------------+
	              |             |             |
	          Reporter       Journal       catalog
	         (progress)    (audit log)   (path update)

🎯 Per item the executor ends in exactly one State:

  - SkippedOutOfScope: excluded by the conditions, nothing happens
  - SkippedUnchanged: the new name equals the old one, nothing happens
  - Renamed: backup copied (when requested), target free, rename done
  - Failed: the error is recorded and the batch moves on

⚡ Fatal problems (the same source listed twice, an uncreatable backup
directory) stop Execute before the first rename. Anything that goes wrong
for a single file stays with that file.

🔁 Runner executes a batch inline or on a background goroutine. Cancelling
the context stops the batch before the next item; finished renames stay.

🔍 Example:

	exec := operation.NewExecutor(operation.ExecutorOptions{Catalog: cat})
	res, err := exec.Execute(ctx, plan.Generate(cat, rc, cc), operation.Options{BackupDir: "/tmp/bak"})
*/
package operation
