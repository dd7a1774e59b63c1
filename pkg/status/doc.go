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
Package status turns plans and batch history into something a person can read.

	+-----------+        +-----------+        +-----------+
	|   plan    | -----> |  status   | -----> |  terminal |
	|  (items)  |        | (format)  |        |  (pterm)  |
	+-----------+        +-----+-----+        +-----------+
	                           ^
	+-----------+              |
	|  journal  | -------------+
	| (batches) |
	+-----------+

🎯 Purpose:
- Classifies plan items (rename, unchanged, out of scope, invalid)
- Renders the dry-run preview table and its summary
- Renders journal history
- Tracks progress for quiet runs through zerolog

🔍 Example:

	items := planner.Generate(cat, job.Rule, job.Conditions)
	if err := status.RenderPreview(os.Stdout, items, false); err != nil {
		return err
	}
*/
package status
