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

// Package config loads rename jobs from YAML, HCL or JSON files.
//
//	            +-------------+
//	            |     Job     |
//	            | (one batch) |
//	            +------+------+
//	                   |
//	     +-------------+-------------+
//	     |             |             |
//	+----+----+   +----+----+   +----+----+
//	|  YAML   |   |   HCL   |   |  JSON   |
//	| Parser  |   | Parser  |   | Parser  |
//	+---------+   +---------+   +---------+
//
// 🎯 A job names the input files (explicit paths, a directory, a doublestar
// pattern or any mix), the rename rule, the filter conditions and where
// backups, manifests and the journal go.
//
// 🔄 Flow:
//  1. GetParser picks a parser from the file extension
//  2. The parser decodes onto NewJob, so omitted fields keep their defaults
//  3. Validate normalizes paths and rejects bad rules or conditions
//
// Unknown fields are errors in every format. HCL files may reference
// environment variables as env.NAME and call upper, lower, format and join.
//
// 🔍 Example (YAML):
//
//	directory: ~/photos
//	pattern: "**/*.jpg"
//	rule:
//	  method: numbering
//	  numbering: {start: 1, digits: 4, position: prefix}
//	conditions:
//	  size: {enabled: true, operator: ">", value: "1", unit: MB}
//	backup_dir: ~/photos/.backup
//	manifest: true
package config
