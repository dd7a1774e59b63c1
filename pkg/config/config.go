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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/collision"
	"github.com/walteh/renamerc/pkg/condition"
	"github.com/walteh/renamerc/pkg/rule"
)

// ErrUnsupportedFormat is returned when no parser handles a file
var ErrUnsupportedFormat = errors.Base("unsupported config format")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes a job from bytes
	Parse(ctx context.Context, data []byte) (*Job, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultFileName is tried as YAML and then HCL
const DefaultFileName = ".renamerc"

// 📚 Job is one rename batch described in a config file
type Job struct {
	Files       []string         `json:"files" yaml:"files"`
	Directory   string           `json:"directory" yaml:"directory"`
	Pattern     string           `json:"pattern" yaml:"pattern"` // doublestar, relative to Directory
	Recursive   bool             `json:"recursive" yaml:"recursive"`
	NaturalSort bool             `json:"natural_sort" yaml:"natural_sort"`
	Rule        rule.Config      `json:"rule" yaml:"rule"`
	Conditions  condition.Config `json:"conditions" yaml:"conditions"`
	BackupDir   string           `json:"backup_dir" yaml:"backup_dir"`
	Manifest    bool             `json:"manifest" yaml:"manifest"`
	Journal     string           `json:"journal" yaml:"journal"`     // sqlite file, empty disables
	FoldCase    *bool            `json:"fold_case" yaml:"fold_case"` // nil follows the host OS
}

// 🏭 NewJob returns a job holding the defaults parsers decode onto
func NewJob() *Job {
	return &Job{
		Rule: rule.Config{
			Method: rule.MethodNumbering,
			Case:   rule.CaseNone,
			Numbering: rule.NumberingConfig{
				Start:    1,
				Step:     1,
				Digits:   3,
				Position: rule.PositionPrefix,
			},
		},
	}
}

// Resolver returns the collision resolver the job asks for
func (j *Job) Resolver() collision.Resolver {
	fold := collision.DefaultFoldCase
	if j.FoldCase != nil {
		fold = *j.FoldCase
	}
	return collision.Resolver{FoldCase: fold}
}

// 🎯 Load reads, parses and validates the job at path
func Load(ctx context.Context, fsys afero.Fs, path string) (*Job, error) {
	job, err := Read(ctx, fsys, path)
	if err != nil {
		return nil, err
	}

	if err := job.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("method", string(job.Rule.Method)).Int("files", len(job.Files)).Str("directory", job.Directory).Msg("loaded job")
	return job, nil
}

// Read parses the job at path without validating it, for callers that
// adjust the job before calling Validate themselves
func Read(ctx context.Context, fsys afero.Fs, path string) (*Job, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading job")

	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	return parse(ctx, path, data)
}

func parse(ctx context.Context, path string, data []byte) (*Job, error) {
	// the extensionless default file may hold either format
	if filepath.Base(path) == DefaultFileName {
		job, yamlErr := (&YAMLParser{}).Parse(ctx, data)
		if yamlErr == nil {
			return job, nil
		}
		job, hclErr := (&HCLParser{}).Parse(ctx, data)
		if hclErr == nil {
			return job, nil
		}
		return nil, errors.Errorf("parsing %s as YAML (%v) or HCL: %w", path, yamlErr, hclErr)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	job, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	return job, nil
}

// 🔍 Validate normalizes paths and checks the rule and conditions
func (j *Job) Validate() error {
	if len(j.Files) == 0 && j.Directory == "" && j.Pattern == "" {
		return errors.Errorf("no input: set files, directory or pattern")
	}

	for i, f := range j.Files {
		j.Files[i] = cleanPath(f)
	}
	if j.Directory != "" {
		j.Directory = cleanPath(j.Directory)
	}
	if j.BackupDir != "" {
		j.BackupDir = cleanPath(j.BackupDir)
	}
	if j.Journal != "" {
		j.Journal = cleanPath(j.Journal)
	}

	if j.Pattern != "" && !doublestar.ValidatePattern(j.Pattern) {
		return errors.Errorf("invalid pattern %q", j.Pattern)
	}
	if j.Manifest && j.BackupDir == "" {
		return errors.Errorf("manifest requires backup_dir")
	}

	if j.Rule.Case == "" {
		j.Rule.Case = rule.CaseNone
	}
	if err := j.Rule.Validate(); err != nil {
		return errors.Errorf("rule: %w", err)
	}
	if err := j.Conditions.Validate(); err != nil {
		return errors.Errorf("conditions: %w", err)
	}
	return nil
}

// cleanPath expands a leading ~ and cleans the result
func cleanPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return filepath.Clean(p)
}
