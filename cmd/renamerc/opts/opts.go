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

package opts

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/journal"
	"github.com/walteh/renamerc/pkg/log"
	"github.com/walteh/renamerc/pkg/operation"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Fs         afero.Fs
	Console    *log.Logger
	ConfigFile string

	// Overrides applied on top of the loaded job when set
	BackupDir string
	Journal   string
	Now       string // RFC 3339 instant for {date} and {time}

	once sync.Once
	job  *config.Job
	err  error
}

// 📚 Job loads the config file once, applies the flag overrides and
// validates the result
func (o *RootOpts) Job(ctx context.Context) (*config.Job, error) {
	o.once.Do(func() {
		job, err := config.Read(ctx, o.Fs, o.ConfigFile)
		if err != nil {
			o.err = errors.Errorf("loading config: %w", err)
			return
		}
		if o.BackupDir != "" {
			job.BackupDir = o.BackupDir
		}
		if o.Journal != "" {
			job.Journal = o.Journal
		}
		if o.Now != "" {
			now, err := time.Parse(time.RFC3339, o.Now)
			if err != nil {
				o.err = errors.Errorf("parsing --now: %w", err)
				return
			}
			job.Rule.Now = now
		}
		if err := job.Validate(); err != nil {
			o.err = errors.Errorf("loading config: validating config: %w", err)
			return
		}
		o.job = job
	})
	return o.job, o.err
}

// 📒 OpenJournal opens the journal named by the job or the --journal flag.
// It returns nil when neither names one.
func (o *RootOpts) OpenJournal(ctx context.Context, job *config.Job) (*journal.Journal, error) {
	path := o.Journal
	if job != nil && job.Journal != "" {
		path = job.Journal
	}
	if path == "" {
		return nil, nil
	}
	j, err := journal.Open(ctx, path)
	if err != nil {
		return nil, errors.Errorf("opening journal: %w", err)
	}
	return j, nil
}

// 🏃 Executor wires an executor to the journal when there is one
func (o *RootOpts) Executor(opts operation.ExecutorOptions, j *journal.Journal) *operation.Executor {
	if opts.Fs == nil {
		opts.Fs = o.Fs
	}
	if j != nil {
		opts.Journal = j
	}
	return operation.NewExecutor(opts)
}
