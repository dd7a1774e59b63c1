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

package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/walteh/renamerc/cmd/renamerc/commands"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/log"
)

var (
	// Flags
	debug bool
)

// newRootCmd builds the command tree around one shared RootOpts
func newRootCmd() (*cobra.Command, *opts.RootOpts) {
	rootOpts := &opts.RootOpts{Fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "renamerc",
		Short: "Batch rename files from a job description",
		Long: `renamerc renames sets of files with numbering, text replacement, regular
expressions and case rules. Jobs live in a YAML, HCL or JSON file; every batch can
be previewed first, backed up, journaled and undone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := setupLogging(cmd, rootOpts)
			cmd.SetContext(ctx)
		},
	}

	addRootFlags(cmd, rootOpts)

	cmd.AddCommand(
		commands.NewPreviewCmd(rootOpts),
		commands.NewApplyCmd(rootOpts),
		commands.NewUndoCmd(rootOpts),
		commands.NewHistoryCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd, rootOpts
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultFileName, "job file path (.yaml, .hcl, .json)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.BackupDir, "backup-dir", "", "override the job's backup directory")
	cmd.PersistentFlags().StringVar(&o.Journal, "journal", "", "override the job's journal database")
	cmd.PersistentFlags().StringVar(&o.Now, "now", "", "RFC 3339 time used for {date} and {time}, to repeat a preview exactly")
}

// setupLogging puts the structured and console loggers on the command context
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	console := log.New(cmd.OutOrStdout(), level)
	o.Console = console

	ctx := console.Zerolog().WithContext(cmd.Context())
	return log.NewContext(ctx, console)
}
