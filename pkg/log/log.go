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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/renamerc/pkg/operation"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for the original name
	targetWidth = 35 // Width for the new name
)

// 🎯 RenameEvent is one processed plan item for logging
type RenameEvent struct {
	Name    string          // Original base name
	NewName string          // Planned base name
	State   operation.State // Terminal state
	Err     error           // Set when State is failed
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex

	total  int
	counts map[operation.State]int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	// records go to stderr so they never mix with command output
	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })
	zlog := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		counts:  make(map[operation.State]int),
	}
}

// Zerolog returns the structured logger behind the console output
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatRename formats a rename event for display
func (l *Logger) formatRename(ev RenameEvent) string {
	var symbol rune
	var symbolColor color.Attribute
	target := ""
	status := ev.State.String()

	switch ev.State {
	case operation.StateRenamed:
		symbol = '✓'
		symbolColor = color.FgGreen
		target = "→ " + ev.NewName
	case operation.StateFailed:
		symbol = '✗'
		symbolColor = color.FgRed
		target = "→ " + ev.NewName
		if ev.Err != nil {
			status = ev.Err.Error()
		}
	case operation.StateSkippedOutOfScope:
		symbol = '·'
		symbolColor = color.Faint
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, ev.Name),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", targetWidth, target)),
		status)
}

// 📝 LogRename prints one processed plan item
func (l *Logger) LogRename(ctx context.Context, ev RenameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts[ev.State]++
	fmt.Fprintln(l.console, l.formatRename(ev))

	l.zlog.Debug().
		Str("file", ev.Name).
		Str("new_name", ev.NewName).
		Str("state", ev.State.String()).
		AnErr("error", ev.Err).
		Msg("rename")
}

// StartOperation prints the batch header. It implements operation.Reporter.
func (l *Logger) StartOperation(ctx context.Context, total int) {
	l.mu.Lock()
	l.total = total
	l.counts = make(map[operation.State]int)
	l.mu.Unlock()

	l.Header(fmt.Sprintf("renaming %d files", total))
}

// ReportItem implements operation.Reporter
func (l *Logger) ReportItem(ctx context.Context, outcome operation.Outcome) {
	l.LogRename(ctx, RenameEvent{
		Name:    outcome.Item.OriginalName,
		NewName: outcome.Item.NewName,
		State:   outcome.State,
		Err:     outcome.Err,
	})
}

// UpdateProgress implements operation.Reporter
func (l *Logger) UpdateProgress(ctx context.Context, processed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Int("processed", processed).Int("total", l.total).Msg("progress")
}

// FinishOperation prints the batch summary. It implements operation.Reporter.
func (l *Logger) FinishOperation(ctx context.Context) {
	l.mu.Lock()
	renamed := l.counts[operation.StateRenamed]
	failed := l.counts[operation.StateFailed]
	skipped := l.counts[operation.StateSkippedUnchanged] + l.counts[operation.StateSkippedOutOfScope]
	l.mu.Unlock()

	l.LogNewline()
	msg := fmt.Sprintf("%d renamed, %d skipped, %d failed", renamed, skipped, failed)
	if failed > 0 {
		l.Warning(msg)
		return
	}
	l.Success(msg)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("renamerc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

var _ operation.Reporter = (*Logger)(nil)
