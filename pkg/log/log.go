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

// Package log prints the human-facing console output of a mirror run.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 10 // Width for status text
)

// 🎯 FileOperation represents one classified file for logging
type FileOperation struct {
	Path         string // File path relative to the target
	Status       string // added, modified or removed
	IsNew        bool   // Whether the file is new
	IsModified   bool   // Whether the file was modified
	IsRemoved    bool   // Whether the file was removed
	LinesAdded   int    // Line delta of a modified file
	LinesRemoved int
}

// 📦 RunOperation describes the run being logged
type RunOperation struct {
	Source string // Repository or local directory
	Ref    string // Requested ref, empty for the default branch
	Target string // Target directory
	DryRun bool   // Whether the target stays untouched
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunOperation
	operations []FileOperation
}

// 🏭 New creates a new logger printing to console and mirroring every line to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a silent one when none is set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsRemoved:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		fmt.Sprintf("%-*s", statusWidth, op.Status))

	if op.LinesAdded > 0 || op.LinesRemoved > 0 {
		line += fmt.Sprintf(" %s %s",
			color.New(color.FgGreen).Sprintf("+%d", op.LinesAdded),
			color.New(color.FgRed).Sprintf("-%d", op.LinesRemoved))
	}

	return line
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("status", op.Status).
		Int("lines_added", op.LinesAdded).
		Int("lines_removed", op.LinesRemoved).
		Msg("file change")
}

// 📝 StartRun prints the run banner and source line
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.operations = nil

	if op.DryRun {
		l.header("dry run for " + op.Target)
	} else {
		l.header("mirroring into " + op.Target)
	}

	ref := op.Ref
	if ref == "" {
		ref = "HEAD"
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Source),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(ref))

	l.zlog.Info().
		Str("source", op.Source).
		Str("ref", op.Ref).
		Str("target", op.Target).
		Bool("dry_run", op.DryRun).
		Msg("starting mirror run")
}

// 📝 EndRun closes the current run and returns the number of logged file changes
func (l *Logger) EndRun(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return 0
	}

	n := len(l.operations)
	l.zlog.Info().
		Str("target", l.currentRun.Target).
		Int("files", n).
		Msg("mirror run complete")

	l.currentRun = nil
	l.operations = nil
	return n
}

// header prints the "docmirror • msg" banner; callers hold l.mu
func (l *Logger) header(msg string) {
	name := color.New(color.Bold, color.FgCyan).Sprint("docmirror")
	fmt.Fprintf(l.console, "%s %s\n", name, color.New(color.Faint).Sprint("• "+msg))
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

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
