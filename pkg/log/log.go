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
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	formatWidth = 8  // Width for detected format
)

// 🎯 FileOperation describes one processed file for logging
type FileOperation struct {
	Source       string // Source path
	Destination  string // Written path, empty in transform-only mode
	Format       string // Detected output format
	OriginalSize int    // Bytes before transforms
	Size         int    // Bytes after transforms
}

// Saved returns the number of bytes the transforms removed.
func (op FileOperation) Saved() int {
	return op.OriginalSize - op.Size
}

// 📦 BatchOperation describes a batch run for logging
type BatchOperation struct {
	Inputs      []string // Input patterns
	Destination string   // Output root
	Plugins     []string // Plugin names in order
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex

	currentOp     *BatchOperation
	files         int
	originalBytes int
	bytes         int
}

// 🏭 New creates a new logger writing human output to console and mirroring
// every event into zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
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

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Destination == "":
		symbol = '-'
		symbolColor = color.FgYellow
	case op.Saved() > 0:
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	name := op.Source
	if op.Destination != "" {
		name = op.Destination
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", formatWidth, op.Format)),
		formatSavings(op.OriginalSize, op.Size))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files++
	l.originalBytes += op.OriginalSize
	l.bytes += op.Size

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Source).
		Str("destination", op.Destination).
		Str("format", op.Format).
		Int("original_size", op.OriginalSize).
		Int("size", op.Size).
		Msg("file operation")
}

// 📝 StartBatchOperation starts a new batch operation
func (l *Logger) StartBatchOperation(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.files = 0
	l.originalBytes = 0
	l.bytes = 0

	fmt.Fprintf(l.console, "[minifying %s]\n",
		color.New(color.FgCyan).Sprint(strings.Join(op.Inputs, ", ")))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Destination),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(strings.Join(op.Plugins, ", ")))

	l.zlog.Info().
		Strs("inputs", op.Inputs).
		Str("destination", op.Destination).
		Strs("plugins", op.Plugins).
		Msg("starting batch operation")
}

// 📝 EndBatchOperation ends the current batch operation and prints a summary
func (l *Logger) EndBatchOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	noun := "image"
	if l.files != 1 {
		noun = "images"
	}
	msg := fmt.Sprintf("%d %s minified %s", l.files, noun, formatSavings(l.originalBytes, l.bytes))
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))

	l.zlog.Info().
		Strs("inputs", l.currentOp.Inputs).
		Int("files", l.files).
		Int("saved", l.originalBytes-l.bytes).
		Msg("batch operation complete")

	l.currentOp = nil
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("minifyimg")
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

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// formatSavings renders "12.0 kB → 8.0 kB (-33%)".
func formatSavings(before, after int) string {
	pct := 0
	if before > 0 {
		pct = (after - before) * 100 / before
	}
	return fmt.Sprintf("%s → %s (%+d%%)", formatSize(before), formatSize(after), pct)
}

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f kB", float64(n)/1024)
}
