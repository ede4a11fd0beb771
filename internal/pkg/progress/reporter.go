// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package progress renders human-readable run progress.
// Phase lines go to the output writer, errors and client diagnostics to the error writer.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lazycatapps/image-uploader/internal/models"
	apperrors "github.com/lazycatapps/image-uploader/internal/pkg/errors"

	"github.com/fatih/color"
)

// Reporter prints phase lines for a run.
// Every line passes through the redactor before it is written.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
	redact func(string) string

	phase   *color.Color
	plain   *color.Color
	success *color.Color
	failure *color.Color
}

// New creates a reporter writing to stdout and stderr.
func New() *Reporter {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters creates a reporter writing to out and errOut.
// Colors are emitted only when color output is enabled globally.
func NewWithWriters(out, errOut io.Writer) *Reporter {
	return &Reporter{
		out:     out,
		errOut:  errOut,
		redact:  func(s string) string { return s },
		phase:   color.New(color.FgCyan),
		plain:   color.New(color.Reset),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
	}
}

// WithRedactor sets the function applied to every line and returns the reporter.
func (r *Reporter) WithRedactor(redact func(string) string) *Reporter {
	if redact != nil {
		r.redact = redact
	}
	return r
}

// LoggingIn reports the start of authentication.
func (r *Reporter) LoggingIn(registry string) {
	r.print(r.out, r.phase, "🔑 Logging in to %s...", registry)
}

// Syncing reports the start of an entry.
func (r *Reporter) Syncing(entry models.SyncEntry) {
	r.print(r.out, r.phase, "\n🔄 Syncing: %s", entry)
}

// Pulling reports the pull step.
func (r *Reporter) Pulling(ref string) {
	r.print(r.out, r.plain, "  📥 Pulling %s...", ref)
}

// Tagging reports the tag step.
func (r *Reporter) Tagging(ref string) {
	r.print(r.out, r.plain, "  🏷️  Tagging as %s...", ref)
}

// Pushing reports the push step.
func (r *Reporter) Pushing(ref string) {
	r.print(r.out, r.plain, "  📤 Pushing %s...", ref)
}

// AllSynced reports a fully successful run.
func (r *Reporter) AllSynced() {
	r.print(r.out, r.success, "\n✅ All images synced successfully!")
}

// Summary reports per-entry results of a run that had failures.
func (r *Reporter) Summary(summary *models.RunSummary) {
	r.print(r.out, r.plain, "\n📊 Summary: %d synced, %d failed, %d skipped (of %d)",
		summary.Succeeded, summary.Failed, summary.Skipped, summary.Total)
	for _, o := range summary.Outcomes {
		if o.Status != models.StatusFailed {
			continue
		}
		r.print(r.out, r.plain, "  ❌ %s → %s (%s)", o.Source, o.Target, o.Step)
		for _, line := range o.GetLogLines() {
			r.print(r.out, r.plain, "     │ %s", line)
		}
	}
}

// Error reports a terminal error, followed by the client's captured output if any.
func (r *Reporter) Error(err error) {
	if apperrors.Is(err, apperrors.KindAuth) {
		r.print(r.errOut, r.failure, "❌ Login failed:")
	}
	r.print(r.errOut, r.failure, "💥 Error: %v", err)
	if output := strings.TrimSpace(apperrors.OutputOf(err)); output != "" {
		r.print(r.errOut, r.plain, "%s", output)
	}
}

func (r *Reporter) print(w io.Writer, c *color.Color, format string, args ...interface{}) {
	line := r.redact(fmt.Sprintf(format, args...))
	c.Fprintln(w, line)
}
