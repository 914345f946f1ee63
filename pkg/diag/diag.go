// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package diag defines the diagnostic model shared by every compiler phase.
// Diagnostics are collected, not raised: a phase runs to completion and
// returns every problem it found in one Diagnostics value.
package diag

import (
	"fmt"
	"strings"

	"github.com/trident-lang/trident/pkg/source"
)

// Severity classifies a Diagnostic.  Only Error severity fails a phase;
// Warning is advisory.
type Severity uint8

const (
	// Error diagnostics cause the enclosing phase to return a non-nil
	// Diagnostics value.
	Error Severity = iota
	// Warning diagnostics are informational and do not fail a phase.
	Warning
)

// String renders the severity the way it appears in rendered output.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

// Diagnostic is a single reported problem: a severity, a span of the
// originating source, a message, zero or more notes, and an optional help
// string suggesting a fix.
type Diagnostic struct {
	Severity Severity
	Span     source.Span
	Message  string
	Notes    []string
	Help     string
}

// New constructs an Error-severity diagnostic.
func New(span source.Span, message string) Diagnostic {
	return Diagnostic{Severity: Error, Span: span, Message: message}
}

// Warn constructs a Warning-severity diagnostic.
func Warn(span source.Span, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Span: span, Message: message}
}

// WithNote appends a note and returns the diagnostic, for chaining at
// construction sites.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp sets the help string and returns the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// Diagnostics is a list of Diagnostic values.  It implements error so a
// compiler phase can return it directly as Err(diagnostics).
type Diagnostics []Diagnostic

// Error implements the error interface, summarising the first diagnostic
// and the total count.
func (d Diagnostics) Error() string {
	if len(d) == 0 {
		return "no diagnostics"
	}

	if len(d) == 1 {
		return d[0].Message
	}

	return fmt.Sprintf("%s (and %d more diagnostic(s))", d[0].Message, len(d)-1)
}

// HasErrors reports whether any diagnostic in the list has Error severity.
// A phase fails precisely when this is true; warnings alone do not fail it.
func (d Diagnostics) HasErrors() bool {
	for _, diagnostic := range d {
		if diagnostic.Severity == Error {
			return true
		}
	}

	return false
}

// AsError returns d as an error if it contains at least one Error-severity
// diagnostic, or nil otherwise.  This is the standard way a phase turns its
// accumulated diagnostics into a (artifact, error) return pair.
func (d Diagnostics) AsError() error {
	if d.HasErrors() {
		return d
	}

	return nil
}

// Render renders a sequence of diagnostics as source-quoted snippets with a
// caret underline, the message, each note on its own line, and an optional
// help line -- the concrete realisation of render_diagnostics.
func Render(files *source.Set, diags Diagnostics) string {
	var b strings.Builder

	for _, d := range diags {
		file := files.Get(d.Span.File)
		line := file.LineOf(d.Span.Start)
		col := d.Span.Start - line.Start

		fmt.Fprintf(&b, "%s: %s\n", d.Severity, d.Message)
		fmt.Fprintf(&b, "  --> %s:%d:%d\n", file.Name(), line.Number, col+1)
		fmt.Fprintf(&b, "%4d | %s\n", line.Number, line.Text)

		underline := strings.Repeat(" ", col) + strings.Repeat("^", max(1, caretWidth(d.Span, line)))
		fmt.Fprintf(&b, "     | %s\n", underline)

		for _, note := range d.Notes {
			fmt.Fprintf(&b, "     = note: %s\n", note)
		}

		if d.Help != "" {
			fmt.Fprintf(&b, "     = help: %s\n", d.Help)
		}
	}

	return b.String()
}

// caretWidth bounds the underline to the extent of the line, since a span
// may continue onto a following line.
func caretWidth(span source.Span, line source.Line) int {
	width := span.Length()
	if remaining := len(line.Text) - (span.Start - line.Start); remaining < width {
		width = remaining
	}

	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}
