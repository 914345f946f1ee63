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

// Package termio detects whether the CLI's output stream is an interactive
// terminal, gating ANSI colour in `tridentc test` output. This is a narrow
// slice of the teacher's pkg/util/termio, which drives a full raw-mode
// widget screen for its interactive inspector; tridentc never takes over
// the terminal, so only the IsTerminal probe that widget package builds on
// is needed here.
package termio

import (
	"os"

	"golang.org/x/term"
)

// Stdout reports whether os.Stdout is attached to an interactive terminal.
func Stdout() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Stderr reports whether os.Stderr is attached to an interactive terminal.
func Stderr() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
)

// Colorize wraps s in the given ANSI colour code when enabled is true, and
// returns s unchanged otherwise.
func Colorize(enabled bool, code, s string) string {
	if !enabled {
		return s
	}

	return code + s + colorReset
}

// Red is the ANSI code for error-severity diagnostics.
func Red() string { return colorRed }

// Yellow is the ANSI code for warning-severity diagnostics.
func Yellow() string { return colorYellow }

// Bold is the ANSI code used for headings in terminal output.
func Bold() string { return colorBold }
