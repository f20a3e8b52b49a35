// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui holds the terminal styling for the sloc CLI: a small set of
// shared color instances plus the message and label helpers the commands
// print with. Everything respects --no-color, the NO_COLOR environment
// variable, and non-TTY output through fatih/color's global gate.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Shared color instances. Red and yellow mark failures and warnings,
// green success, cyan counts, bold structure, dim detail.
var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors applies the --no-color flag. fatih/color already honors
// NO_COLOR and non-TTY output on its own; call this once after flag
// parsing so the explicit flag wins too.
func InitColors(noColor bool) {
	color.NoColor = noColor
}

// Successf prints a green, check-marked status line.
//
//	✓ Scanned 1,204 files in 86ms
func Successf(format string, args ...any) {
	_, _ = Green.Printf("✓ "+format+"\n", args...)
}

// Warningf prints a yellow warning line.
//
//	⚠ 3 files could not be read
func Warningf(format string, args ...any) {
	_, _ = Yellow.Printf("⚠ "+format+"\n", args...)
}

// Header prints a bold title with an underline the same width.
//
//	Supported Languages (92)
//	========================
func Header(text string) {
	_, _ = Bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

// SubHeader prints a bold section title without an underline, for
// blocks like the verbose scan statistics.
func SubHeader(text string) {
	_, _ = Bold.Println(text)
}

// Label returns text bold-formatted for inline prefixes such as
// "Comparing:" before a pair of diff endpoints.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns text dim-formatted, used for secondary detail like
// extension lists and paths.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText returns a cyan-formatted count for statistics lines.
func CountText(count int) string {
	return Cyan.Sprint(count)
}
