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

// Package main implements the sloc CLI for counting lines of code and
// measuring how line counts move between git revisions.
//
// Usage:
//
//	sloc scan [paths]             Count lines per language
//	sloc diff [--base R]          Line deltas between git revisions
//	sloc languages [--json]       List supported languages
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kraklabs/sloc/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags carries the options every command respects.
type GlobalFlags struct {
	// JSON switches the command's output and error reporting to JSON.
	JSON bool

	// Quiet suppresses progress output.
	Quiet bool

	// NoColor disables colored output.
	NoColor bool

	// Verbose raises the log level.
	Verbose int
}

// main parses global flags and dispatches to a command handler.
//
// Global flags:
//   - --version: Display version information and exit
//   - --config: Path to .sloc.yaml configuration file
//   - --no-color: Disable colored output
//   - --quiet: Suppress progress output
//
// Commands:
//   - scan: Count lines of code under one or more paths
//   - diff: Compute line deltas between git revisions
//   - languages: List supported languages
//   - completion: Generate shell completion script
func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to .sloc.yaml (default: ./.sloc.yaml)")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		quiet       = flag.Bool("quiet", false, "Suppress progress output")
		verbose     = flag.Int("verbose", 0, "Verbosity level (0-2)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `sloc - Lines-of-code counter

sloc counts source lines fast and classifies every line as code,
comment or blank. It understands 90+ languages, respects .gitignore,
and can measure how line counts move between git revisions for CI
gating.

Usage:
  sloc <command> [options]

Commands:
  scan          Count lines of code under one or more paths
  diff          Compute line deltas between git revisions
  languages     List supported languages
  completion    Generate shell completion script (bash|zsh|fish)

Global Options:
  --config      Path to .sloc.yaml
  --no-color    Disable colored output
  --quiet       Suppress progress output
  --version     Show version and exit

Examples:
  sloc scan                          Count the current directory
  sloc scan src vendor --json        Count two trees, emit JSON
  sloc scan --ext go,proto           Only Go and protobuf files
  sloc diff                          Deltas of HEAD~1..HEAD
  sloc diff --base main --by-file    Deltas against main, per file
  sloc diff --staged --markdown      Staged changes as Markdown
  sloc languages                     List supported languages

CI Gating:
  sloc diff --max-code-added 500 --fail-on-threshold
  exits non-zero when the diff adds more than 500 lines of code.

For detailed command help: sloc <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("sloc version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	ui.InitColors(*noColor)
	globals := GlobalFlags{
		Quiet:   *quiet,
		NoColor: *noColor,
		Verbose: *verbose,
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "scan":
		runScan(cmdArgs, *configPath, globals)
	case "diff":
		runDiff(cmdArgs, *configPath, globals)
	case "languages":
		runLanguages(cmdArgs, globals)
	case "completion":
		runCompletion(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
