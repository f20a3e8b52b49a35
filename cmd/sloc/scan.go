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

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kraklabs/sloc/internal/errors"
	"github.com/kraklabs/sloc/internal/output"
	"github.com/kraklabs/sloc/internal/ui"
	"github.com/kraklabs/sloc/pkg/classifier"
	"github.com/kraklabs/sloc/pkg/language"
	"github.com/kraklabs/sloc/pkg/scan"
)

// runScan executes the 'scan' CLI command, counting lines of code under
// one or more paths and printing a per-language breakdown.
//
// Flags:
//   - --ext: Comma-separated extension allow-list (no dots), e.g. go,py
//   - --exclude: Glob pattern to prune, repeatable
//   - --ignore-file: Extra ignore file applied at every root
//   - --no-ignore: Ignore .gitignore files entirely
//   - --follow-symlinks: Follow symbolic links
//   - --min-size / --max-size: File size filters in bytes
//   - --skip-empty: Skip zero-byte files
//   - --fast: Single-bucket totals without per-language rows
//   - --progress: Force the progress spinner without a TTY
//   - --workers: Worker pool size (default: one per CPU)
//   - --json / --csv: Output format (default: table)
//   - --no-mmap: Disable memory-mapped reads
//   - --mmap-threshold: File size at which mmap kicks in, in bytes
//   - --debug: Enable debug logging
//   - --metrics-addr: HTTP address for Prometheus metrics (default: disabled)
//
// Examples:
//
//	sloc scan                       Count the current directory
//	sloc scan src pkg --csv         Count two trees as CSV
//	sloc scan --fast                One combined total, no per-language rows
func runScan(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	extList := fs.String("ext", "", "Comma-separated extension allow-list (no dots), e.g. go,py,js")
	excludes := fs.StringArray("exclude", nil, "Glob pattern to prune (repeatable)")
	ignoreFile := fs.String("ignore-file", "", "Extra ignore file applied at every root")
	noIgnore := fs.Bool("no-ignore", false, "Do not honor .gitignore files")
	followSymlinks := fs.Bool("follow-symlinks", false, "Follow symbolic links")
	minSize := fs.Int64("min-size", 0, "Minimum file size in bytes")
	maxSize := fs.Int64("max-size", 0, "Maximum file size in bytes")
	skipEmpty := fs.Bool("skip-empty", false, "Skip zero-byte files")
	fast := fs.Bool("fast", false, "Collapse all languages into one total bucket")
	forceProgress := fs.Bool("progress", false, "Show the progress spinner even when stderr is not a TTY")
	workers := fs.Int("workers", 0, "Worker pool size (0 = one per CPU)")
	jsonOut := fs.Bool("json", false, "Output JSON instead of table")
	csvOut := fs.Bool("csv", false, "Output CSV instead of table")
	noMmap := fs.Bool("no-mmap", false, "Disable memory-mapped reads")
	mmapThreshold := fs.Int64("mmap-threshold", 0, "File size at which mmap kicks in, in bytes")
	debug := fs.Bool("debug", false, "Enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sloc scan [options] [paths...]

Counts source lines under the given paths (default: current directory)
and prints code, comment and blank totals per language. Honors
.gitignore unless --no-ignore is given.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sloc scan
  sloc scan src vendor --json
  sloc scan --ext go,proto --exclude "**/*_test.go"
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.JSON = *jsonOut

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	logLevel := slog.LevelWarn
	if *debug || globals.Verbose > 0 {
		logLevel = slog.LevelInfo
	}
	if *debug && globals.Verbose > 1 {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			logger.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	opts := scan.Options{
		Paths:          paths,
		Workers:        firstPositiveInt(*workers, cfg.Workers),
		Extensions:     splitList(*extList),
		Exclude:        append(append([]string(nil), cfg.Exclude...), *excludes...),
		IgnoreFile:     *ignoreFile,
		NoIgnore:       *noIgnore,
		FollowSymlinks: *followSymlinks || cfg.FollowSymlinks,
		MinSize:        *minSize,
		MaxSize:        *maxSize,
		SkipEmpty:      *skipEmpty || cfg.SkipEmpty,
		Fast:           *fast,
		Source: classifier.SourceOptions{
			DisableMmap:   *noMmap || cfg.NoMmap,
			MmapThreshold: firstPositiveInt64(*mmapThreshold, cfg.MmapThreshold),
		},
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = cfg.Extensions
	}

	// JSON output must stay parseable, so progress is forced off.
	if globals.JSON {
		globals.Quiet = true
	}
	progress := NewProgressConfig(globals)
	if *forceProgress && !globals.Quiet {
		progress.Enabled = true
	}
	if bar := NewSpinner(progress, "scanning"); bar != nil {
		opts.Progress = func(string) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	registry, err := language.Load()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot load language definitions",
			"The embedded language table failed validation",
			"This is a build defect; reinstall sloc",
			err,
		), globals.JSON)
	}

	pipeline := scan.New(language.NewResolver(registry), logger)
	result, err := pipeline.Run(opts)
	if err != nil {
		errors.FatalError(errors.NewNotFoundError(
			"Cannot scan the given paths",
			err.Error(),
			"Check that every path exists and is readable",
		), globals.JSON)
	}

	switch {
	case globals.JSON:
		if err := output.JSON(result); err != nil {
			errors.FatalError(err, true)
		}
	case *csvOut:
		fmt.Print(output.CSV(result))
	default:
		fmt.Print(output.Table(result))
		printScanSummary(result, globals)
	}
}

// printScanSummary follows the table with a status line and, verbosely,
// the walk statistics. Machine formats never reach here.
func printScanSummary(result *scan.Result, globals GlobalFlags) {
	if globals.Quiet {
		return
	}
	fmt.Println()
	ui.Successf("Scanned %d files in %s",
		result.Stats.FilesSeen, result.Stats.Elapsed.Round(time.Millisecond))
	if result.Stats.Errors > 0 {
		ui.Warningf("%d files could not be read", result.Stats.Errors)
	}
	if globals.Verbose > 0 {
		ui.SubHeader("Stats:")
		fmt.Printf("  Ignored: %s\n", ui.CountText(int(result.Stats.Ignored)))
		fmt.Printf("  Empty:   %s\n", ui.CountText(int(result.Stats.Empty)))
		fmt.Printf("  Errors:  %s\n", ui.CountText(int(result.Stats.Errors)))
	}
}

// splitList parses a comma-separated flag value, dropping empty tokens.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// firstPositiveInt returns the first positive value, flag over config.
func firstPositiveInt(flagVal, cfgVal int) int {
	if flagVal > 0 {
		return flagVal
	}
	return cfgVal
}

func firstPositiveInt64(flagVal, cfgVal int64) int64 {
	if flagVal > 0 {
		return flagVal
	}
	return cfgVal
}
