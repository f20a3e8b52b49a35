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

package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kraklabs/sloc/pkg/classifier"
	"github.com/kraklabs/sloc/pkg/language"
)

// fastBucket labels the single row produced in fast mode.
const fastBucket = "Total"

// Pipeline runs scans against one shared resolver. It is stateless across
// runs and safe for concurrent use.
type Pipeline struct {
	resolver *language.Resolver
	logger   *slog.Logger
}

// New builds a pipeline over resolver. A nil logger falls back to the
// process default.
func New(resolver *language.Resolver, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{resolver: resolver, logger: logger}
}

// Run scans opts.Paths to completion and returns the aggregate. The only
// error it can return is a missing or inaccessible root; everything
// file-level is absorbed into the statistics.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	start := time.Now()

	roots := opts.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("scan root %q: %w", root, err)
		}
	}

	workers := opts.workers()
	exts := opts.extensionSet()
	statNeeded := opts.statNeeded()

	p.logger.Info("scan.start",
		"paths", roots,
		"workers", workers,
		"fast", opts.Fast,
	)

	var seen, ignored, empty, errCount int64

	shared := make(map[string]classifier.FileCounts)
	var mu sync.Mutex

	jobs := make(chan string, 4*workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make(map[string]classifier.FileCounts)

			for path := range jobs {
				atomic.AddInt64(&seen, 1)
				if opts.Progress != nil {
					opts.Progress(path)
				}

				if statNeeded {
					info, err := os.Stat(path)
					if err != nil {
						atomic.AddInt64(&errCount, 1)
						p.logger.Warn("scan.file.stat_error", "path", path, "err", err)
						continue
					}
					size := info.Size()
					if opts.SkipEmpty && size == 0 {
						atomic.AddInt64(&empty, 1)
						continue
					}
					if (opts.MinSize > 0 && size < opts.MinSize) ||
						(opts.MaxSize > 0 && size > opts.MaxSize) {
						atomic.AddInt64(&ignored, 1)
						continue
					}
				}

				name, ok := p.resolver.Resolve(path)
				if !ok {
					atomic.AddInt64(&ignored, 1)
					continue
				}
				markers, _ := p.resolver.Registry().Markers(name)
				bucket := name
				if opts.Fast {
					bucket = fastBucket
				}

				counts, err := classifier.CountFile(path, markers, opts.Source)
				if err != nil {
					atomic.AddInt64(&errCount, 1)
					p.logger.Warn("scan.file.error", "path", path, "err", err)
					continue
				}

				c := local[bucket]
				c.Merge(counts)
				local[bucket] = c
			}

			// One merge per worker, never per file.
			mu.Lock()
			for name, counts := range local {
				c := shared[name]
				c.Merge(counts)
				shared[name] = c
			}
			mu.Unlock()
		}()
	}

	for _, root := range roots {
		p.enumerate(root, &opts, exts, jobs)
	}
	close(jobs)
	wg.Wait()

	result := &Result{
		Languages: make([]Row, 0, len(shared)),
		Stats: Stats{
			FilesSeen: seen,
			Ignored:   ignored,
			Empty:     empty,
			Errors:    errCount,
			Elapsed:   time.Since(start),
		},
	}
	for name, counts := range shared {
		result.Languages = append(result.Languages, Row{Language: name, Counts: counts})
		result.Total.Merge(counts)
	}
	sortRows(result.Languages)

	recordScan(result)

	p.logger.Info("scan.done",
		"files", result.Total.Files,
		"languages", len(result.Languages),
		"ignored", ignored,
		"errors", errCount,
		"duration_ms", result.Stats.Elapsed.Milliseconds(),
	)
	return result, nil
}

// enumerate feeds every countable file under root into jobs. root was
// stat-checked by Run, so failures past this point are per-entry and
// non-fatal.
func (p *Pipeline) enumerate(root string, opts *Options, exts map[string]bool, jobs chan<- string) {
	info, err := os.Stat(root)
	if err != nil {
		p.logger.Warn("scan.walk.error", "path", root, "err", err)
		return
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() {
			jobs <- root
		}
		return
	}

	w := &walker{
		opts:    opts,
		exts:    exts,
		logger:  p.logger,
		jobs:    jobs,
		root:    root,
		visited: make(map[string]bool),
	}
	if opts.IgnoreFile != "" {
		w.extra = compileExtraIgnore(opts.IgnoreFile, p.logger)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		w.visited[resolved] = true
	}
	w.walkDir(root, nil)
}
