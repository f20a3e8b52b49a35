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
	"runtime"
	"strings"

	"github.com/kraklabs/sloc/pkg/classifier"
)

// Options configures one scan. The zero value scans everything under the
// given paths, hidden entries included, with a platform-sized worker pool
// and gitignore semantics on. Only the .git directory itself is always
// skipped.
type Options struct {
	// Paths are the roots to scan, files or directories. A missing or
	// inaccessible path is the one fatal condition of a scan.
	Paths []string

	// Workers sizes the pool. Zero or negative falls back to GOMAXPROCS
	// worth of workers, never an error.
	Workers int

	// Extensions restricts the scan to these extensions (lowercase, with
	// or without the leading dot). Empty means no restriction.
	Extensions []string

	// Exclude holds doublestar glob patterns matched against each path
	// relative to its scan root; matching files and directories are pruned.
	Exclude []string

	// IgnoreFile names an extra ignore file whose non-empty, non-comment
	// lines are applied as additional root-level patterns. Malformed lines
	// are skipped, never fatal.
	IgnoreFile string

	// NoIgnore disables .gitignore handling entirely.
	NoIgnore bool

	// FollowSymlinks descends into symlinked directories and counts
	// symlinked files. A cycle guard keeps revisited targets out.
	FollowSymlinks bool

	// MinSize and MaxSize filter files by byte size when positive. Empty
	// and size filters are the only reason the pipeline stats a file.
	MinSize int64
	MaxSize int64

	// SkipEmpty drops zero-byte files instead of counting them.
	SkipEmpty bool

	// Fast collapses everything into a single bucket instead of the
	// per-language map. Resolution and marker-aware classification still
	// run, so totals match a normal scan exactly.
	Fast bool

	// Source tunes how file bytes reach the classifier.
	Source classifier.SourceOptions

	// Progress, when set, is called once per file handed to a worker.
	Progress func(path string)
}

func (o *Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o *Options) statNeeded() bool {
	return o.MinSize > 0 || o.MaxSize > 0 || o.SkipEmpty
}

// extensionSet normalizes the allow-list for lookup. Nil means unrestricted.
func (o *Options) extensionSet() map[string]bool {
	if len(o.Extensions) == 0 {
		return nil
	}
	set := make(map[string]bool, len(o.Extensions))
	for _, ext := range o.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = true
		}
	}
	return set
}
