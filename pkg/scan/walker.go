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
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreScope is one .gitignore file in effect: its matcher plus the
// directory its patterns are relative to.
type ignoreScope struct {
	matcher *ignore.GitIgnore
	base    string
}

// walker enumerates one scan root. Directory read errors are logged and
// skipped; only the root itself failing is fatal, and that is checked
// before a walker is built.
type walker struct {
	opts   *Options
	exts   map[string]bool
	logger *slog.Logger
	jobs   chan<- string

	root string

	// visited holds resolved symlink directory targets to break cycles.
	visited map[string]bool

	// extra holds the patterns of Options.IgnoreFile, root-relative.
	extra *ignore.GitIgnore
}

func (w *walker) walkDir(dir string, scopes []ignoreScope) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("scan.walk.error", "path", dir, "err", err)
		return
	}

	if !w.opts.NoIgnore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore")); err == nil {
			scopes = append(scopes, ignoreScope{matcher: gi, base: dir})
		}
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == ".git" {
			continue
		}

		path := filepath.Join(dir, name)
		isDir := entry.IsDir()

		if entry.Type()&fs.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				continue
			}
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				w.logger.Warn("scan.walk.symlink_error", "path", path, "err", err)
				continue
			}
			info, err := os.Stat(target)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if w.visited[target] {
					continue
				}
				w.visited[target] = true
				isDir = true
			} else if !info.Mode().IsRegular() {
				continue
			}
		} else if !isDir && !entry.Type().IsRegular() {
			// Sockets, pipes, devices.
			continue
		}

		if w.ignored(path, isDir, scopes) {
			continue
		}

		if isDir {
			w.walkDir(path, scopes)
			continue
		}
		if w.exts != nil && !w.exts[extOf(name)] {
			continue
		}
		w.jobs <- path
	}
}

// ignored applies exclude globs, the custom ignore file, and every
// .gitignore scope in effect, each against the path form it expects.
func (w *walker) ignored(path string, isDir bool, scopes []ignoreScope) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	probe := rel
	if isDir {
		probe += "/"
	}

	for _, pattern := range w.opts.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	if w.extra != nil && w.extra.MatchesPath(probe) {
		return true
	}
	for _, scope := range scopes {
		srel, err := filepath.Rel(scope.base, path)
		if err != nil {
			continue
		}
		srel = filepath.ToSlash(srel)
		if isDir {
			srel += "/"
		}
		if scope.matcher.MatchesPath(srel) {
			return true
		}
	}
	return false
}

// compileExtraIgnore parses the custom ignore file: blank lines and
// #-comments are dropped, and a line that is only negation or a slash is
// malformed and skipped. Any problem degrades to no extra patterns.
func compileExtraIgnore(path string, logger *slog.Logger) *ignore.GitIgnore {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("scan.ignore_file.error", "path", path, "err", err)
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.TrimLeft(line, "!/") == "" {
			logger.Warn("scan.ignore_file.skip_pattern", "path", path, "pattern", line)
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}

// extOf returns the lowercase extension without the dot, empty for
// hidden names like .bashrc.
func extOf(name string) string {
	name = strings.ToLower(name)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i+1:]
	}
	return ""
}
