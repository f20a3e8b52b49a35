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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/sloc/pkg/classifier"
	"github.com/kraklabs/sloc/pkg/language"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	reg, err := language.Load()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(language.NewResolver(reg), logger)
}

// writeTree materializes a map of relative path -> content under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestRunBasicAggregate(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.go":       "package main\n\n// entry point\nfunc main() {}\n",
		"util/util.go":  "package util\n",
		"script.py":     "# setup\nimport os\n",
		"data.unknown1": "whatever\n",
	})

	p := newTestPipeline(t)
	result, err := p.Run(Options{Paths: []string{dir}})
	require.NoError(t, err)

	byName := make(map[string]classifier.FileCounts)
	for _, row := range result.Languages {
		byName[row.Language] = row.Counts
	}

	assert.Equal(t, classifier.FileCounts{Files: 2, Total: 5, Code: 3, Comment: 1, Blank: 1}, byName["Go"])
	assert.Equal(t, classifier.FileCounts{Files: 1, Total: 2, Code: 1, Comment: 1, Blank: 0}, byName["Python"])

	assert.Equal(t, int64(4), result.Stats.FilesSeen)
	assert.Equal(t, int64(1), result.Stats.Ignored, "unresolvable extension routes to ignored")
	assert.Equal(t, int64(0), result.Stats.Errors)

	var sum classifier.FileCounts
	for _, row := range result.Languages {
		sum.Merge(row.Counts)
	}
	assert.Equal(t, result.Total, sum)
}

func TestRunMissingRootIsFatal(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Run(Options{Paths: []string{filepath.Join(t.TempDir(), "nope")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan root")
}

func TestRunSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"lib.rs": "// doc\nfn main() {}\n"})

	p := newTestPipeline(t)
	result, err := p.Run(Options{Paths: []string{filepath.Join(dir, "lib.rs")}})
	require.NoError(t, err)

	require.Len(t, result.Languages, 1)
	assert.Equal(t, "Rust", result.Languages[0].Language)
	assert.Equal(t, classifier.FileCounts{Files: 1, Total: 2, Code: 1, Comment: 1}, result.Languages[0].Counts)
}

// Aggregate totals must not depend on the worker count.
func TestRunParallelEquivalence(t *testing.T) {
	dir := t.TempDir()
	files := make(map[string]string)
	for i := 0; i < 60; i++ {
		files[fmt.Sprintf("pkg%d/f%d.go", i%7, i)] =
			fmt.Sprintf("package p%d\n\n// helper %d\nfunc F%d() int { return %d }\n", i%7, i, i, i)
		files[fmt.Sprintf("scripts/s%d.py", i)] = fmt.Sprintf("# script %d\nprint(%d)\n", i, i)
	}
	writeTree(t, dir, files)

	p := newTestPipeline(t)

	baseline, err := p.Run(Options{Paths: []string{dir}, Workers: 1})
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 16} {
		result, err := p.Run(Options{Paths: []string{dir}, Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, baseline.Languages, result.Languages, "workers=%d", workers)
		assert.Equal(t, baseline.Total, result.Total, "workers=%d", workers)
	}
}

func TestRunGitignore(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".gitignore":           "vendor/\n*.gen.go\n",
		"main.go":              "package main\n",
		"api.gen.go":           "package main\n// generated\n",
		"vendor/dep/dep.go":    "package dep\n",
		"sub/.gitignore":       "local.py\n",
		"sub/local.py":         "print('hi')\n",
		"sub/kept.py":          "print('kept')\n",
		".git/objects/aa/blob": "binary junk\n",
	})

	p := newTestPipeline(t)
	result, err := p.Run(Options{Paths: []string{dir}})
	require.NoError(t, err)

	byName := make(map[string]classifier.FileCounts)
	for _, row := range result.Languages {
		byName[row.Language] = row.Counts
	}
	assert.Equal(t, 1, byName["Go"].Files, "vendored and generated files must be ignored")
	assert.Equal(t, 1, byName["Python"].Files, "nested .gitignore applies in its subtree")

	// With ignore handling off, everything visible comes back.
	result, err = p.Run(Options{Paths: []string{dir}, NoIgnore: true})
	require.NoError(t, err)
	byName = make(map[string]classifier.FileCounts)
	for _, row := range result.Languages {
		byName[row.Language] = row.Counts
	}
	assert.Equal(t, 3, byName["Go"].Files)
	assert.Equal(t, 2, byName["Python"].Files)
}

func TestRunCustomIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.go":         "package main\n",
		"legacy/old.go":   "package legacy\n",
		"keep/fine.go":    "package keep\n",
		"rules.slocignore": "# comments are fine\nlegacy/\n\n!\n",
	})

	p := newTestPipeline(t)
	result, err := p.Run(Options{
		Paths:      []string{dir},
		IgnoreFile: filepath.Join(dir, "rules.slocignore"),
		Exclude:    []string{"rules.slocignore"},
	})
	require.NoError(t, err)

	require.Len(t, result.Languages, 1)
	assert.Equal(t, 2, result.Languages[0].Counts.Files, "legacy/ pruned, malformed '!' line skipped")
}

func TestRunExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.go":            "package main\n",
		"gen/api/stubs.go":   "package api\n",
		"gen/api/client.go":  "package api\n",
		"testdata/sample.go": "package sample\n",
	})

	p := newTestPipeline(t)
	result, err := p.Run(Options{
		Paths:   []string{dir},
		Exclude: []string{"gen/**", "testdata"},
	})
	require.NoError(t, err)

	require.Len(t, result.Languages, 1)
	assert.Equal(t, 1, result.Languages[0].Counts.Files)
}

func TestRunExtensionAllowList(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.go": "package a\n",
		"b.py": "import os\n",
		"c.rs": "fn main() {}\n",
	})

	p := newTestPipeline(t)
	result, err := p.Run(Options{Paths: []string{dir}, Extensions: []string{".go", "rs"}})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Languages))
	for _, row := range result.Languages {
		names = append(names, row.Language)
	}
	assert.ElementsMatch(t, []string{"Go", "Rust"}, names)
	assert.Equal(t, int64(2), result.Stats.FilesSeen, "pruned files never reach a worker")
}

func TestRunSizeFilters(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"tiny.go":  "//x\n",
		"med.go":   "package med\n\nfunc F() {}\n",
		"large.go": "package large\n" + string(make([]byte, 4096)),
	})

	p := newTestPipeline(t)
	result, err := p.Run(Options{Paths: []string{dir}, MinSize: 10, MaxSize: 1024})
	require.NoError(t, err)

	require.Len(t, result.Languages, 1)
	assert.Equal(t, 1, result.Languages[0].Counts.Files)
	assert.Equal(t, int64(2), result.Stats.Ignored)
}

func TestRunZeroByteFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"empty.go": ""})

	p := newTestPipeline(t)

	result, err := p.Run(Options{Paths: []string{dir}})
	require.NoError(t, err)
	require.Len(t, result.Languages, 1)
	assert.Equal(t, classifier.FileCounts{Files: 1}, result.Languages[0].Counts)

	result, err = p.Run(Options{Paths: []string{dir}, SkipEmpty: true})
	require.NoError(t, err)
	assert.Empty(t, result.Languages)
	assert.Equal(t, int64(1), result.Stats.Empty)
}

// Fast mode only collapses the per-language map. Classification still
// runs with each language's markers and unresolvable files are still
// ignored, so the totals match a normal scan exactly.
func TestRunFastMode(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.go":      "// one\n// two\ncode\n",
		"b.py":      "import os\n",
		"blob.zzz9": "junk\n",
	})

	p := newTestPipeline(t)
	result, err := p.Run(Options{Paths: []string{dir}, Fast: true})
	require.NoError(t, err)

	require.Len(t, result.Languages, 1)
	assert.Equal(t, "Total", result.Languages[0].Language)
	assert.Equal(t, 2, result.Languages[0].Counts.Files)
	assert.Equal(t, 2, result.Languages[0].Counts.Comment, "line markers still apply")
	assert.Equal(t, 2, result.Languages[0].Counts.Code)
	assert.Equal(t, int64(1), result.Stats.Ignored, "unresolvable files stay ignored")

	slow, err := p.Run(Options{Paths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, slow.Total, result.Total)
}

// Hidden entries are part of a default scan; CI trees like
// .github/workflows would otherwise silently vanish from the totals.
// Only the .git directory itself is exempt.
func TestRunHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"visible.go":              "package v\n",
		".github/workflows/ci.py": "import os\n",
		".secret.py":              "import os\n",
		"sub/.config.rb":          "puts 'x'\n",
		".git/objects/junk.go":    "package junk\n",
	})

	p := newTestPipeline(t)

	result, err := p.Run(Options{Paths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total.Files, "hidden files count, .git never does")
}

func TestRunSymlinks(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, dir, map[string]string{"real.go": "package real\n"})
	writeTree(t, outside, map[string]string{"linked.go": "package linked\n"})

	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "link")))
	// A cycle back into the scanned tree.
	require.NoError(t, os.Symlink(dir, filepath.Join(outside, "loop")))

	p := newTestPipeline(t)

	result, err := p.Run(Options{Paths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total.Files, "symlinks are skipped by default")

	result, err = p.Run(Options{Paths: []string{dir}, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total.Files, "cycle guard must terminate the walk")
}

func TestRunUnreadableFileIsNotFatal(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are advisory for root")
	}
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"ok.go":  "package ok\n",
		"bad.go": "package bad\n",
	})
	require.NoError(t, os.Chmod(filepath.Join(dir, "bad.go"), 0o000))

	p := newTestPipeline(t)
	result, err := p.Run(Options{Paths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Stats.Errors)
	assert.Equal(t, 1, result.Total.Files)
}

func TestSortRows(t *testing.T) {
	rows := []Row{
		{Language: "B", Counts: classifier.FileCounts{Code: 10, Total: 12}},
		{Language: "A", Counts: classifier.FileCounts{Code: 10, Total: 12}},
		{Language: "C", Counts: classifier.FileCounts{Code: 10, Total: 20}},
		{Language: "D", Counts: classifier.FileCounts{Code: 50, Total: 50}},
	}
	sortRows(rows)

	got := make([]string, len(rows))
	for i, row := range rows {
		got[i] = row.Language
	}
	assert.Equal(t, []string{"D", "C", "A", "B"}, got)
}
