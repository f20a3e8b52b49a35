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
	"os"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/kraklabs/sloc/internal/errors"
	"github.com/kraklabs/sloc/internal/output"
	"github.com/kraklabs/sloc/internal/ui"
	"github.com/kraklabs/sloc/pkg/gitdiff"
	"github.com/kraklabs/sloc/pkg/language"
)

// runDiff executes the 'diff' CLI command, measuring how line counts
// move between two git states and optionally gating on thresholds.
//
// Three modes, mutually exclusive:
//   - range (default): --base..--head commits, base defaults to HEAD~1
//   - --staged: HEAD against the index
//   - --working-tree: index against the working directory
//
// Flags:
//   - --base / --head: Revisions to compare (range mode)
//   - --merge-base: Compare against merge-base of HEAD and this revision
//   - --staged: Diff HEAD against the index
//   - --working-tree: Diff the index against the working directory
//   - --ext: Comma-separated extension allow-list
//   - --by-file: Include per-file rows in the output
//   - --json / --csv / --markdown: Output format (default: table)
//   - --max-code-added: Fail threshold on total added code lines
//   - --max-total-changed: Fail threshold on absolute net line movement
//   - --max-files: Fail threshold on changed file count
//   - --max-code-added-lang: Per-language cap, "Lang:N", repeatable
//   - --fail-on-threshold: Exit non-zero when a threshold is exceeded
//
// Examples:
//
//	sloc diff                               HEAD~1..HEAD
//	sloc diff --base main --markdown        Against main, for a PR comment
//	sloc diff --staged --by-file            What is about to be committed
//	sloc diff --max-code-added 500 --fail-on-threshold
func runDiff(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	base := fs.String("base", "", "Base revision (default: HEAD~1)")
	head := fs.String("head", "", "Head revision (default: HEAD)")
	mergeBase := fs.String("merge-base", "", "Use merge-base of head and this revision as base")
	staged := fs.Bool("staged", false, "Diff HEAD against the index")
	workingTree := fs.Bool("working-tree", false, "Diff the index against the working directory")
	extList := fs.String("ext", "", "Comma-separated extension allow-list (no dots)")
	byFile := fs.Bool("by-file", false, "Include per-file rows")
	jsonOut := fs.Bool("json", false, "Output JSON instead of table")
	csvOut := fs.Bool("csv", false, "Output CSV instead of table")
	markdownOut := fs.Bool("markdown", false, "Output Markdown instead of table")
	maxCodeAdded := fs.Int64("max-code-added", 0, "Fail threshold on total added code lines (0 = off)")
	maxTotalChanged := fs.Int64("max-total-changed", 0, "Fail threshold on absolute net line movement (0 = off)")
	maxFiles := fs.Int64("max-files", 0, "Fail threshold on changed file count (0 = off)")
	perLangCaps := fs.StringArray("max-code-added-lang", nil, `Per-language cap on added code, "Lang:N" (repeatable)`)
	failOnThreshold := fs.Bool("fail-on-threshold", false, "Exit non-zero when a threshold is exceeded")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sloc diff [options]

Computes per-language line deltas between two git states of the
repository containing the current directory.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sloc diff
  sloc diff --base main --head feature --by-file
  sloc diff --staged --markdown
  sloc diff --max-code-added 500 --fail-on-threshold
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.JSON = *jsonOut

	if *staged && *workingTree {
		errors.FatalError(errors.NewInputError(
			"--staged and --working-tree are mutually exclusive",
			"Both flags were given, but each selects a different comparison",
			"Pick one: --staged for HEAD..index, --working-tree for index..workdir",
		), globals.JSON)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	if *base == "" {
		*base = cfg.Diff.Base
	}

	repo, err := gitdiff.Open(".")
	if err != nil {
		errors.FatalError(errors.NewVcsError(
			"Not inside a git repository",
			"No .git directory was found here or in any parent",
			"Run sloc diff from inside a repository, or use sloc scan instead",
			err,
		), globals.JSON)
	}

	changes, summaryRefs, err := collectChanges(repo, *base, *head, *mergeBase, *staged, *workingTree)
	if err != nil {
		errors.FatalError(err, globals.JSON)
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

	summary := gitdiff.Compute(changes, repo, language.NewResolver(registry), gitdiff.Options{
		Extensions: splitList(*extList),
		ByFile:     *byFile,
	})
	summary.BaseRef = summaryRefs.baseRef
	summary.HeadRef = summaryRefs.headRef
	summary.Base = summaryRefs.base
	summary.Head = summaryRefs.head

	thresholds := gitdiff.Thresholds{
		MaxCodeAdded:    firstPositiveInt64(*maxCodeAdded, cfg.Diff.MaxCodeAdded),
		MaxTotalChanged: firstPositiveInt64(*maxTotalChanged, cfg.Diff.MaxTotalChanged),
		MaxFiles:        firstPositiveInt64(*maxFiles, cfg.Diff.MaxFiles),
		PerLanguage:     parsePerLanguageCaps(*perLangCaps),
	}
	violations := thresholds.Violations(summary)

	emitDiff(summary, globals.JSON, *csvOut, *markdownOut)

	if len(violations) > 0 {
		joined := strings.Join(violations, "; ")
		if *failOnThreshold {
			errors.FatalError(errors.NewThresholdError(
				"Diff exceeds configured thresholds",
				joined,
				"Split the change, or raise the thresholds if the size is intentional",
			), globals.JSON)
		}
		ui.Warningf("%s", joined)
	}
}

// diffRefs names the two compared endpoints for the summary header.
type diffRefs struct {
	baseRef, headRef string
	base, head       gitdiff.RefInfo
}

func hashRef(h plumbing.Hash) gitdiff.RefInfo {
	s := h.String()
	return gitdiff.RefInfo{Ref: s, Short: s[:7]}
}

func syntheticRef(name string) gitdiff.RefInfo {
	return gitdiff.RefInfo{Ref: name, Short: name}
}

// collectChanges resolves the requested mode into a change list plus
// the ref labels the formatters display.
func collectChanges(repo *gitdiff.Repository, base, head, mergeBase string, staged, workingTree bool) ([]gitdiff.FileChange, diffRefs, error) {
	switch {
	case staged:
		refs := diffRefs{baseRef: "HEAD", headRef: "INDEX", head: syntheticRef("INDEX")}
		if h, err := repo.Head(); err == nil {
			refs.base = hashRef(h)
		}
		changes, err := repo.StagedChanges()
		if err != nil {
			return nil, refs, errors.NewVcsError(
				"Cannot diff HEAD against the index",
				err.Error(),
				"Check that the repository has at least one commit",
				err,
			)
		}
		return changes, refs, nil

	case workingTree:
		refs := diffRefs{
			baseRef: "INDEX", headRef: "WORKDIR",
			base: syntheticRef("INDEX"), head: syntheticRef("WORKDIR"),
		}
		changes, err := repo.WorktreeChanges()
		if err != nil {
			return nil, refs, errors.NewVcsError(
				"Cannot diff the index against the working directory",
				err.Error(),
				"Check repository permissions",
				err,
			)
		}
		return changes, refs, nil

	default:
		headHash, err := resolveOrHead(repo, head)
		if err != nil {
			return nil, diffRefs{}, err
		}
		var baseHash plumbing.Hash
		switch {
		case mergeBase != "":
			other, err := repo.Resolve(mergeBase)
			if err != nil {
				return nil, diffRefs{}, badRevision(mergeBase, err)
			}
			baseHash, err = repo.MergeBase(headHash, other)
			if err != nil {
				return nil, diffRefs{}, errors.NewVcsError(
					"Cannot find a merge base",
					fmt.Sprintf("No common ancestor of %s and %s", head, mergeBase),
					"Check that both revisions share history",
					err,
				)
			}
		case base != "":
			baseHash, err = repo.Resolve(base)
			if err != nil {
				return nil, diffRefs{}, badRevision(base, err)
			}
		default:
			base = "HEAD~1"
			baseHash, err = repo.Resolve(base)
			if err != nil {
				return nil, diffRefs{}, errors.NewVcsError(
					"Cannot resolve the default base HEAD~1",
					"HEAD has no parent commit",
					"Pass --base explicitly, or diff against --staged",
					err,
				)
			}
		}

		refs := diffRefs{
			baseRef: base, headRef: head,
			base: hashRef(baseHash), head: hashRef(headHash),
		}
		if refs.headRef == "" {
			refs.headRef = "HEAD"
		}
		if refs.baseRef == "" {
			refs.baseRef = refs.base.Short
		}
		changes, err := repo.ChangesBetween(baseHash, headHash)
		if err != nil {
			return nil, refs, errors.NewVcsError(
				"Cannot diff the revision range",
				err.Error(),
				"Check that both revisions point at commits",
				err,
			)
		}
		return changes, refs, nil
	}
}

func resolveOrHead(repo *gitdiff.Repository, rev string) (plumbing.Hash, error) {
	if rev == "" {
		h, err := repo.Head()
		if err != nil {
			return plumbing.ZeroHash, errors.NewVcsError(
				"Cannot resolve HEAD",
				"The repository has no commits yet",
				"Commit something before diffing",
				err,
			)
		}
		return h, nil
	}
	h, err := repo.Resolve(rev)
	if err != nil {
		return plumbing.ZeroHash, badRevision(rev, err)
	}
	return h, nil
}

func badRevision(rev string, err error) error {
	return errors.NewVcsError(
		fmt.Sprintf("Unknown revision %q", rev),
		"The revision does not resolve to a commit in this repository",
		"Check the spelling, or fetch the ref first",
		err,
	)
}

// parsePerLanguageCaps parses repeated "Lang:N" values; malformed
// entries are dropped.
func parsePerLanguageCaps(specs []string) map[string]int64 {
	if len(specs) == 0 {
		return nil
	}
	caps := make(map[string]int64, len(specs))
	for _, spec := range specs {
		name, value, ok := strings.Cut(spec, ":")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}
		caps[strings.TrimSpace(name)] = n
	}
	return caps
}

func emitDiff(summary *gitdiff.Summary, jsonOut, csvOut, markdownOut bool) {
	switch {
	case jsonOut:
		if err := output.JSON(summary); err != nil {
			errors.FatalError(err, true)
		}
	case csvOut:
		fmt.Print(output.DiffCSV(summary))
	case markdownOut:
		fmt.Print(output.DiffMarkdown(summary))
	default:
		fmt.Printf("%s %s (%s) .. %s (%s)\n\n",
			ui.Label("Comparing:"),
			summary.BaseRef, summary.Base.Short,
			summary.HeadRef, summary.Head.Short)
		fmt.Print(output.DiffTable(summary))
	}
}
