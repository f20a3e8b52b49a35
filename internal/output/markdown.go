// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kraklabs/sloc/pkg/gitdiff"
)

// markdownTopN caps the language and per-file tables so the summary
// stays readable when pasted into a pull request.
const markdownTopN = 10

// DiffMarkdown renders a diff summary as a Markdown fragment suitable
// for CI comments: a headline, the top languages by absolute net
// change, and optionally a collapsed table of the most changed files.
func DiffMarkdown(s *gitdiff.Summary) string {
	base, head := "<base>", "<head>"
	if s.BaseRef != "" {
		base = s.BaseRef
	}
	if s.HeadRef != "" {
		head = s.HeadRef
	}

	var out strings.Builder
	fmt.Fprintf(&out, "### LOC Diff Summary (%s → %s)\n", base, head)
	fmt.Fprintf(&out, "- Files: %d (A:%d · M:%d · D:%d · R:%d)\n",
		s.Files, s.FilesAdded, s.FilesModified, s.FilesDeleted, s.FilesRenamed)
	fmt.Fprintf(&out, "- Code Δ: %d · Comment Δ: %d · Blank Δ: %d · Net Δ: %d\n\n",
		s.Totals.CodeAdded, s.Totals.CommentAdded, s.Totals.BlankAdded, s.Totals.TotalNet)

	out.WriteString("#### Top Languages by Net Δ\n")
	out.WriteString("| Language | files | code Δ | comment Δ | blank Δ | net Δ |\n")
	out.WriteString("|---------:|-----:|-------:|----------:|--------:|-----:|\n")
	for i, row := range s.Languages {
		if i >= markdownTopN {
			break
		}
		fmt.Fprintf(&out, "| %s | %d | %d | %d | %d | %d |\n",
			row.Language, row.Files, row.CodeAdded, row.CommentAdded,
			row.BlankAdded, row.TotalNet)
	}
	fmt.Fprintf(&out, "| Total | %d | %d | %d | %d | %d |\n",
		s.Totals.Files, s.Totals.CodeAdded, s.Totals.CommentAdded,
		s.Totals.BlankAdded, s.Totals.TotalNet)

	if len(s.ByFile) > 0 {
		out.WriteString("\n<details><summary>Top Changed Files</summary>\n\n")
		out.WriteString("| File | status | language | code Δ | comment Δ | blank Δ | net Δ |\n")
		out.WriteString("|------|:------:|:--------:|------:|----------:|--------:|-----:|\n")
		files := make([]gitdiff.PerFile, len(s.ByFile))
		copy(files, s.ByFile)
		sort.SliceStable(files, func(i, j int) bool {
			return abs64(files[i].TotalDelta) > abs64(files[j].TotalDelta)
		})
		for i, f := range files {
			if i >= markdownTopN {
				break
			}
			fmt.Fprintf(&out, "| %s | %s | %s | %d | %d | %d | %d |\n",
				f.Path, f.Status, f.Language, f.CodeDelta,
				f.CommentDelta, f.BlankDelta, f.TotalDelta)
		}
		out.WriteString("\n</details>\n")
	}
	return out.String()
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
