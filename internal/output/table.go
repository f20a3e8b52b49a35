// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

import (
	"fmt"
	"strings"

	"github.com/kraklabs/sloc/pkg/classifier"
	"github.com/kraklabs/sloc/pkg/gitdiff"
	"github.com/kraklabs/sloc/pkg/scan"
)

// Column layout for the scan table. Widths grow to fit the data; the
// minimums keep small reports from looking cramped.
const (
	minLangWidth = 12
	minNumWidth  = 10
	minFileWidth = 8
	tableGutter  = 8
)

// Table renders a scan result as an aligned text table, cloc-style:
// one row per language in presentation order, a separator, then totals.
func Table(result *scan.Result) string {
	langW := minLangWidth
	filesW := minFileWidth
	blankW, commW, codeW, totalW := minNumWidth, minNumWidth, minNumWidth, minNumWidth

	widen := func(w *int, n int) {
		if l := len(formatNum(n)); l > *w {
			*w = l
		}
	}
	for _, row := range result.Languages {
		if len(row.Language) > langW {
			langW = len(row.Language)
		}
		widenCounts(widen, &filesW, &blankW, &commW, &codeW, &totalW, row.Counts)
	}
	widenCounts(widen, &filesW, &blankW, &commW, &codeW, &totalW, result.Total)

	gutter := strings.Repeat(" ", tableGutter)
	header := strings.Join([]string{
		fmt.Sprintf("%-*s", langW, "Language"),
		fmt.Sprintf("%*s", filesW, "files"),
		fmt.Sprintf("%*s", blankW, "blank"),
		fmt.Sprintf("%*s", commW, "comment"),
		fmt.Sprintf("%*s", codeW, "code"),
		fmt.Sprintf("%*s", totalW, "Total"),
	}, gutter)
	separator := strings.Repeat("-", langW+filesW+blankW+commW+codeW+totalW+tableGutter*5)

	row := func(name string, c classifier.FileCounts) string {
		return strings.Join([]string{
			fmt.Sprintf("%-*s", langW, name),
			fmt.Sprintf("%*s", filesW, formatNum(c.Files)),
			fmt.Sprintf("%*s", blankW, formatNum(c.Blank)),
			fmt.Sprintf("%*s", commW, formatNum(c.Comment)),
			fmt.Sprintf("%*s", codeW, formatNum(c.Code)),
			fmt.Sprintf("%*s", totalW, formatNum(c.Total)),
		}, gutter)
	}

	lines := make([]string, 0, len(result.Languages)+4)
	lines = append(lines, header, separator)
	for _, r := range result.Languages {
		lines = append(lines, row(r.Language, r.Counts))
	}
	lines = append(lines, separator, row("Total", result.Total))
	return strings.Join(lines, "\n") + "\n"
}

func widenCounts(widen func(*int, int), filesW, blankW, commW, codeW, totalW *int, c classifier.FileCounts) {
	widen(filesW, c.Files)
	widen(blankW, c.Blank)
	widen(commW, c.Comment)
	widen(codeW, c.Code)
	widen(totalW, c.Total)
}

// DiffTable renders a diff summary as an aligned table of signed deltas.
func DiffTable(s *gitdiff.Summary) string {
	var out strings.Builder
	fmt.Fprintf(&out, "%-20s %7s %10s %10s %10s %10s\n",
		"Language", "files", "code", "comment", "blank", "net")
	rule := strings.Repeat("-", 20+1+7+1+10+1+10+1+10+1+10)
	out.WriteString(rule + "\n")
	for _, row := range s.Languages {
		fmt.Fprintf(&out, "%-20s %7d %+10d %+10d %+10d %+10d\n",
			row.Language, row.Files, row.CodeAdded, row.CommentAdded, row.BlankAdded, row.TotalNet)
	}
	out.WriteString(rule + "\n")
	fmt.Fprintf(&out, "%-20s %7d %+10d %+10d %+10d %+10d\n",
		"Total", s.Totals.Files, s.Totals.CodeAdded, s.Totals.CommentAdded,
		s.Totals.BlankAdded, s.Totals.TotalNet)
	return out.String()
}

// formatNum groups thousands with commas: 1234567 -> "1,234,567".
func formatNum(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
