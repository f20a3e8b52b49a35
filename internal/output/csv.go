// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

import (
	"fmt"
	"strings"

	"github.com/kraklabs/sloc/pkg/gitdiff"
	"github.com/kraklabs/sloc/pkg/scan"
)

// CSV renders a scan result as comma-separated rows with a trailing
// Total row. Language names never contain commas, so no quoting is
// needed.
func CSV(result *scan.Result) string {
	var out strings.Builder
	out.WriteString("language,files,code,comment,blank,total\n")
	for _, row := range result.Languages {
		fmt.Fprintf(&out, "%s,%d,%d,%d,%d,%d\n",
			row.Language, row.Counts.Files, row.Counts.Code,
			row.Counts.Comment, row.Counts.Blank, row.Counts.Total)
	}
	fmt.Fprintf(&out, "Total,%d,%d,%d,%d,%d\n",
		result.Total.Files, result.Total.Code, result.Total.Comment,
		result.Total.Blank, result.Total.Total)
	return out.String()
}

// DiffCSV renders a diff summary as CSV. When per-file deltas are
// present a second section with its own header follows the language
// rows.
func DiffCSV(s *gitdiff.Summary) string {
	var out strings.Builder
	out.WriteString("language,files,code_added,code_removed,comment_added,blank_added,net_delta\n")
	for _, row := range s.Languages {
		fmt.Fprintf(&out, "%s,%d,%d,%d,%d,%d,%d\n",
			row.Language, row.Files, row.CodeAdded, row.CodeRemoved,
			row.CommentAdded, row.BlankAdded, row.TotalNet)
	}
	fmt.Fprintf(&out, "Total,%d,%d,%d,%d,%d,%d\n",
		s.Totals.Files, s.Totals.CodeAdded, s.Totals.CodeRemoved,
		s.Totals.CommentAdded, s.Totals.BlankAdded, s.Totals.TotalNet)

	if len(s.ByFile) > 0 {
		out.WriteString("\npath,status,language,code_delta,comment_delta,blank_delta,net_delta\n")
		for _, f := range s.ByFile {
			fmt.Fprintf(&out, "%s,%s,%s,%d,%d,%d,%d\n",
				f.Path, f.Status, f.Language, f.CodeDelta,
				f.CommentDelta, f.BlankDelta, f.TotalDelta)
		}
	}
	return out.String()
}
