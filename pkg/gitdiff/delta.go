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

package gitdiff

import (
	"fmt"
	"strings"

	"github.com/kraklabs/sloc/pkg/classifier"
)

// LineDelta accumulates line-count movement across a set of changed
// files. Code tracks both directions; comment and blank track only
// growth, which is what review thresholds care about.
type LineDelta struct {
	Files        int64 `json:"files"`
	CodeAdded    int64 `json:"code_added"`
	CodeRemoved  int64 `json:"code_removed"`
	CommentAdded int64 `json:"comment_added"`
	BlankAdded   int64 `json:"blank_added"`
	TotalNet     int64 `json:"total_net"`
}

// AddFileDelta folds one changed file's before and after tallies in.
func (d *LineDelta) AddFileDelta(base, head classifier.FileCounts) {
	d.Files++
	if head.Code >= base.Code {
		d.CodeAdded += int64(head.Code - base.Code)
	} else {
		d.CodeRemoved += int64(base.Code - head.Code)
	}
	if head.Comment > base.Comment {
		d.CommentAdded += int64(head.Comment - base.Comment)
	}
	if head.Blank > base.Blank {
		d.BlankAdded += int64(head.Blank - base.Blank)
	}
	d.TotalNet += int64(head.Code+head.Comment+head.Blank) -
		int64(base.Code+base.Comment+base.Blank)
}

func (d *LineDelta) merge(other LineDelta) {
	d.Files += other.Files
	d.CodeAdded += other.CodeAdded
	d.CodeRemoved += other.CodeRemoved
	d.CommentAdded += other.CommentAdded
	d.BlankAdded += other.BlankAdded
	d.TotalNet += other.TotalNet
}

// RefInfo names one endpoint of the comparison: a commit hash, or the
// synthetic INDEX / WORKDIR endpoints.
type RefInfo struct {
	Ref   string `json:"ref"`
	Short string `json:"short"`
}

// LanguageDelta is one language's row in the summary.
type LanguageDelta struct {
	Language string `json:"language"`
	LineDelta
}

// PerFile is one changed file's row, emitted when by-file detail is on.
type PerFile struct {
	Path         string `json:"path"`
	Status       string `json:"status"`
	Language     string `json:"language"`
	CodeDelta    int64  `json:"code_delta"`
	CommentDelta int64  `json:"comment_delta"`
	BlankDelta   int64  `json:"blank_delta"`
	TotalDelta   int64  `json:"total_delta"`
}

// Summary is a finished diff computation.
type Summary struct {
	BaseRef string  `json:"base_ref"`
	HeadRef string  `json:"head_ref"`
	Base    RefInfo `json:"base"`
	Head    RefInfo `json:"head"`

	Files         int64 `json:"files"`
	FilesAdded    int64 `json:"files_added"`
	FilesDeleted  int64 `json:"files_deleted"`
	FilesModified int64 `json:"files_modified"`
	FilesRenamed  int64 `json:"files_renamed"`

	// Languages is ordered by absolute net delta, largest first, name as
	// tiebreak.
	Languages []LanguageDelta `json:"languages"`

	ByFile []PerFile `json:"by_file,omitempty"`

	Totals LineDelta `json:"totals"`
}

// Thresholds gate a diff in CI. Zero values disable each check.
type Thresholds struct {
	// MaxCodeAdded caps Totals.CodeAdded.
	MaxCodeAdded int64

	// MaxTotalChanged caps the absolute value of Totals.TotalNet.
	MaxTotalChanged int64

	// MaxFiles caps the number of changed files.
	MaxFiles int64

	// PerLanguage caps CodeAdded per language name.
	PerLanguage map[string]int64
}

// Violations returns one message per exceeded threshold, empty when the
// summary passes.
func (t Thresholds) Violations(s *Summary) []string {
	var out []string
	if t.MaxCodeAdded > 0 && s.Totals.CodeAdded > t.MaxCodeAdded {
		out = append(out, fmt.Sprintf("code delta %d exceeds threshold %d",
			s.Totals.CodeAdded, t.MaxCodeAdded))
	}
	if t.MaxTotalChanged > 0 {
		net := s.Totals.TotalNet
		if net < 0 {
			net = -net
		}
		if net > t.MaxTotalChanged {
			out = append(out, fmt.Sprintf("total net delta %d exceeds threshold %d",
				s.Totals.TotalNet, t.MaxTotalChanged))
		}
	}
	if t.MaxFiles > 0 && s.Files > t.MaxFiles {
		out = append(out, fmt.Sprintf("files changed %d exceeds threshold %d",
			s.Files, t.MaxFiles))
	}
	if len(t.PerLanguage) > 0 {
		var violations []string
		for _, row := range s.Languages {
			limit, ok := t.PerLanguage[row.Language]
			if ok && row.CodeAdded > limit {
				violations = append(violations, fmt.Sprintf("%s>%d", row.Language, limit))
			}
		}
		if len(violations) > 0 {
			out = append(out, "per-language thresholds exceeded: "+strings.Join(violations, ", "))
		}
	}
	return out
}
