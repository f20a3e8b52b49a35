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
	"sort"
	"time"

	"github.com/kraklabs/sloc/pkg/classifier"
)

// Row is one language's aggregated tally in the final report.
type Row struct {
	Language string                `json:"language"`
	Counts   classifier.FileCounts `json:"counts"`
}

// Stats are the scan-level tallies that sit next to the line counts.
type Stats struct {
	// FilesSeen is every file handed to a worker.
	FilesSeen int64 `json:"files_seen"`

	// Ignored counts files with no resolvable language plus files dropped
	// by a size filter.
	Ignored int64 `json:"ignored"`

	// Empty counts zero-byte files dropped under SkipEmpty.
	Empty int64 `json:"empty"`

	// Errors counts files that could not be opened or read.
	Errors int64 `json:"errors"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Result is a finished scan: rows in presentation order, grand totals,
// and statistics.
type Result struct {
	Languages []Row                 `json:"languages"`
	Total     classifier.FileCounts `json:"total"`
	Stats     Stats                 `json:"stats"`
}

// sortRows applies the presentation order: descending code, then
// descending total, then ascending name. The name tiebreak makes the
// order total, so equal inputs always render identically.
func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Counts.Code != b.Counts.Code {
			return a.Counts.Code > b.Counts.Code
		}
		if a.Counts.Total != b.Counts.Total {
			return a.Counts.Total > b.Counts.Total
		}
		return a.Language < b.Language
	})
}
