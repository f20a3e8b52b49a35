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

package classifier

// FileCounts tallies the classified lines of one file, or of any number of
// merged files. Invariant: Total == Code + Comment + Blank.
//
// FileCounts forms a commutative monoid under Merge with the zero value as
// identity, which is what makes the scan pipeline's aggregate independent of
// worker count and scheduling order.
type FileCounts struct {
	// Files is 1 for a single classified file and accumulates under Merge.
	Files int `json:"files"`

	// Total is the number of lines in the file.
	Total int `json:"total"`

	// Code is the number of lines carrying at least some non-comment content.
	Code int `json:"code"`

	// Comment is the number of whole-line comments.
	Comment int `json:"comment"`

	// Blank is the number of whitespace-only lines.
	Blank int `json:"blank"`
}

// OneFile returns a zero tally for a single file.
func OneFile() FileCounts {
	return FileCounts{Files: 1}
}

// Merge adds other into c pointwise.
func (c *FileCounts) Merge(other FileCounts) {
	c.Files += other.Files
	c.Total += other.Total
	c.Code += other.Code
	c.Comment += other.Comment
	c.Blank += other.Blank
}

// IsZero reports whether the tally is the merge identity.
func (c FileCounts) IsZero() bool {
	return c == FileCounts{}
}
