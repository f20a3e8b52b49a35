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

// Package classifier counts code, comment, and blank lines in source files.
//
// The classifier is a byte-level line state machine. It never parses the
// language: a line is comment when it starts with one of the language's
// line-comment markers or falls inside a block comment, blank when it
// contains only whitespace, and code otherwise. Comment markers inside
// string literals are not treated specially; this is a documented
// approximation shared with cloc-style tools.
//
// Input can arrive as a contiguous byte slice, an io.Reader chunked at
// arbitrary boundaries, or a file on disk. All delivery paths produce
// identical FileCounts for identical content. Large files are memory-mapped
// when they reach a configurable threshold (see SourceOptions); both the
// mapped and the buffered path feed the same per-line machine.
//
// One deliberate semantic choice, inherited from the reference counter:
// a whitespace-only line inside an open block comment counts as blank,
// not comment.
package classifier
