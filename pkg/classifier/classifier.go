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

import (
	"bufio"
	"bytes"
	"io"
)

// Markers is the comment-marker set of one language, as raw bytes.
//
// Line markers are ordered; the first prefix match wins. BlockStart and
// BlockEnd are either both empty (no block comments) or both non-empty.
// All matching is exact byte comparison, never regex.
type Markers struct {
	Line       [][]byte
	BlockStart []byte
	BlockEnd   []byte
}

// HasBlock reports whether the language defines a block-comment pair.
func (m Markers) HasBlock() bool {
	return len(m.BlockStart) > 0 && len(m.BlockEnd) > 0
}

// State is the per-file classifier state threaded across lines. The zero
// value is the start state. A file whose final block comment is never closed
// legitimately ends with inBlock set; that is not an error.
type State struct {
	inBlock  bool
	blockEnd []byte
}

// InBlock reports whether the state is inside an open block comment.
func (s *State) InBlock() bool {
	return s.inBlock
}

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineCode
)

// asciiSpace matches the whitespace bytes stripped for classification.
func asciiSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r'
}

func trimLeft(b []byte) []byte {
	for len(b) > 0 && asciiSpace(b[0]) {
		b = b[1:]
	}
	return b
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if !asciiSpace(c) {
			return false
		}
	}
	return true
}

// classifyLine classifies one line (without its terminator; a trailing \r has
// already been stripped by the caller) and advances the state.
//
// Mixed lines (a comment span plus non-whitespace content outside it) are
// always whole-line code.
func classifyLine(line []byte, m Markers, s *State) lineKind {
	trimmed := trimLeft(line)
	if len(trimmed) == 0 {
		// Blank wins unconditionally, even inside an open block comment.
		return lineBlank
	}

	if s.inBlock {
		idx := bytes.Index(trimmed, s.blockEnd)
		if idx < 0 {
			return lineComment
		}
		after := trimmed[idx+len(s.blockEnd):]
		s.inBlock = false
		s.blockEnd = nil
		if isBlank(after) {
			return lineComment
		}
		return lineCode
	}

	if m.HasBlock() {
		if start := bytes.Index(trimmed, m.BlockStart); start >= 0 {
			before := trimmed[:start]
			rest := trimmed[start+len(m.BlockStart):]
			if end := bytes.Index(rest, m.BlockEnd); end >= 0 {
				after := rest[end+len(m.BlockEnd):]
				if isBlank(before) && isBlank(after) {
					return lineComment
				}
				return lineCode
			}
			s.inBlock = true
			s.blockEnd = m.BlockEnd
			if isBlank(before) {
				return lineComment
			}
			return lineCode
		}
	}

	for _, marker := range m.Line {
		if bytes.HasPrefix(trimmed, marker) {
			return lineComment
		}
	}
	return lineCode
}

func (c *FileCounts) count(kind lineKind) {
	c.Total++
	switch kind {
	case lineBlank:
		c.Blank++
	case lineComment:
		c.Comment++
	case lineCode:
		c.Code++
	}
}

// stripEOL removes the line terminator from a raw line: the trailing \n if
// present, then one \r immediately before it. The line still counts.
func stripEOL(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

// CountBytes classifies a complete in-memory buffer. A final run of bytes
// without a terminating newline still counts as a line; a trailing newline
// does not open an extra empty line.
func CountBytes(content []byte, m Markers) FileCounts {
	counts := OneFile()
	var state State
	for len(content) > 0 {
		var line []byte
		if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
			line = content[:idx+1]
			content = content[idx+1:]
		} else {
			line = content
			content = nil
		}
		counts.count(classifyLine(stripEOL(line), m, &state))
	}
	return counts
}

// readerBufSize is the bufio buffer used for sequential classification.
// Lines longer than the buffer are reassembled across fills, so chunk
// boundaries never influence the result.
const readerBufSize = 64 * 1024

// Count classifies a byte stream delivered in chunks of arbitrary size.
// It produces bit-identical results to CountBytes over the same content;
// that equivalence is the classifier's primary correctness property.
func Count(r io.Reader, m Markers) (FileCounts, error) {
	counts := OneFile()
	var state State

	br := bufio.NewReaderSize(r, readerBufSize)
	var spill []byte // holds a partial line when it outgrows the buffer
	for {
		chunk, err := br.ReadSlice('\n')
		switch {
		case err == nil:
			line := chunk
			if len(spill) > 0 {
				spill = append(spill, chunk...)
				line = spill
			}
			counts.count(classifyLine(stripEOL(line), m, &state))
			spill = spill[:0]
		case err == bufio.ErrBufferFull:
			spill = append(spill, chunk...)
		case err == io.EOF:
			if len(chunk) > 0 || len(spill) > 0 {
				line := append(spill, chunk...)
				counts.count(classifyLine(stripEOL(line), m, &state))
			}
			return counts, nil
		default:
			return FileCounts{}, err
		}
	}
}
