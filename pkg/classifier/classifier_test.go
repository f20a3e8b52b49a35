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
	"bytes"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cMarkers() Markers {
	return Markers{
		Line:       [][]byte{[]byte("//")},
		BlockStart: []byte("/*"),
		BlockEnd:   []byte("*/"),
	}
}

func lineOnlyMarkers() Markers {
	return Markers{Line: [][]byte{[]byte("#")}}
}

func TestCountBytes_MixedContent(t *testing.T) {
	content := []byte("// line\ncode\n/* block */\ncode /* mid */ more\n/* start\ncontinued\nend */\n")
	counts := CountBytes(content, cMarkers())

	assert.Equal(t, 1, counts.Files)
	assert.Equal(t, 7, counts.Total)
	assert.Equal(t, 2, counts.Code)
	assert.Equal(t, 5, counts.Comment)
	assert.Equal(t, 0, counts.Blank)
}

func TestCountBytes_UnterminatedBlock(t *testing.T) {
	content := []byte("code\n/* open\nnever closed")
	counts := CountBytes(content, cMarkers())

	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 1, counts.Code)
	assert.Equal(t, 2, counts.Comment)
}

func TestCountBytes_BlankInsideBlock(t *testing.T) {
	content := []byte("/*\n\n*/\n")
	counts := CountBytes(content, cMarkers())

	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 2, counts.Comment)
	assert.Equal(t, 1, counts.Blank, "blank lines stay blank even inside a block comment")
}

func TestCountBytes_MixedLinesAreCode(t *testing.T) {
	cases := map[string]string{
		"code before start":     "x /* c */\n",
		"code after end":        "/* c */ x\n",
		"code after open":       "x /* opens\n",
		"close then code":       "x\n/* a\nend */ y\n",
		"line marker mid-line":  "x // trailing\n",
	}
	for name, content := range cases {
		counts := CountBytes([]byte(content), cMarkers())
		assert.Equal(t, strings.Count(content, "x")+strings.Count(content, "y"), counts.Code, name)
	}
}

func TestCountBytes_LineMarkerOnly(t *testing.T) {
	content := []byte("# comment\nvalue = 1\n\n# tail")
	counts := CountBytes(content, lineOnlyMarkers())

	assert.Equal(t, 4, counts.Total)
	assert.Equal(t, 1, counts.Code)
	assert.Equal(t, 2, counts.Comment)
	assert.Equal(t, 1, counts.Blank)
}

func TestCountBytes_NoMarkers(t *testing.T) {
	// Plain-text languages classify every non-blank line as code.
	content := []byte("anything\n// even this\n\n")
	counts := CountBytes(content, Markers{})

	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 2, counts.Code)
	assert.Equal(t, 0, counts.Comment)
	assert.Equal(t, 1, counts.Blank)
}

func TestCountBytes_CRLF(t *testing.T) {
	content := []byte("code\r\n\r\n// c\r\n")
	counts := CountBytes(content, cMarkers())

	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 1, counts.Code)
	assert.Equal(t, 1, counts.Comment)
	assert.Equal(t, 1, counts.Blank)
}

func TestCountBytes_LineTermination(t *testing.T) {
	m := cMarkers()

	assert.Equal(t, 2, CountBytes([]byte("a\nb"), m).Total, "final unterminated run is a line")
	assert.Equal(t, 1, CountBytes([]byte("a\n"), m).Total, "trailing newline opens no extra line")
	assert.Equal(t, 0, CountBytes(nil, m).Total)
	assert.Equal(t, 1, CountBytes(nil, m).Files)
}

func TestCountBytes_Invariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pieces := []string{"code\n", "// c\n", "\n", "/*\n", "*/\n", "x /* y */ z\n", "   \t\n", "\r\n"}
	for i := 0; i < 200; i++ {
		var buf bytes.Buffer
		for j := 0; j < rng.Intn(40); j++ {
			buf.WriteString(pieces[rng.Intn(len(pieces))])
		}
		counts := CountBytes(buf.Bytes(), cMarkers())
		require.Equal(t, counts.Total, counts.Code+counts.Comment+counts.Blank,
			"iteration %d: %q", i, buf.String())
	}
}

// chunkedReader yields at most n bytes per Read so streaming sees
// arbitrary chunk boundaries.
type chunkedReader struct {
	data []byte
	n    int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.n
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestCount_MatchesCountBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pieces := []string{"code\n", "// c\n", "\n", "/* open\n", "closed */\n", "a /* b */ c\n", "last"}
	for i := 0; i < 100; i++ {
		var buf bytes.Buffer
		for j := 0; j < rng.Intn(60); j++ {
			buf.WriteString(pieces[rng.Intn(len(pieces))])
		}
		want := CountBytes(buf.Bytes(), cMarkers())
		for _, chunk := range []int{1, 3, 17, 4096} {
			got, err := Count(&chunkedReader{data: buf.Bytes(), n: chunk}, cMarkers())
			require.NoError(t, err)
			require.Equal(t, want, got, "chunk size %d, iteration %d", chunk, i)
		}
	}
}

func TestCount_LongLines(t *testing.T) {
	// Lines longer than the internal buffer must be reassembled, not split.
	long := strings.Repeat("x", readerBufSize*2)
	content := []byte("// " + long + "\n" + long + "\n/* " + long + " */\n")
	want := CountBytes(content, cMarkers())
	got, err := Count(bytes.NewReader(content), cMarkers())

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Comment)
	assert.Equal(t, 1, got.Code)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestCount_ReadError(t *testing.T) {
	_, err := Count(failingReader{}, cMarkers())
	assert.Error(t, err)
}

func TestFileCounts_Merge(t *testing.T) {
	a := FileCounts{Files: 1, Total: 10, Code: 6, Comment: 3, Blank: 1}
	b := FileCounts{Files: 2, Total: 5, Code: 5}

	a.Merge(b)
	assert.Equal(t, FileCounts{Files: 3, Total: 15, Code: 11, Comment: 3, Blank: 1}, a)

	var zero FileCounts
	zero.Merge(FileCounts{})
	assert.True(t, zero.IsZero())
}

func TestState_UnterminatedIsNotError(t *testing.T) {
	var s State
	classifyLine([]byte("/* open"), cMarkers(), &s)
	assert.True(t, s.InBlock())
}
