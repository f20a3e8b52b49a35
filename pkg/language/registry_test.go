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

package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedData(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err, "embedded languages.yaml must build a valid registry")
	assert.Greater(t, reg.Len(), 50)

	// Languages the rest of the tool hard-codes must exist.
	for _, name := range []string{
		"Go", "Python", "Shell", "JavaScript", "Perl", "Ruby", "PHP",
		"Objective-C", "MATLAB", "Verilog", "Coq", "OpenCL",
		"Puppet", "Pascal", "Make", "Dockerfile", "CMake",
	} {
		_, ok := reg.Markers(name)
		assert.True(t, ok, "missing language %q", name)
	}
}

func TestEmbeddedDataConsistency(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	for _, spec := range reg.Specs() {
		for _, ext := range spec.Extensions {
			assert.Equal(t, strings.ToLower(ext), ext,
				"%s: extension %q must be lowercase", spec.Name, ext)
			assert.False(t, strings.HasPrefix(ext, "."),
				"%s: extension %q must not carry a dot", spec.Name, ext)
		}
		for _, name := range spec.SpecialFilenames {
			assert.Equal(t, strings.ToLower(name), name,
				"%s: special filename %q must be lowercase", spec.Name, name)
		}
		for _, marker := range spec.LineMarkers {
			assert.NotEmpty(t, marker, "%s: empty line marker", spec.Name)
		}
	}

	// Every acceptable conflict carried by the data has a sniff table whose
	// fallback maps to a real claimant, so sniffing can never dead-end.
	resolver := NewResolver(reg)
	for ext, candidates := range reg.conflicts {
		group, ok := sniffGroups[ext]
		if !ok {
			continue
		}
		_, ok = resolver.reg.candidateByName(candidates, group.fallback)
		assert.True(t, ok, "sniff fallback %q for .%s is not a claimant", group.fallback, ext)
	}
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name    string
		specs   []Spec
		wantErr string
	}{
		{
			name:    "empty name",
			specs:   []Spec{{Name: "  "}},
			wantErr: "empty name",
		},
		{
			name: "duplicate name",
			specs: []Spec{
				{Name: "Go", Extensions: []string{"go"}},
				{Name: "Go", Extensions: []string{"golang"}},
			},
			wantErr: "duplicate language name",
		},
		{
			name: "duplicate special filename",
			specs: []Spec{
				{Name: "Make", SpecialFilenames: []string{"makefile"}},
				{Name: "Mk", SpecialFilenames: []string{"Makefile"}},
			},
			wantErr: "special filename",
		},
		{
			name: "unacceptable extension conflict",
			specs: []Spec{
				{Name: "A", Extensions: []string{"zz"}},
				{Name: "B", Extensions: []string{"zz"}},
			},
			wantErr: "without a sniff rule",
		},
		{
			name:    "half a block pair",
			specs:   []Spec{{Name: "X", BlockMarkers: []string{"/*"}}},
			wantErr: "must be a [start, end] pair",
		},
		{
			name:    "empty block side",
			specs:   []Spec{{Name: "X", BlockMarkers: []string{"/*", ""}}},
			wantErr: "empty block marker side",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.specs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryLookups(t *testing.T) {
	reg, err := NewRegistry([]Spec{
		{Name: "Go", Extensions: []string{"go"}, LineMarkers: []string{"//"}, BlockMarkers: []string{"/*", "*/"}},
		{Name: "Python", Extensions: []string{"py"}, LineMarkers: []string{"#"}},
	})
	require.NoError(t, err)

	m, ok := reg.Markers("Go")
	require.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("//")}, m.Line)
	assert.Equal(t, []byte("/*"), m.BlockStart)
	assert.Equal(t, []byte("*/"), m.BlockEnd)
	assert.True(t, m.HasBlock())

	m, ok = reg.Markers("Python")
	require.True(t, ok)
	assert.False(t, m.HasBlock())

	_, ok = reg.Markers("Fortran")
	assert.False(t, ok)

	assert.Equal(t, []string{"Go", "Python"}, reg.Names())
	assert.Equal(t, 2, reg.Len())
}
