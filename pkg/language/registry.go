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
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/sloc/pkg/classifier"
)

//go:embed languages.yaml
var embeddedSpecs []byte

// Spec describes one language: how to recognize its files and which byte
// sequences open comments. Specs are immutable once the registry is built.
type Spec struct {
	// Name is the unique, non-empty display name.
	Name string `yaml:"name"`

	// Extensions claims file extensions, lowercase, without the dot.
	Extensions []string `yaml:"extensions"`

	// SpecialFilenames claims whole filenames, matched case-insensitively.
	SpecialFilenames []string `yaml:"special_filenames"`

	// LineMarkers is the ordered list of line-comment prefixes.
	LineMarkers []string `yaml:"line_markers"`

	// BlockMarkers is a [start, end] pair, or absent. Both sides must be
	// non-empty when present.
	BlockMarkers []string `yaml:"block_markers"`
}

// acceptableConflicts are the extensions that more than one language may
// claim; the resolver settles them by content sniffing (see sniff.go).
// Anything else colliding is a data bug and fails registry construction.
var acceptableConflicts = map[string]bool{
	"m":   true,
	"v":   true,
	"cl":  true,
	"pp":  true,
	"il":  true,
	"ils": true,
	"cj":  true,
}

// Registry is the immutable language table shared by resolver and pipeline.
type Registry struct {
	specs     []Spec
	byName    map[string]int
	byExt     map[string]int   // extensions with exactly one claimant
	conflicts map[string][]int // extensions with several claimants
	bySpecial map[string]int   // lowercase special filename -> spec index
	markers   []classifier.Markers
}

// Load parses the embedded language definitions and builds the registry.
// Call it once at startup and share the result; the registry needs no
// synchronization afterwards.
func Load() (*Registry, error) {
	var specs []Spec
	if err := yaml.Unmarshal(embeddedSpecs, &specs); err != nil {
		return nil, fmt.Errorf("parse embedded languages.yaml: %w", err)
	}
	return NewRegistry(specs)
}

// NewRegistry validates specs and builds the lookup tables. It is exported
// so tests can construct small registries with hand-picked specs.
func NewRegistry(specs []Spec) (*Registry, error) {
	r := &Registry{
		specs:     specs,
		byName:    make(map[string]int, len(specs)),
		byExt:     make(map[string]int),
		conflicts: make(map[string][]int),
		bySpecial: make(map[string]int),
		markers:   make([]classifier.Markers, len(specs)),
	}

	extClaims := make(map[string][]int)
	for i, spec := range specs {
		if strings.TrimSpace(spec.Name) == "" {
			return nil, fmt.Errorf("language at index %d has an empty name", i)
		}
		if _, dup := r.byName[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate language name %q", spec.Name)
		}
		r.byName[spec.Name] = i

		for _, ext := range spec.Extensions {
			lower := strings.ToLower(ext)
			extClaims[lower] = append(extClaims[lower], i)
		}
		for _, name := range spec.SpecialFilenames {
			lower := strings.ToLower(name)
			if prev, dup := r.bySpecial[lower]; dup {
				return nil, fmt.Errorf("special filename %q claimed by both %q and %q",
					name, specs[prev].Name, spec.Name)
			}
			r.bySpecial[lower] = i
		}

		switch len(spec.BlockMarkers) {
		case 0:
			// no block comments
		case 2:
			if spec.BlockMarkers[0] == "" || spec.BlockMarkers[1] == "" {
				return nil, fmt.Errorf("language %q has an empty block marker side", spec.Name)
			}
		default:
			return nil, fmt.Errorf("language %q: block_markers must be a [start, end] pair", spec.Name)
		}

		r.markers[i] = compileMarkers(spec)
	}

	for ext, claimants := range extClaims {
		if len(claimants) == 1 {
			r.byExt[ext] = claimants[0]
			continue
		}
		if !acceptableConflicts[ext] {
			names := make([]string, 0, len(claimants))
			for _, idx := range claimants {
				names = append(names, specs[idx].Name)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("extension .%s claimed by %s without a sniff rule",
				ext, strings.Join(names, ", "))
		}
		r.conflicts[ext] = claimants
	}

	return r, nil
}

func compileMarkers(spec Spec) classifier.Markers {
	m := classifier.Markers{Line: make([][]byte, 0, len(spec.LineMarkers))}
	for _, marker := range spec.LineMarkers {
		m.Line = append(m.Line, []byte(marker))
	}
	if len(spec.BlockMarkers) == 2 {
		m.BlockStart = []byte(spec.BlockMarkers[0])
		m.BlockEnd = []byte(spec.BlockMarkers[1])
	}
	return m
}

// Markers returns the compiled comment markers for a language name.
func (r *Registry) Markers(name string) (classifier.Markers, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return classifier.Markers{}, false
	}
	return r.markers[idx], true
}

// Specs returns the registry's specs in declaration order. Callers must not
// mutate the returned slice.
func (r *Registry) Specs() []Spec {
	return r.specs
}

// Names returns all language names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		names = append(names, spec.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	return len(r.specs)
}

func (r *Registry) nameAt(idx int) string {
	return r.specs[idx].Name
}

// candidateByName finds the candidate index whose spec carries name, used by
// the sniff tables to map a predicate hit back to a conflicting claimant.
func (r *Registry) candidateByName(candidates []int, name string) (int, bool) {
	for _, idx := range candidates {
		if r.specs[idx].Name == name {
			return idx, true
		}
	}
	return 0, false
}
