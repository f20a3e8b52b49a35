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
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// sniffLineLimit caps how much content the resolver samples for
// conflicting-extension sniffing.
const sniffLineLimit = 50

// builtinSpecials identify a language independent of any registry entry.
var builtinSpecials = map[string]string{
	"makefile":       "Make",
	"dockerfile":     "Dockerfile",
	"cmakelists.txt": "CMake",
}

// Resolver maps file paths to language names, lazily reading content when
// the path alone is ambiguous. It is stateless apart from the shared
// registry and safe for concurrent use.
type Resolver struct {
	reg *Registry
}

// NewResolver returns a resolver over reg.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Registry exposes the backing registry.
func (r *Resolver) Registry() *Registry {
	return r.reg
}

// Resolve identifies the language of the file at path, opening it only when
// the extension is ambiguous or missing. ok is false when no language
// claims the file; such files are ignored by the pipeline, never failed.
func (r *Resolver) Resolve(path string) (name string, ok bool) {
	return r.resolve(path, func(limit int) ([]byte, bool) {
		return readHead(path, limit)
	})
}

// ResolveBytes is the no-filesystem variant used by diff mode: the caller
// already holds the content (for example a git blob) and path is only a
// hint. Sniffing and shebang detection read from content.
func (r *Resolver) ResolveBytes(path string, content []byte) (name string, ok bool) {
	return r.resolve(path, func(limit int) ([]byte, bool) {
		return headOf(content, limit), true
	})
}

// resolve implements the precedence chain. load fetches up to limit lines of
// content and reports whether the read succeeded.
func (r *Resolver) resolve(path string, load func(limit int) ([]byte, bool)) (string, bool) {
	base := strings.ToLower(filepath.Base(path))

	if idx, ok := r.reg.bySpecial[base]; ok {
		return r.reg.nameAt(idx), true
	}
	if name, ok := builtinSpecials[base]; ok {
		return name, true
	}

	// A leading dot alone (".bashrc") is a hidden name, not an extension.
	ext := ""
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		ext = base[i+1:]
	}
	if ext == "" {
		// No extension: the shebang is the only signal left.
		head, ok := load(1)
		if !ok {
			return "", false
		}
		return parseShebang(head)
	}

	if idx, ok := r.reg.byExt[ext]; ok {
		return r.reg.nameAt(idx), true
	}

	if candidates, ok := r.reg.conflicts[ext]; ok {
		head, ok := load(sniffLineLimit)
		if !ok {
			return "", false
		}
		return r.sniff(ext, head, candidates)
	}

	return "", false
}

// readHead reads up to limit lines from path. A failed open or read
// reports ok=false, which the resolver degrades to "no language".
func readHead(path string, limit int) ([]byte, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var head []byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lines := 0; lines < limit && scanner.Scan(); lines++ {
		head = append(head, scanner.Bytes()...)
		head = append(head, '\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, false
	}
	return head, true
}

// headOf slices the first limit lines out of an in-memory buffer.
func headOf(content []byte, limit int) []byte {
	seen := 0
	for i, b := range content {
		if b != '\n' {
			continue
		}
		seen++
		if seen == limit {
			return content[:i+1]
		}
	}
	return content
}
