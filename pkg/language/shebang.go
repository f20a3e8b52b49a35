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
	"bytes"
	"path"
	"strings"
)

// interpreters maps interpreter-name substrings to the language they
// run. Substring matching catches versioned and variant names alike:
// python3.12, pythonw, ruby2.7, nodemon. Bare "sh" is handled as an
// exact case so it cannot fire inside unrelated names.
var interpreters = []struct {
	substr   string
	language string
}{
	{"python", "Python"},
	{"bash", "Shell"},
	{"zsh", "Shell"},
	{"ksh", "Shell"},
	{"fish", "Shell"},
	{"node", "JavaScript"},
	{"deno", "JavaScript"},
	{"perl", "Perl"},
	{"ruby", "Ruby"},
	{"php", "PHP"},
}

// parseShebang reads a `#!` interpreter line from the head of a file and
// maps it to a language name. `#!/usr/bin/env X` is unwrapped to X,
// skipping env's own flags (`-S`, `-i`, NAME=value assignments).
func parseShebang(head []byte) (string, bool) {
	head = bytes.TrimLeft(head, " \t\r\n")
	if !bytes.HasPrefix(head, []byte("#!")) {
		return "", false
	}
	line := head[2:]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return "", false
	}

	interp := path.Base(fields[0])
	if interp == "env" {
		interp = ""
		for _, arg := range fields[1:] {
			if strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
				continue
			}
			interp = path.Base(arg)
			break
		}
		if interp == "" {
			return "", false
		}
	}

	interp = strings.ToLower(interp)
	if interp == "sh" {
		return "Shell", true
	}
	for _, entry := range interpreters {
		if strings.Contains(interp, entry.substr) {
			return entry.language, true
		}
	}
	return "", false
}
