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

import "strings"

// sniffRule maps a content predicate to a language name. Rules run in
// order; the first hit whose language is among the extension's claimants
// wins.
type sniffRule struct {
	language string
	match    func(content, lowered string) bool
}

// sniffGroup is the ordered rule table for one conflicting extension,
// with the documented default used when no predicate matches (including
// empty content). The defaults are a policy choice; revisit them here,
// not in the resolver.
type sniffGroup struct {
	rules    []sniffRule
	fallback string
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// sniffGroups holds the per-extension heuristics. Signals are listed
// strongest first; they were lifted from real-world corpora of each
// extension's claimants.
var sniffGroups = map[string]sniffGroup{
	"m": {
		fallback: "Objective-C",
		rules: []sniffRule{
			{"Objective-C", func(c, _ string) bool {
				return containsAny(c, "@interface", "@implementation", "@protocol",
					"@property", "#import", "NSObject", "NS_ASSUME")
			}},
			{"Mercury", func(c, _ string) bool {
				return containsAny(c, ":- module", ":- interface", ":- implementation",
					":- pred ", ":- func ")
			}},
			{"MATLAB", func(c, l string) bool {
				if strings.Contains(c, "function ") && containsAny(l, "end\n", "end;") {
					return true
				}
				return strings.Contains(c, "% ") ||
					containsAny(l, "fprintf", "disp(", "plot(")
			}},
			// Octave shares MATLAB's syntax; only its #-comments set it apart.
			{"Octave", func(c, _ string) bool {
				return strings.Contains(c, "#{") || strings.Contains(c, "\n# ")
			}},
		},
	},
	"v": {
		fallback: "Verilog",
		rules: []sniffRule{
			{"Coq", func(c, _ string) bool {
				return containsAny(c, "Theorem ", "Proof.", "Qed.", "Lemma ",
					"Definition ", "Require ")
			}},
			{"Verilog", func(c, _ string) bool {
				return containsAny(c, "module ", "endmodule", "wire ", "reg ", "always @")
			}},
		},
	},
	"cl": {
		fallback: "OpenCL",
		rules: []sniffRule{
			{"Lisp", func(c, _ string) bool {
				return containsAny(c, "(defun ", "(defmacro ", "(setq ") ||
					strings.HasPrefix(strings.TrimSpace(c), "(")
			}},
			{"OpenCL", func(c, _ string) bool {
				return containsAny(c, "__kernel", "__global", "get_global_id", "cl_")
			}},
		},
	},
	"pp": {
		fallback: "Puppet",
		rules: []sniffRule{
			{"Puppet", func(c, _ string) bool {
				if strings.Contains(c, "class ") &&
					containsAny(c, "=>", "node ", "define ") {
					return true
				}
				return containsAny(c, "include ", "$::")
			}},
			{"Pascal", func(c, _ string) bool {
				if containsAny(c, "program ", "procedure ", "uses ") {
					return true
				}
				return strings.Contains(c, "function ") &&
					containsAny(c, "begin", "Begin")
			}},
		},
	},
	"il": {
		fallback: ".NET IL",
		rules: []sniffRule{
			{".NET IL", func(c, _ string) bool {
				return containsAny(c, ".assembly", ".class", ".method", "IL_")
			}},
			{"SKILL", func(c, _ string) bool {
				return containsAny(c, "procedure(", "defun(") ||
					strings.HasPrefix(strings.TrimSpace(c), ";")
			}},
		},
	},
	"ils": {
		fallback: "SKILL",
		rules: []sniffRule{
			{"SKILL", func(c, _ string) bool {
				return containsAny(c, "procedure(", "defun(") ||
					strings.HasPrefix(strings.TrimSpace(c), ";")
			}},
		},
	},
	"cj": {
		fallback: "Cangjie",
		rules: []sniffRule{
			{"Clojure", func(c, _ string) bool {
				return containsAny(c, "(ns ", "(def ", "(defn ") ||
					strings.HasPrefix(strings.TrimSpace(c), "(")
			}},
			{"Cangjie", func(c, _ string) bool {
				return containsAny(c, "import ", "package ", "class ", "func ")
			}},
		},
	},
}

// sniff settles a conflicting extension by content. candidates are the
// registry indexes claiming ext; the winner must be one of them, otherwise
// the group default (and failing even that, the first claimant) is used.
func (r *Resolver) sniff(ext string, head []byte, candidates []int) (string, bool) {
	group, ok := sniffGroups[ext]
	if !ok {
		// Acceptable conflict without a rule table: declaration order decides.
		return r.reg.nameAt(candidates[0]), true
	}

	content := string(head)
	lowered := strings.ToLower(content)

	if len(strings.TrimSpace(content)) > 0 {
		for _, rule := range group.rules {
			if !rule.match(content, lowered) {
				continue
			}
			if idx, ok := r.reg.candidateByName(candidates, rule.language); ok {
				return r.reg.nameAt(idx), true
			}
		}
	}

	if idx, ok := r.reg.candidateByName(candidates, group.fallback); ok {
		return r.reg.nameAt(idx), true
	}
	return r.reg.nameAt(candidates[0]), true
}
