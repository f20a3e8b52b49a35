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

package gitdiff

import (
	"path"
	"sort"
	"strings"

	"github.com/kraklabs/sloc/pkg/classifier"
	"github.com/kraklabs/sloc/pkg/language"
)

// unknownLanguage buckets changed files no language claims; they still
// contribute to file counts and totals.
const unknownLanguage = "Unknown"

// Options filters and shapes a diff computation.
type Options struct {
	// Extensions restricts the diff to these extensions (lowercase, dot
	// optional). Extensionless files are dropped when the list is set.
	Extensions []string

	// ByFile keeps the per-file rows in the summary.
	ByFile bool
}

// Compute classifies both sides of every change and folds the deltas
// into a summary. It never touches the filesystem beyond what src does.
func Compute(changes []FileChange, src BlobSource, resolver *language.Resolver, opts Options) *Summary {
	allowed := extensionSet(opts.Extensions)

	perLang := make(map[string]*LineDelta)
	var langOrder []string
	var perFile []PerFile
	summary := &Summary{}

	for _, change := range changes {
		hint := change.PathHint()
		if hint == "" {
			continue
		}
		if allowed != nil && !allowed[extOf(hint)] {
			continue
		}

		baseBytes, hasBase := src.BaseBytes(change)
		headBytes, hasHead := src.HeadBytes(change)

		// Resolve on whichever side still has content, head preferred.
		sniffBytes := headBytes
		if !hasHead {
			sniffBytes = baseBytes
		}
		lang, ok := resolver.ResolveBytes(hint, sniffBytes)
		if !ok {
			lang = unknownLanguage
		}
		markers, _ := resolver.Registry().Markers(lang)

		var base, head classifier.FileCounts
		if hasBase {
			base = classifier.CountBytes(baseBytes, markers)
		}
		if hasHead {
			head = classifier.CountBytes(headBytes, markers)
		}

		perFile = append(perFile, PerFile{
			Path:         hint,
			Status:       change.Status,
			Language:     lang,
			CodeDelta:    int64(head.Code - base.Code),
			CommentDelta: int64(head.Comment - base.Comment),
			BlankDelta:   int64(head.Blank - base.Blank),
			TotalDelta:   int64(head.Total - base.Total),
		})

		delta, seen := perLang[lang]
		if !seen {
			delta = &LineDelta{}
			perLang[lang] = delta
			langOrder = append(langOrder, lang)
		}
		delta.AddFileDelta(base, head)

		summary.Files++
		switch change.Status {
		case "A":
			summary.FilesAdded++
		case "D":
			summary.FilesDeleted++
		case "R":
			summary.FilesRenamed++
		default:
			summary.FilesModified++
		}
	}

	summary.Languages = make([]LanguageDelta, 0, len(langOrder))
	for _, lang := range langOrder {
		summary.Languages = append(summary.Languages, LanguageDelta{
			Language:  lang,
			LineDelta: *perLang[lang],
		})
		summary.Totals.merge(*perLang[lang])
	}
	sort.Slice(summary.Languages, func(i, j int) bool {
		a, b := summary.Languages[i], summary.Languages[j]
		an, bn := abs64(a.TotalNet), abs64(b.TotalNet)
		if an != bn {
			return an > bn
		}
		return a.Language < b.Language
	})

	if opts.ByFile {
		summary.ByFile = perFile
	}
	return summary
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func extensionSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = true
		}
	}
	return set
}

func extOf(p string) string {
	base := strings.ToLower(path.Base(p))
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[i+1:]
	}
	return ""
}
