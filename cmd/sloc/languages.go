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

package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sloc/internal/errors"
	"github.com/kraklabs/sloc/internal/output"
	"github.com/kraklabs/sloc/internal/ui"
	"github.com/kraklabs/sloc/pkg/language"
)

// languageInfo is one language row for JSON output.
type languageInfo struct {
	Name             string   `json:"name"`
	Extensions       []string `json:"extensions,omitempty"`
	SpecialFilenames []string `json:"special_filenames,omitempty"`
}

// runLanguages executes the 'languages' CLI command, listing every
// language the scanner recognizes together with its extensions.
//
// Flags:
//   - --json: Output as JSON
//
// Examples:
//
//	sloc languages
//	sloc languages --json
func runLanguages(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("languages", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sloc languages [options]

Lists the languages sloc recognizes, with their file extensions and
special filenames.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.JSON = *jsonOut

	registry, err := language.Load()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot load language definitions",
			"The embedded language table failed validation",
			"This is a build defect; reinstall sloc",
			err,
		), globals.JSON)
	}

	specs := registry.Specs()

	if *jsonOut {
		infos := make([]languageInfo, 0, len(specs))
		for _, spec := range specs {
			infos = append(infos, languageInfo{
				Name:             spec.Name,
				Extensions:       spec.Extensions,
				SpecialFilenames: spec.SpecialFilenames,
			})
		}
		if err := output.JSON(infos); err != nil {
			errors.FatalError(err, true)
		}
		return
	}

	ui.Header(fmt.Sprintf("Supported Languages (%d)", registry.Len()))
	for _, spec := range specs {
		exts := strings.Join(spec.Extensions, ", ")
		if len(spec.SpecialFilenames) > 0 {
			names := strings.Join(spec.SpecialFilenames, ", ")
			if exts != "" {
				exts += "; " + names
			} else {
				exts = names
			}
		}
		fmt.Printf("%-24s %s\n", spec.Name, ui.DimText(exts))
	}
}
