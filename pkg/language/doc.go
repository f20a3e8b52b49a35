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

// Package language identifies the language of a source file and supplies its
// comment-marker set to the classifier.
//
// The registry is built once at startup from an embedded definition file
// (languages.yaml) and is immutable afterwards, so it can be shared across
// scan workers without synchronization. Construction fails fast on
// inconsistent data: duplicate language names, duplicate special filenames,
// extension collisions outside the documented acceptable set, or a block
// marker pair with an empty side.
//
// Resolution precedence, first match wins:
//
//  1. Special filename, case-insensitive (Makefile, Dockerfile,
//     CMakeLists.txt and friends).
//  2. Extension, case-insensitive, when exactly one language claims it.
//  3. Conflicting extension (.m, .v, .cl, .pp, .il, .cj): sniff the first
//     50 lines of content through an ordered per-group predicate table;
//     each group has one documented default when nothing matches.
//  4. No extension: parse a #! shebang, resolving /usr/bin/env indirection.
//  5. Otherwise the file has no language and the pipeline counts it as
//     ignored.
//
// Steps 3 and 4 may open the file; a read failure there degrades to "no
// language" rather than an error.
package language
