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

// Package gitdiff reports line-count deltas between two states of a git
// repository: two revisions, HEAD versus the index, or the index versus
// the working tree.
//
// The repository layer produces FileChange records and blob bytes; the
// compute layer classifies both sides of every change and folds the
// differences into per-language and per-file deltas. Compute consumes a
// BlobSource rather than a repository, so it runs against plain byte
// maps in tests.
package gitdiff
