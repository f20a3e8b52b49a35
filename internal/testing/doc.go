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

// Package testing provides fixture helpers for sloc tests.
//
// Two kinds of fixtures are covered: plain file trees for scan tests,
// and git repositories for diff tests.
//
// # File Trees
//
// WriteTree materializes a map of relative paths into a temporary
// directory:
//
//	root := testing.WriteTree(t, map[string]string{
//	    "main.go":       "package main\n",
//	    "pkg/util.go":   "package pkg\n",
//	    ".gitignore":    "vendor/\n",
//	})
//
// # Git Repositories
//
// InitRepo, CommitAll, StageFile and RemoveFile build small histories
// on top of a written tree:
//
//	root := testing.WriteTree(t, map[string]string{"a.go": "package a\n"})
//	repo := testing.InitRepo(t, root)
//	base := testing.CommitAll(t, repo, "initial")
//	testing.WriteFile(t, root, "a.go", "package a\n\nfunc A() {}\n")
//	head := testing.CommitAll(t, repo, "add A")
//
// Commits use a fixed author and timestamp so hashes are reproducible.
package testing
