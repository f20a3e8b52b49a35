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

package testing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// WriteTree materializes a file tree under a fresh temporary directory
// and returns its root. Map keys are slash-separated relative paths;
// intermediate directories are created as needed. The directory is
// removed when the test finishes.
//
// Example:
//
//	root := testing.WriteTree(t, map[string]string{
//	    "main.go":        "package main\n",
//	    "docs/README.md": "# Title\n",
//	})
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
	return root
}

// WriteFile writes one file below root, creating parent directories.
// The rel path is slash separated.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// InitRepo initializes a git repository with a worktree at root.
//
// Example:
//
//	root := testing.WriteTree(t, map[string]string{"main.go": "package main\n"})
//	repo := testing.InitRepo(t, root)
//	base := testing.CommitAll(t, repo, "initial")
func InitRepo(t *testing.T, root string) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	return repo
}

// CommitAll stages every change in the worktree and commits it with a
// fixed author, returning the commit hash. The fixed identity keeps
// hashes stable across environments that have no git config.
func CommitAll(t *testing.T, repo *git.Repository, message string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to stage changes: %v", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "sloc-test",
			Email: "test@kraklabs.com",
			When:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

// StageFile writes content to rel below the worktree root and stages
// it, without committing. Useful for index-versus-HEAD scenarios.
func StageFile(t *testing.T, repo *git.Repository, rel, content string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	WriteFile(t, wt.Filesystem.Root(), rel, content)
	if _, err := wt.Add(rel); err != nil {
		t.Fatalf("failed to stage %s: %v", rel, err)
	}
}

// RemoveFile deletes rel from the worktree and stages the deletion.
func RemoveFile(t *testing.T, repo *git.Repository, rel string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if _, err := wt.Remove(rel); err != nil {
		t.Fatalf("failed to remove %s: %v", rel, err)
	}
}
