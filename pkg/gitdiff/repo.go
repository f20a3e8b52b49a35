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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FileChange is one changed file between the two compared states.
// Status is "A", "M", "D" or "R". A zero hash means the corresponding
// side has no stored blob; the repository then falls back to the index
// or the working tree as documented on Base and Head.
type FileChange struct {
	Status  string
	OldPath string
	NewPath string
	OldHash plumbing.Hash
	NewHash plumbing.Hash
}

// PathHint is the path used for language resolution: the new path when
// the file still exists, otherwise the old one.
func (c FileChange) PathHint() string {
	if c.NewPath != "" {
		return c.NewPath
	}
	return c.OldPath
}

// BlobSource hands Compute the bytes of either side of a change. ok is
// false when that side does not exist (added or deleted files).
type BlobSource interface {
	BaseBytes(c FileChange) ([]byte, bool)
	HeadBytes(c FileChange) ([]byte, bool)
}

// Repository wraps an opened git repository and implements BlobSource
// over its object store, index and working tree.
type Repository struct {
	repo *git.Repository
	root string
}

// Open discovers the repository containing path, ascending like git does.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %s: %w", abs, err)
	}
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &Repository{repo: repo, root: root}, nil
}

// Head returns the commit HEAD points at.
func (r *Repository) Head() (plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash(), nil
}

// Resolve turns a revision expression (branch, tag, HEAD~2, hash prefix)
// into a commit hash.
func (r *Repository) Resolve(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve rev %q: %w", rev, err)
	}
	return *hash, nil
}

// MergeBase returns the best common ancestor of a and b.
func (r *Repository) MergeBase(a, b plumbing.Hash) (plumbing.Hash, error) {
	ca, err := r.repo.CommitObject(a)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	cb, err := r.repo.CommitObject(b)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	bases, err := ca.MergeBase(cb)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("merge-base: %w", err)
	}
	if len(bases) == 0 {
		return plumbing.ZeroHash, fmt.Errorf("no merge base between %s and %s", a, b)
	}
	return bases[0].Hash, nil
}

// ChangesBetween diffs two commits' trees with rename detection.
func (r *Repository) ChangesBetween(base, head plumbing.Hash) ([]FileChange, error) {
	baseTree, err := r.treeOf(base)
	if err != nil {
		return nil, err
	}
	headTree, err := r.treeOf(head)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(context.Background(), baseTree, headTree,
		&object.DiffTreeOptions{DetectRenames: true})
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	out := make([]FileChange, 0, len(changes))
	for _, change := range changes {
		fc := FileChange{
			OldPath: change.From.Name,
			NewPath: change.To.Name,
			OldHash: change.From.TreeEntry.Hash,
			NewHash: change.To.TreeEntry.Hash,
		}
		switch {
		case fc.OldPath == "":
			fc.Status = "A"
		case fc.NewPath == "":
			fc.Status = "D"
		case fc.OldPath != fc.NewPath:
			fc.Status = "R"
		default:
			fc.Status = "M"
		}
		out = append(out, fc)
	}
	return out, nil
}

// StagedChanges diffs HEAD against the index.
func (r *Repository) StagedChanges() ([]FileChange, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}

	head, err := r.Head()
	if err != nil {
		return nil, err
	}
	headTree, err := r.treeOf(head)
	if err != nil {
		return nil, err
	}
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var out []FileChange
	for path, st := range status {
		fc := FileChange{OldPath: path, NewPath: path}
		switch st.Staging {
		case git.Added:
			fc.Status = "A"
			fc.OldPath = ""
		case git.Modified:
			fc.Status = "M"
		case git.Deleted:
			fc.Status = "D"
			fc.NewPath = ""
		case git.Renamed:
			fc.Status = "R"
			fc.OldPath = st.Extra
		default:
			continue
		}
		if fc.OldPath != "" {
			if entry, err := headTree.FindEntry(fc.OldPath); err == nil {
				fc.OldHash = entry.Hash
			}
		}
		if fc.NewPath != "" {
			if entry, err := idx.Entry(fc.NewPath); err == nil {
				fc.NewHash = entry.Hash
			}
		}
		out = append(out, fc)
	}
	sortChanges(out)
	return out, nil
}

// WorktreeChanges diffs the index against the working tree. The head
// side of each change carries no hash; its bytes come from disk.
func (r *Repository) WorktreeChanges() ([]FileChange, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var out []FileChange
	for path, st := range status {
		fc := FileChange{OldPath: path, NewPath: path}
		switch st.Worktree {
		case git.Untracked:
			fc.Status = "A"
			fc.OldPath = ""
		case git.Modified:
			fc.Status = "M"
		case git.Deleted:
			fc.Status = "D"
			fc.NewPath = ""
		default:
			continue
		}
		if fc.OldPath != "" {
			if entry, err := idx.Entry(fc.OldPath); err == nil {
				fc.OldHash = entry.Hash
			}
		}
		out = append(out, fc)
	}
	sortChanges(out)
	return out, nil
}

// BaseBytes returns the pre-change bytes: the stored blob when a hash
// is known, nothing otherwise.
func (r *Repository) BaseBytes(c FileChange) ([]byte, bool) {
	return r.blobBytes(c.OldHash)
}

// HeadBytes returns the post-change bytes: the stored blob when a hash
// is known, otherwise the working-tree file.
func (r *Repository) HeadBytes(c FileChange) ([]byte, bool) {
	if data, ok := r.blobBytes(c.NewHash); ok {
		return data, true
	}
	if c.NewPath == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(c.NewPath)))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *Repository) blobBytes(hash plumbing.Hash) ([]byte, bool) {
	if hash.IsZero() {
		return nil, false
	}
	blob, err := r.repo.BlobObject(hash)
	if err != nil {
		return nil, false
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, false
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *Repository) treeOf(hash plumbing.Hash) (*object.Tree, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree of %s: %w", hash, err)
	}
	return tree, nil
}

func (r *Repository) status() (git.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("compute status: %w", err)
	}
	return status, nil
}

// sortChanges orders by path hint; git.Status iterates in map order.
func sortChanges(changes []FileChange) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].PathHint() < changes[j].PathHint()
	})
}
