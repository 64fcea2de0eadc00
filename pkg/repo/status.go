package repo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// fingerprintEntry pairs a cheap xxh3 content fingerprint with the SHA-1
// object hash it resolved to. Keyed by path on the Repo, it lets repeated
// scans in one session skip re-hashing unchanged content.
type fingerprintEntry struct {
	fp   uint64
	hash object.Hash
}

// cachedBlobHash returns the object hash for content, consulting the
// per-session fingerprint cache before computing SHA-1.
func (r *Repo) cachedBlobHash(path string, content []byte) object.Hash {
	fp := xxh3.Hash(content)

	r.fpCacheMu.Lock()
	if e, ok := r.fpCache[path]; ok && e.fp == fp {
		r.fpCacheMu.Unlock()
		return e.hash
	}
	r.fpCacheMu.Unlock()

	h := object.HashObject(object.TypeBlob, content)

	r.fpCacheMu.Lock()
	r.fpCache[path] = fingerprintEntry{fp: fp, hash: h}
	r.fpCacheMu.Unlock()
	return h
}

// StatusResult classifies every path visible to the repository.
//
//	Staged    — index entry differs from (or is absent in) the HEAD tree
//	Modified  — workspace content differs from the index entry
//	Deleted   — present in the index but missing from the workspace
//	Untracked — present in the workspace but not in the index
type StatusResult struct {
	Branch    string
	Detached  bool
	Staged    []string
	Modified  []string
	Deleted   []string
	Untracked []string
}

// Status compares HEAD, the index, and the live workspace.
func (r *Repo) Status() (*StatusResult, error) {
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	res := &StatusResult{
		Branch:   head.Branch,
		Detached: head.Detached(),
	}
	if res.Detached {
		res.Branch = string(head.Commit)
	}

	idx, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	headFiles := make(map[string]object.Hash)
	headCommit, err := r.CurrentCommit()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("status: %w", err)
	}
	if err == nil && headCommit != "" {
		commit, err := r.Store.ReadCommit(headCommit)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		flat, err := r.FlattenTree(commit.Tree)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		for _, f := range flat {
			headFiles[f.Path] = f.Hash
		}
	}

	ws, err := r.CaptureWorkspace()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	indexed := make(map[string]object.Hash, idx.Len())
	for _, e := range idx.Entries() {
		indexed[e.Path] = e.Hash

		if headHash, ok := headFiles[e.Path]; !ok || headHash != e.Hash {
			res.Staged = append(res.Staged, e.Path)
		}

		wsHash, ok := ws.Files[e.Path]
		switch {
		case !ok:
			res.Deleted = append(res.Deleted, e.Path)
		case wsHash != e.Hash:
			res.Modified = append(res.Modified, e.Path)
		}
	}

	for p := range ws.Files {
		if _, ok := indexed[p]; !ok {
			res.Untracked = append(res.Untracked, p)
		}
	}

	sort.Strings(res.Staged)
	sort.Strings(res.Modified)
	sort.Strings(res.Deleted)
	sort.Strings(res.Untracked)
	return res, nil
}

// Clean reports whether nothing is staged, modified, or deleted.
func (s *StatusResult) Clean() bool {
	return len(s.Staged) == 0 && len(s.Modified) == 0 && len(s.Deleted) == 0
}
