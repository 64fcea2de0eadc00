package repo

import (
	"errors"
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// LogEntry is one commit in a first-parent history walk.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Log walks history from HEAD following only the first parent of each
// commit. An unborn branch yields an empty log. limit <= 0 means no limit.
func (r *Repo) Log(limit int) ([]LogEntry, error) {
	head, err := r.CurrentCommit()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("log: %w", err)
	}
	return r.LogFrom(head, limit)
}

// LogFrom walks first-parent history starting at the given commit.
func (r *Repo) LogFrom(start object.Hash, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	cur := start
	for cur != "" {
		if limit > 0 && len(entries) >= limit {
			break
		}
		commit, err := r.Store.ReadCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("log: read %s: %w", cur, err)
		}
		entries = append(entries, LogEntry{Hash: cur, Commit: commit})

		if len(commit.Parents) == 0 {
			break
		}
		cur = commit.Parents[0]
	}
	return entries, nil
}
