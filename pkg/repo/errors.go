package repo

import (
	"errors"
	"fmt"
	"strings"
)

// Externally observable failure categories. Call sites wrap these with
// fmt.Errorf("...: %w", ...) so callers match with errors.Is.
var (
	// ErrNotFound reports that a ref, branch, stash entry, or staged path
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists reports duplicate branch creation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument reports self-merge, self-rebase, deletion of the
	// current branch, or malformed stash reference syntax.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict reports that the workspace diverged from a stash being
	// applied.
	ErrConflict = errors.New("workspace conflict")
)

// ConflictError carries the workspace paths that diverged from a captured
// state. It matches ErrConflict under errors.Is.
type ConflictError struct {
	Paths []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("workspace conflict in: %s", strings.Join(e.Paths, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
