package objstore

import (
	"errors"
	"fmt"

	"github.com/corvid-systems/edendiff/objectid"
)

// ErrCommitNotFound is the fatal error returned when a commit-ish
// cannot be resolved to a root tree.
var ErrCommitNotFound = errors.New("commit not found")

// CommitNotFoundError carries the offending id alongside the sentinel
// so callers can still errors.Is(err, ErrCommitNotFound) while
// reporting which commit failed to resolve.
type CommitNotFoundError struct {
	CommitID objectid.ObjectID
}

func (e *CommitNotFoundError) Error() string {
	return fmt.Sprintf("commit not found: %s", e.CommitID)
}

func (e *CommitNotFoundError) Unwrap() error { return ErrCommitNotFound }

// LoadError localizes a load failure to the subtree identified by
// ID; it is never fatal to the overall run.
type LoadError struct {
	ID  objectid.ObjectID
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load object %s: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
