package objstore

import (
	"context"

	"github.com/corvid-systems/edendiff/objectid"
)

// ObjectSource is the read-only, async-friendly interface the diff
// engine loads trees (and, for commit resolution, commit records)
// through. A failed load for one ID must never poison future loads of
// the same or another ID, and concurrent GetTree calls for the same ID
// should be coalesced by the implementation rather than re-fetched.
type ObjectSource interface {
	// GetTree loads the tree named by id. On failure it returns a
	// *LoadError wrapping the underlying cause.
	GetTree(ctx context.Context, id objectid.ObjectID) (*Tree, error)

	// GetCommitRoot resolves a commit id to the ObjectID of its root
	// tree. On failure it returns an error wrapping ErrCommitNotFound.
	GetCommitRoot(ctx context.Context, id objectid.ObjectID) (objectid.ObjectID, error)
}
