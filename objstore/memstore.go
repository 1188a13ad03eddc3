package objstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/corvid-systems/edendiff/objectid"
)

// MemoryStore is an in-memory ObjectSource used by the diff engine's
// test suite to build exact tree fixtures and to inject load failures
// at chosen paths, building fixtures directly in Go rather than
// through the on-disk format.
type MemoryStore struct {
	mu      sync.Mutex
	trees   map[objectid.ObjectID]*Tree
	commits map[objectid.ObjectID]*CommitRecord
	fail    map[objectid.ObjectID]error
}

// NewMemoryStore returns an empty in-memory object source.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trees:   make(map[objectid.ObjectID]*Tree),
		commits: make(map[objectid.ObjectID]*CommitRecord),
		fail:    make(map[objectid.ObjectID]error),
	}
}

// PutTree registers a tree under a synthetic, caller-chosen ID. Tests
// name their own ids (e.g. derived from a short fixture label) since
// they never round-trip through the on-disk SHA-1 format.
func (m *MemoryStore) PutTree(id objectid.ObjectID, t *Tree) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trees[id] = NewTree(t.Entries)
}

// PutCommit registers a commit record under id.
func (m *MemoryStore) PutCommit(id objectid.ObjectID, rec *CommitRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits[id] = rec
}

// FailTree causes the next (and only the next) GetTree(id) call to
// fail with err, modeling a localized tree load failure.
func (m *MemoryStore) FailTree(id objectid.ObjectID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[id] = err
}

// GetTree implements ObjectSource. Unlike ObjectStore, lookups are a
// plain map read with nothing to coalesce; MemoryStore exists purely
// to hand the engine hand-built fixtures and injected failures in
// tests, not to exercise the concurrency model itself (ObjectStore's
// own tests cover that).
func (m *MemoryStore) GetTree(ctx context.Context, id objectid.ObjectID) (*Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[id]; ok {
		delete(m.fail, id)
		return nil, &LoadError{ID: id, Err: err}
	}
	t, ok := m.trees[id]
	if !ok {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("no such tree: %s", id)}
	}
	return t, nil
}

// GetCommitRoot implements ObjectSource.
func (m *MemoryStore) GetCommitRoot(ctx context.Context, id objectid.ObjectID) (objectid.ObjectID, error) {
	m.mu.Lock()
	rec, ok := m.commits[id]
	m.mu.Unlock()
	if !ok {
		return objectid.ObjectID{}, &CommitNotFoundError{CommitID: id}
	}
	return rec.TreeID, nil
}
