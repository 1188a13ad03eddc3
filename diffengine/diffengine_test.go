package diffengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-systems/edendiff/objectid"
	"github.com/corvid-systems/edendiff/objstore"
)

// id builds a distinct, human-readable ObjectID for fixtures; tests
// never round-trip through the on-disk SHA-1 format.
func id(tag byte) objectid.ObjectID {
	var out objectid.ObjectID
	out[objectid.Size-1] = tag
	return out
}

func runDiff(t *testing.T, store *objstore.MemoryStore, oldRoot, newRoot objectid.ObjectID, opts Options) *Status {
	t.Helper()
	oldCommit, newCommit := id(0xfe), id(0xff)
	store.PutCommit(oldCommit, &objstore.CommitRecord{TreeID: oldRoot})
	store.PutCommit(newCommit, &objstore.CommitRecord{TreeID: newRoot})
	status, err := DiffCommits(context.Background(), store, oldCommit, newCommit, opts)
	require.NoError(t, err)
	return status
}

func TestBasicDiff(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot := id(1)
	newRoot := id(2)
	store.PutTree(oldRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "keep.txt", Kind: objstore.FileRegular, ChildID: id(10)},
		{Name: "gone.txt", Kind: objstore.FileRegular, ChildID: id(11)},
	}))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "keep.txt", Kind: objstore.FileRegular, ChildID: id(10)},
		{Name: "new.txt", Kind: objstore.FileRegular, ChildID: id(12)},
	}))

	status := runDiff(t, store, oldRoot, newRoot, DefaultOptions())

	assert.Equal(t, map[string]State{
		"new.txt":  Added,
		"gone.txt": Removed,
	}, status.Entries)
	assert.Empty(t, status.Errors)
}

func TestModeChangeIsModified(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot, newRoot := id(1), id(2)
	store.PutTree(oldRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "run.sh", Kind: objstore.FileRegular, ChildID: id(10)},
	}))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "run.sh", Kind: objstore.FileExecutable, ChildID: id(10)},
	}))

	status := runDiff(t, store, oldRoot, newRoot, DefaultOptions())

	assert.Equal(t, map[string]State{"run.sh": Modified}, status.Entries)
}

func TestUnchangedLeafProducesNoEvent(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot, newRoot := id(1), id(2)
	store.PutTree(oldRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "same.txt", Kind: objstore.FileRegular, ChildID: id(10)},
	}))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "same.txt", Kind: objstore.FileRegular, ChildID: id(10)},
	}))

	status := runDiff(t, store, oldRoot, newRoot, DefaultOptions())
	assert.Empty(t, status.Entries)
}

// TestFileToDirectoryWithIgnoredFile covers the kind-mismatch branch:
// a path that was a file on the old side and a directory on the new
// side is reported as a simultaneous REMOVED (old leaf) and an ADDED
// subtree walk, and a file inside that new directory which matches an
// ignore pattern is reported IGNORED rather than ADDED.
func TestFileToDirectoryWithIgnoredFile(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot, newRoot := id(1), id(2)
	newDirID := id(20)

	store.PutTree(oldRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "thing", Kind: objstore.FileRegular, ChildID: id(10)},
	}))
	store.PutTree(newDirID, objstore.NewTree([]objstore.TreeEntry{
		{Name: "kept.txt", Kind: objstore.FileRegular, ChildID: id(11)},
		{Name: "ignored.log", Kind: objstore.FileRegular, ChildID: id(12)},
	}))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "thing", Kind: objstore.TreeKind, ChildID: newDirID},
	}))

	opts := DefaultOptions()
	opts.UserIgnoreContents = []byte("*.log\n")

	status := runDiff(t, store, oldRoot, newRoot, opts)

	assert.Equal(t, map[string]State{
		"thing":             Removed,
		"thing/kept.txt":    Added,
		"thing/ignored.log": Ignored,
	}, status.Entries)
}

// TestLoadErrorIsLocalized: a subtree that fails to load reports a
// localized error at its own path, and siblings of that subtree are
// still diffed normally.
func TestLoadErrorIsLocalized(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot, newRoot := id(1), id(2)
	brokenOld, brokenNew := id(30), id(31)

	store.PutTree(oldRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "broken", Kind: objstore.TreeKind, ChildID: brokenOld},
		{Name: "fine.txt", Kind: objstore.FileRegular, ChildID: id(40)},
	}))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "broken", Kind: objstore.TreeKind, ChildID: brokenNew},
		{Name: "fine.txt", Kind: objstore.FileRegular, ChildID: id(41)},
	}))
	store.FailTree(brokenNew, assertErr{})

	status := runDiff(t, store, oldRoot, newRoot, DefaultOptions())

	assert.Equal(t, map[string]State{"fine.txt": Modified}, status.Entries)
	require.Contains(t, status.Errors, "broken")
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

// TestAncestorExcludeIsSticky: once a directory itself is excluded by
// an ancestor ignore file, a deeper re-include pattern inside it does
// not resurrect any of its contents.
func TestAncestorExcludeIsSticky(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot, newRoot := id(1), id(2)
	excludedDirID := id(50)

	store.PutTree(oldRoot, objstore.NewTree(nil))
	store.PutTree(excludedDirID, objstore.NewTree([]objstore.TreeEntry{
		{Name: ".gitignore", Kind: objstore.FileRegular, ChildID: id(51)},
		{Name: "keep.txt", Kind: objstore.FileRegular, ChildID: id(52)},
	}))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "excluded", Kind: objstore.TreeKind, ChildID: excludedDirID},
	}))

	opts := DefaultOptions()
	opts.UserIgnoreContents = []byte("excluded/\n")
	opts.LoadGitignore = func(ctx context.Context, dir string) ([]byte, error) {
		if dir == "excluded" {
			return []byte("!keep.txt\n"), nil
		}
		return nil, nil
	}

	status := runDiff(t, store, oldRoot, newRoot, opts)

	assert.Equal(t, map[string]State{
		"excluded/.gitignore": Ignored,
		"excluded/keep.txt":   Ignored,
	}, status.Entries)
}

// TestListIgnoredFalseSuppressesIgnoredEntries: with list_ignored off,
// IGNORED paths are never reported at all, not even as a distinct
// "suppressed" state.
func TestListIgnoredFalseSuppressesIgnoredEntries(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot, newRoot := id(1), id(2)
	store.PutTree(oldRoot, objstore.NewTree(nil))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: "debug.log", Kind: objstore.FileRegular, ChildID: id(60)},
		{Name: "real.txt", Kind: objstore.FileRegular, ChildID: id(61)},
	}))

	opts := DefaultOptions()
	opts.UserIgnoreContents = []byte("*.log\n")
	opts.ListIgnored = false

	status := runDiff(t, store, oldRoot, newRoot, opts)

	assert.Equal(t, map[string]State{"real.txt": Added}, status.Entries)
	assert.NotContains(t, status.Entries, "debug.log")
}

func TestAdministrativeDirectoryIsSuppressed(t *testing.T) {
	store := objstore.NewMemoryStore()

	oldRoot, newRoot := id(1), id(2)
	hgDirID := id(70)
	store.PutTree(oldRoot, objstore.NewTree(nil))
	store.PutTree(hgDirID, objstore.NewTree([]objstore.TreeEntry{
		{Name: "whatever", Kind: objstore.FileRegular, ChildID: id(71)},
	}))
	store.PutTree(newRoot, objstore.NewTree([]objstore.TreeEntry{
		{Name: ".hg", Kind: objstore.TreeKind, ChildID: hgDirID},
		{Name: "real.txt", Kind: objstore.FileRegular, ChildID: id(72)},
	}))

	status := runDiff(t, store, oldRoot, newRoot, DefaultOptions())

	assert.Equal(t, map[string]State{"real.txt": Added}, status.Entries)
}

func TestCommitNotFoundIsFatal(t *testing.T) {
	store := objstore.NewMemoryStore()
	_, err := DiffCommits(context.Background(), store, id(1), id(2), DefaultOptions())
	require.Error(t, err)
	var cnf *objstore.CommitNotFoundError
	assert.ErrorAs(t, err, &cnf)
}
