package objstore

import (
	"fmt"
	"sort"

	"github.com/corvid-systems/edendiff/objectid"
)

// EntryKind classifies what a TreeEntry's ChildID names.
type EntryKind int

const (
	FileRegular EntryKind = iota
	FileExecutable
	Symlink
	TreeKind
)

func (k EntryKind) String() string {
	switch k {
	case FileRegular:
		return "file"
	case FileExecutable:
		return "executable"
	case Symlink:
		return "symlink"
	case TreeKind:
		return "tree"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// IsLeaf reports whether the entry names a blob rather than a subtree.
func (k EntryKind) IsLeaf() bool {
	return k != TreeKind
}

// TreeEntry is one named child of a Tree.
type TreeEntry struct {
	Name    string
	Kind    EntryKind
	ChildID objectid.ObjectID
}

// Equal reports semantic equality: same Kind and same ChildID. Two
// entries with different Name are never compared this way by the
// engine; Equal only ever runs on same-named pairs.
func (e TreeEntry) Equal(o TreeEntry) bool {
	return e.Kind == o.Kind && e.ChildID == o.ChildID
}

// Tree is an immutable, ordered directory listing. Entries must be
// sorted ascending by Name under byte-wise ordering, matching Git's
// own tree-entry ordering; NewTree enforces this before a caller can
// serialize or diff against it.
type Tree struct {
	Entries []TreeEntry
}

// NewTree copies entries, sorts them by name, and returns the Tree.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Tree{Entries: sorted}
}

// Find returns the entry named name and true, or the zero value and
// false if no such entry exists.
func (t *Tree) Find(name string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// Author identifies who authored a commit.
type Author struct {
	Name  string
	Email string
}

// CommitRecord is the subset of a commit object the diff driver needs:
// enough to resolve a commit-ish to its root tree.
type CommitRecord struct {
	TreeID    objectid.ObjectID
	ParentIDs []objectid.ObjectID
	Author    Author
	Message   string
}
