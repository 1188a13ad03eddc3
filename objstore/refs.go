package objstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/corvid-systems/edendiff/objectid"
)

// ResolveRef reads a branch name (e.g. "master") out of this store's
// own refs/heads directory and returns the commit it points at. The
// ok result is false if no such branch exists or its contents are not
// a well-formed ObjectID.
func (s *ObjectStore) ResolveRef(branch string) (objectid.ObjectID, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, "refs", "heads", branch))
	if err != nil {
		return objectid.Zero, false
	}
	id, err := objectid.ParseObjectID(strings.TrimSpace(string(data)))
	if err != nil {
		return objectid.Zero, false
	}
	return id, true
}

// ResolveHEAD follows this store's HEAD file: a symbolic ref
// ("ref: refs/heads/<branch>") is resolved through ResolveRef; a
// detached HEAD is parsed directly as an ObjectID.
func (s *ObjectStore) ResolveHEAD() (objectid.ObjectID, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, "HEAD"))
	if err != nil {
		return objectid.Zero, false
	}
	line := strings.TrimSpace(string(data))
	if branch, ok := strings.CutPrefix(line, "ref: refs/heads/"); ok {
		return s.ResolveRef(branch)
	}
	id, err := objectid.ParseObjectID(line)
	if err != nil {
		return objectid.Zero, false
	}
	return id, true
}
