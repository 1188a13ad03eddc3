package objstore

import (
	"bytes"
	"compress/zlib"
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/corvid-systems/edendiff/objectid"
)

const (
	modeFileStr       = "100644"
	modeExecutableStr = "100755"
	modeSymlinkStr    = "120000"
	modeTreeStr       = "040000"

	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644

	objectKindBlob   = "blob"
	objectKindTree   = "tree"
	objectKindCommit = "commit"
)

// Stats accumulates informational counters about an ObjectStore's
// activity across a run. It never influences Status.Entries/Errors.
type Stats struct {
	TreesLoaded    int64
	TreesCoalesced int64
}

type pendingLoad struct {
	done chan struct{}
	tree *Tree
	err  error
}

// ObjectStore is a disk-backed ObjectSource. Objects are stored in the
// standard Git object layout: zlib-compressed "<kind> <size>\0<content>"
// blobs under
// <root>/objects/<aa>/<bbbb...>, addressed by the SHA-1 of that same
// header+content. GetTree coalesces concurrent loads of the same
// ObjectID the way ObjectSource's contract requires.
type ObjectStore struct {
	root string
	sem  chan struct{} // nil means unbounded concurrency

	mu       sync.Mutex
	cache    map[objectid.ObjectID]*Tree
	inflight map[objectid.ObjectID]*pendingLoad
	stats    Stats
}

// Option configures an ObjectStore at construction.
type Option func(*ObjectStore)

// WithMaxConcurrentLoads bounds the number of GetTree loads the store
// will have in flight at once. n <= 0 means unbounded.
func WithMaxConcurrentLoads(n int) Option {
	return func(s *ObjectStore) {
		if n > 0 {
			s.sem = make(chan struct{}, n)
		}
	}
}

// NewObjectStore opens an on-disk object store rooted at dir (e.g. the
// repository's ".git" directory).
func NewObjectStore(dir string, opts ...Option) *ObjectStore {
	s := &ObjectStore{
		root:     dir,
		cache:    make(map[objectid.ObjectID]*Tree),
		inflight: make(map[objectid.ObjectID]*pendingLoad),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns a snapshot of the store's activity counters.
func (s *ObjectStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *ObjectStore) objectPath(id objectid.ObjectID) string {
	hexID := id.String()
	return filepath.Join(s.root, "objects", hexID[:2], hexID[2:])
}

// GetTree implements ObjectSource. It is safe to call concurrently with
// the same id from many goroutines: only one of them actually reads
// from disk, the rest wait on the in-flight load and share its result.
func (s *ObjectStore) GetTree(ctx context.Context, id objectid.ObjectID) (*Tree, error) {
	s.mu.Lock()
	if t, ok := s.cache[id]; ok {
		s.mu.Unlock()
		return t, nil
	}
	if p, ok := s.inflight[id]; ok {
		s.stats.TreesCoalesced++
		s.mu.Unlock()
		return s.waitFor(ctx, id, p)
	}

	p := &pendingLoad{done: make(chan struct{})}
	s.inflight[id] = p
	s.mu.Unlock()

	if s.sem != nil {
		select {
		case s.sem <- struct{}{}:
			defer func() { <-s.sem }()
		case <-ctx.Done():
			p.err = ctx.Err()
			close(p.done)
			s.mu.Lock()
			delete(s.inflight, id)
			s.mu.Unlock()
			return nil, &LoadError{ID: id, Err: p.err}
		}
	}

	tree, err := s.readTree(id)

	s.mu.Lock()
	p.tree, p.err = tree, err
	if err == nil {
		s.cache[id] = tree
		s.stats.TreesLoaded++
	}
	delete(s.inflight, id)
	s.mu.Unlock()
	close(p.done)

	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	return tree, nil
}

func (s *ObjectStore) waitFor(ctx context.Context, id objectid.ObjectID, p *pendingLoad) (*Tree, error) {
	select {
	case <-p.done:
		if p.err != nil {
			return nil, &LoadError{ID: id, Err: p.err}
		}
		return p.tree, nil
	case <-ctx.Done():
		return nil, &LoadError{ID: id, Err: ctx.Err()}
	}
}

// GetCommitRoot implements ObjectSource.
func (s *ObjectStore) GetCommitRoot(ctx context.Context, id objectid.ObjectID) (objectid.ObjectID, error) {
	rec, err := s.readCommit(id)
	if err != nil {
		return objectid.ObjectID{}, &CommitNotFoundError{CommitID: id}
	}
	return rec.TreeID, nil
}

// readObjectHeader reads and inflates a raw object, returning its kind
// string and content, the way Git's own object reader does.
func (s *ObjectStore) readObjectHeader(id objectid.ObjectID) (string, []byte, error) {
	f, err := os.Open(s.objectPath(id))
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, err
	}

	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx == -1 {
		return "", nil, fmt.Errorf("corrupt object %s", id)
	}

	header := string(data[:nullIdx])
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("invalid object header for %s", id)
	}
	return parts[0], data[nullIdx+1:], nil
}

func (s *ObjectStore) readTree(id objectid.ObjectID) (*Tree, error) {
	kind, content, err := s.readObjectHeader(id)
	if err != nil {
		return nil, err
	}
	if kind != objectKindTree {
		return nil, fmt.Errorf("object %s is not a tree (got %q)", id, kind)
	}

	var entries []TreeEntry
	i := 0
	for i < len(content) {
		nullIdx := bytes.IndexByte(content[i:], 0)
		if nullIdx == -1 {
			return nil, fmt.Errorf("corrupt tree object %s", id)
		}
		header := string(content[i : i+nullIdx])
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid tree entry header in %s", id)
		}
		mode, name := parts[0], parts[1]

		shaStart := i + nullIdx + 1
		shaEnd := shaStart + objectid.Size
		if shaEnd > len(content) {
			return nil, fmt.Errorf("truncated tree object %s", id)
		}
		var childID objectid.ObjectID
		copy(childID[:], content[shaStart:shaEnd])

		kind, err := parseModeKind(mode)
		if err != nil {
			return nil, fmt.Errorf("tree %s: %w", id, err)
		}
		entries = append(entries, TreeEntry{Name: name, Kind: kind, ChildID: childID})
		i = shaEnd
	}
	return &Tree{Entries: entries}, nil
}

func (s *ObjectStore) readCommit(id objectid.ObjectID) (*CommitRecord, error) {
	kind, content, err := s.readObjectHeader(id)
	if err != nil {
		return nil, err
	}
	if kind != objectKindCommit {
		return nil, fmt.Errorf("object %s is not a commit (got %q)", id, kind)
	}

	rec := &CommitRecord{}
	lines := strings.Split(string(content), "\n")
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		switch {
		case strings.HasPrefix(line, "tree "):
			treeID, err := objectid.ParseObjectID(strings.TrimPrefix(line, "tree "))
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", id, err)
			}
			rec.TreeID = treeID
		case strings.HasPrefix(line, "parent "):
			parentID, err := objectid.ParseObjectID(strings.TrimPrefix(line, "parent "))
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", id, err)
			}
			rec.ParentIDs = append(rec.ParentIDs, parentID)
		case strings.HasPrefix(line, "author "):
			rec.Author = parseAuthorLine(strings.TrimPrefix(line, "author "))
		}
	}
	rec.Message = strings.Join(lines[i:], "\n")
	return rec, nil
}

func parseAuthorLine(line string) Author {
	parts := strings.SplitN(line, " <", 2)
	if len(parts) != 2 {
		return Author{}
	}
	rest := strings.SplitN(parts[1], "> ", 2)
	if len(rest) != 2 {
		return Author{Name: parts[0]}
	}
	return Author{Name: parts[0], Email: rest[0]}
}

func parseModeKind(mode string) (EntryKind, error) {
	switch mode {
	case modeTreeStr:
		return TreeKind, nil
	case modeFileStr:
		return FileRegular, nil
	case modeExecutableStr:
		return FileExecutable, nil
	case modeSymlinkStr:
		return Symlink, nil
	default:
		if _, err := strconv.ParseUint(mode, 8, 32); err != nil {
			return 0, fmt.Errorf("invalid entry mode %q", mode)
		}
		return FileRegular, nil
	}
}

func kindMode(k EntryKind) string {
	switch k {
	case TreeKind:
		return modeTreeStr
	case FileExecutable:
		return modeExecutableStr
	case Symlink:
		return modeSymlinkStr
	default:
		return modeFileStr
	}
}

// writeObject writes a zlib-compressed "<kind> <size>\0<content>" blob,
// content-addressed by its SHA-1, Git's own object format. A
// filesystem advisory lock (golang.org/x/sys/unix,
// grounded on mattkeenan-dircachefilehash's use of the same package for
// guarding concurrent on-disk index writes) serializes concurrent
// writers of the same object directory.
func (s *ObjectStore) writeObject(kind string, content []byte) (objectid.ObjectID, error) {
	header := fmt.Sprintf("%s %d\x00", kind, len(content))
	store := append([]byte(header), content...)
	sum := sha1.Sum(store)

	var id objectid.ObjectID
	copy(id[:], sum[:])

	path := s.objectPath(id)
	dir := filepath.Dir(path)

	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return objectid.ObjectID{}, err
	}

	lockPath := filepath.Join(dir, ".lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, defaultFilePerm)
	if err != nil {
		return objectid.ObjectID{}, err
	}
	defer lockFile.Close()
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		return objectid.ObjectID{}, fmt.Errorf("locking %s: %w", dir, err)
	}
	defer unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)

	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(store); err != nil {
		return objectid.ObjectID{}, err
	}
	if err := w.Close(); err != nil {
		return objectid.ObjectID{}, err
	}
	if err := os.WriteFile(path, buf.Bytes(), defaultFilePerm); err != nil {
		return objectid.ObjectID{}, err
	}
	return id, nil
}

// PutBlob writes raw file content and returns its ObjectID. The diff
// engine never calls this — blob contents are never read or compared —
// it exists for the CLI driver and for tests that need to populate a
// store.
func (s *ObjectStore) PutBlob(content []byte) (objectid.ObjectID, error) {
	return s.writeObject(objectKindBlob, content)
}

// PutTree serializes entries in sorted order and writes the tree
// object, in the same sorted, null-delimited layout Git itself writes.
func (s *ObjectStore) PutTree(entries []TreeEntry) (objectid.ObjectID, error) {
	tree := NewTree(entries)
	var content bytes.Buffer
	for _, e := range tree.Entries {
		content.WriteString(kindMode(e.Kind))
		content.WriteByte(' ')
		content.WriteString(e.Name)
		content.WriteByte(0)
		content.Write(e.ChildID[:])
	}
	id, err := s.writeObject(objectKindTree, content.Bytes())
	if err != nil {
		return objectid.ObjectID{}, err
	}
	s.mu.Lock()
	s.cache[id] = tree
	s.mu.Unlock()
	return id, nil
}

// PutCommit writes a commit object pointing at treeID, mirroring
// Git's own commit object format (minus the wall-clock timestamp,
// which the diff engine never inspects).
func (s *ObjectStore) PutCommit(treeID objectid.ObjectID, parentIDs []objectid.ObjectID, author Author, message string) (objectid.ObjectID, error) {
	var content bytes.Buffer
	content.WriteString("tree ")
	content.WriteString(treeID.String())
	content.WriteByte('\n')
	for _, p := range parentIDs {
		content.WriteString("parent ")
		content.WriteString(p.String())
		content.WriteByte('\n')
	}
	content.WriteString(fmt.Sprintf("author %s <%s> \n", author.Name, author.Email))
	content.WriteByte('\n')
	content.WriteString(message)
	content.WriteByte('\n')
	return s.writeObject(objectKindCommit, content.Bytes())
}
