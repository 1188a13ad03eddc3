package objstore

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRef(t *testing.T, root, branch string, id [20]byte) {
	t.Helper()
	dir := filepath.Join(root, "refs", "heads")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, branch), []byte(hex.EncodeToString(id[:])+"\n"), 0o644))
}

func TestResolveRefReadsBranch(t *testing.T) {
	root := t.TempDir()
	store := NewObjectStore(root)
	want := [20]byte{1, 2, 3}
	writeRef(t, root, "main", want)

	got, ok := store.ResolveRef("main")
	require.True(t, ok)
	assert.Equal(t, want, [20]byte(got))
}

func TestResolveRefMissingBranch(t *testing.T) {
	store := NewObjectStore(t.TempDir())
	_, ok := store.ResolveRef("nope")
	assert.False(t, ok)
}

func TestResolveHEADSymbolic(t *testing.T) {
	root := t.TempDir()
	store := NewObjectStore(root)
	want := [20]byte{9, 9, 9}
	writeRef(t, root, "master", want)
	require.NoError(t, os.WriteFile(filepath.Join(root, "HEAD"), []byte("ref: refs/heads/master\n"), 0o644))

	got, ok := store.ResolveHEAD()
	require.True(t, ok)
	assert.Equal(t, want, [20]byte(got))
}

func TestResolveHEADDetached(t *testing.T) {
	root := t.TempDir()
	store := NewObjectStore(root)
	want := [20]byte{5, 5, 5}
	require.NoError(t, os.WriteFile(filepath.Join(root, "HEAD"), []byte(hex.EncodeToString(want[:])+"\n"), 0o644))

	got, ok := store.ResolveHEAD()
	require.True(t, ok)
	assert.Equal(t, want, [20]byte(got))
}

func TestResolveHEADMissingFile(t *testing.T) {
	store := NewObjectStore(t.TempDir())
	_, ok := store.ResolveHEAD()
	assert.False(t, ok)
}
