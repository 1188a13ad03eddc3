package diffengine

import (
	"context"

	"github.com/corvid-systems/edendiff/ignore"
	"github.com/corvid-systems/edendiff/objstore"
)

// LoadGitignoreFunc fetches the contents of a per-directory ignore
// file, or empty if absent. A failure is treated as "no file present" —
// it must never abort the diff.
type LoadGitignoreFunc func(ctx context.Context, dir string) ([]byte, error)

// DiffContext is the immutable, once-per-run container holding the
// callback, object source, root ignore stack, list_ignored flag, and
// the per-directory ignore loader hook.
type DiffContext struct {
	Source               objstore.ObjectSource
	Callback             DiffCallback
	RootStack            *ignore.Stack
	ListIgnored          bool
	LoadGitignore        LoadGitignoreFunc
	SuppressedAdminNames map[string]struct{}
	Logger               Logger
}

// DefaultSuppressedAdminNames is the initial administrative-directory
// suppression set.
func DefaultSuppressedAdminNames() map[string]struct{} {
	return map[string]struct{}{
		".hg":   {},
		".eden": {},
	}
}

func noopLoadGitignore(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (c *DiffContext) isSuppressedAdminName(name string) bool {
	if c.SuppressedAdminNames == nil {
		return false
	}
	_, ok := c.SuppressedAdminNames[name]
	return ok
}

func (c *DiffContext) loadGitignoreContents(ctx context.Context, dir string) []byte {
	fn := c.LoadGitignore
	if fn == nil {
		fn = noopLoadGitignore
	}
	contents, err := fn(ctx, dir)
	if err != nil {
		c.Logger.Debugf("load_gitignore(%q) failed, treating as absent: %v", dir, err)
		return nil
	}
	return contents
}
