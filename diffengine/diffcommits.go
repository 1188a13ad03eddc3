package diffengine

import (
	"context"

	"github.com/corvid-systems/edendiff/ignore"
	"github.com/corvid-systems/edendiff/objectid"
	"github.com/corvid-systems/edendiff/objstore"
)

// statsSource is implemented by object sources (ObjectStore) that
// track informational load counters.
type statsSource interface {
	Stats() objstore.Stats
}

// DiffCommits is the single top-level operation: resolve two
// commit-ish ObjectIDs to root trees via source, diff them, and return
// the accumulated Status. If either commit fails to resolve, the call
// fails fatally and no Status is returned.
func DiffCommits(ctx context.Context, source objstore.ObjectSource, oldCommit, newCommit objectid.ObjectID, opts Options) (*Status, error) {
	opts = opts.resolve()

	rootStack := ignore.NewRootStack(
		ignore.Parse(opts.UserIgnoreContents),
		ignore.Parse(opts.SystemIgnoreContents),
	)

	callback := NewMemCallback()
	dctx := &DiffContext{
		Source:               source,
		Callback:             callback,
		RootStack:            rootStack,
		ListIgnored:          opts.ListIgnored,
		LoadGitignore:        opts.LoadGitignore,
		SuppressedAdminNames: opts.SuppressedAdminNames,
		Logger:               opts.Logger,
	}

	engine := NewEngine(dctx)
	if err := engine.Run(ctx, oldCommit, newCommit); err != nil {
		return nil, err
	}

	status := callback.Status()
	if ss, ok := source.(statsSource); ok {
		s := ss.Stats()
		status.Stats = Stats{TreesLoaded: s.TreesLoaded, TreesCoalesced: s.TreesCoalesced}
	}
	return status, nil
}
