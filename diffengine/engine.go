package diffengine

import (
	"context"
	"sync"

	"github.com/corvid-systems/edendiff/ignore"
	"github.com/corvid-systems/edendiff/internal/pathutil"
	"github.com/corvid-systems/edendiff/objectid"
	"github.com/corvid-systems/edendiff/objstore"
)

// Engine runs the recursive two-tree diff against one DiffContext.
// Construct one per run; it holds no state beyond the context it was
// built with.
type Engine struct {
	ctx *DiffContext
}

// NewEngine builds an Engine bound to ctx.
func NewEngine(ctx *DiffContext) *Engine {
	return &Engine{ctx: ctx}
}

// Run resolves oldCommit and newCommit to root trees and diffs them,
// emitting every event into ctx.Callback. A failure to resolve either
// commit is fatal and aborts before any event is emitted.
func (e *Engine) Run(ctx context.Context, oldCommit, newCommit objectid.ObjectID) error {
	var rootOld, rootNew objectid.ObjectID
	var errOld, errNew error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rootOld, errOld = e.ctx.Source.GetCommitRoot(ctx, oldCommit)
	}()
	go func() {
		defer wg.Done()
		rootNew, errNew = e.ctx.Source.GetCommitRoot(ctx, newCommit)
	}()
	wg.Wait()

	if errOld != nil {
		return errOld
	}
	if errNew != nil {
		return errNew
	}

	var runWG sync.WaitGroup
	runWG.Add(1)
	go func() {
		defer runWG.Done()
		e.diffTrees(ctx, "", rootOld, rootNew, e.ctx.RootStack, false)
	}()
	runWG.Wait()
	return nil
}

// diffTrees walks both trees' entries in lockstep by name.
func (e *Engine) diffTrees(ctx context.Context, path string, idOld, idNew objectid.ObjectID, stack *ignore.Stack, inheritedIgnored bool) {
	if idOld == idNew {
		return
	}

	var treeOld, treeNew *objstore.Tree
	var errOld, errNew error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		treeOld, errOld = e.ctx.Source.GetTree(ctx, idOld)
	}()
	go func() {
		defer wg.Done()
		treeNew, errNew = e.ctx.Source.GetTree(ctx, idNew)
	}()
	wg.Wait()

	if errOld != nil {
		e.ctx.Callback.Error(path, errOld.Error())
		return
	}
	if errNew != nil {
		e.ctx.Callback.Error(path, errNew.Error())
		return
	}

	innerStack := e.pushGitignoreFrame(ctx, path, stack, inheritedIgnored, treeOld, treeNew)

	var children sync.WaitGroup
	mergeWalk(treeOld.Entries, treeNew.Entries, func(name string, old, new *objstore.TreeEntry) {
		childPath := pathutil.Join(path, name)
		switch {
		case new == nil: // only in old: removal
			e.handleRemovedEntry(ctx, childPath, *old, &children)
		case old == nil: // only in new: addition
			e.handleAddedEntry(ctx, childPath, *new, innerStack, inheritedIgnored, &children)
		case old.Kind == objstore.TreeKind && new.Kind == objstore.TreeKind:
			if old.ChildID != new.ChildID {
				children.Add(1)
				go func(childID objectid.ObjectID, newID objectid.ObjectID) {
					defer children.Done()
					e.diffTrees(ctx, childPath, childID, newID, innerStack, inheritedIgnored)
				}(old.ChildID, new.ChildID)
			}
		case old.Kind != objstore.TreeKind && new.Kind != objstore.TreeKind:
			if !old.Equal(*new) {
				e.ctx.Callback.Modified(childPath)
			}
		default:
			// kind mismatch across the file/tree boundary at the same name.
			e.handleRemovedEntry(ctx, childPath, *old, &children)
			e.handleAddedEntry(ctx, childPath, *new, innerStack, inheritedIgnored, &children)
		}
	})
	children.Wait()
}

// handleAddedEntry handles an entry present only on the new side
// (also reused for the file/tree-transition ADD side).
func (e *Engine) handleAddedEntry(ctx context.Context, childPath string, entry objstore.TreeEntry, stack *ignore.Stack, inheritedIgnored bool, wg *sync.WaitGroup) {
	isDir := entry.Kind == objstore.TreeKind
	entryIgnored := e.evaluateIgnored(stack, childPath, isDir, inheritedIgnored)

	if isDir {
		if e.ctx.isSuppressedAdminName(entry.Name) && !entryIgnored {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.diffAddedTree(ctx, childPath, entry.ChildID, stack, entryIgnored)
		}()
		return
	}

	if entryIgnored {
		if e.ctx.ListIgnored {
			e.ctx.Callback.Ignored(childPath)
		}
	} else {
		e.ctx.Callback.Added(childPath)
	}
}

// handleRemovedEntry implements the "only in old" bullet.
func (e *Engine) handleRemovedEntry(ctx context.Context, childPath string, entry objstore.TreeEntry, wg *sync.WaitGroup) {
	if entry.Kind == objstore.TreeKind {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.diffRemovedTree(ctx, childPath, entry.ChildID)
		}()
		return
	}
	e.ctx.Callback.Removed(childPath)
}

// evaluateIgnored applies the match/ancestor-exclude rule shared by
// the "only in new" branches of diffTrees and diffAddedTree: once an
// ancestor directory is excluded, a deeper re-include pattern can
// never resurrect anything beneath it.
func (e *Engine) evaluateIgnored(stack *ignore.Stack, path string, isDir, inheritedIgnored bool) bool {
	match := stack.Match(path, isDir)
	ignored := inheritedIgnored || match == ignore.Exclude
	if match == ignore.Include && !inheritedIgnored {
		ignored = false
	}
	return ignored
}

// diffAddedTree walks a subtree that exists only on the new side.
func (e *Engine) diffAddedTree(ctx context.Context, path string, idNew objectid.ObjectID, stack *ignore.Stack, inheritedIgnored bool) {
	treeNew, err := e.ctx.Source.GetTree(ctx, idNew)
	if err != nil {
		e.ctx.Callback.Error(path, err.Error())
		return
	}

	innerStack := stack
	if !inheritedIgnored {
		if gitignoreEntry, ok := treeNew.Find(".gitignore"); ok && gitignoreEntry.Kind == objstore.FileRegular {
			contents := e.ctx.loadGitignoreContents(ctx, path)
			innerStack = stack.Push(path, ignore.Parse(contents))
		}
	}

	var children sync.WaitGroup
	for _, entry := range treeNew.Entries {
		entry := entry
		childPath := pathutil.Join(path, entry.Name)
		isDir := entry.Kind == objstore.TreeKind
		entryIgnored := e.evaluateIgnored(innerStack, childPath, isDir, inheritedIgnored)

		if isDir {
			if e.ctx.isSuppressedAdminName(entry.Name) && !entryIgnored {
				continue
			}
			children.Add(1)
			go func() {
				defer children.Done()
				e.diffAddedTree(ctx, childPath, entry.ChildID, innerStack, entryIgnored)
			}()
			continue
		}

		if entryIgnored {
			if e.ctx.ListIgnored {
				e.ctx.Callback.Ignored(childPath)
			}
		} else {
			e.ctx.Callback.Added(childPath)
		}
	}
	children.Wait()
}

// diffRemovedTree walks a subtree that exists only on the old side.
// Ignore state is irrelevant: everything here was previously tracked.
func (e *Engine) diffRemovedTree(ctx context.Context, path string, idOld objectid.ObjectID) {
	treeOld, err := e.ctx.Source.GetTree(ctx, idOld)
	if err != nil {
		e.ctx.Callback.Error(path, err.Error())
		return
	}

	var children sync.WaitGroup
	for _, entry := range treeOld.Entries {
		entry := entry
		childPath := pathutil.Join(path, entry.Name)
		if entry.Kind == objstore.TreeKind {
			children.Add(1)
			go func() {
				defer children.Done()
				e.diffRemovedTree(ctx, childPath, entry.ChildID)
			}()
			continue
		}
		e.ctx.Callback.Removed(childPath)
	}
	children.Wait()
}

// pushGitignoreFrame loads a per-directory ignore file only if either
// side has one as a regular file and we are not already beneath an
// excluded ancestor. The contents are whatever the LoadGitignore hook
// returns for path; the hook is not told which side's file exists, so
// which version applies when both sides have one is up to the hook.
func (e *Engine) pushGitignoreFrame(ctx context.Context, path string, stack *ignore.Stack, inheritedIgnored bool, treeOld, treeNew *objstore.Tree) *ignore.Stack {
	if inheritedIgnored {
		return stack
	}
	hasGitignore := treeHasRegularFile(treeOld, ".gitignore") || treeHasRegularFile(treeNew, ".gitignore")
	if !hasGitignore {
		return stack
	}
	contents := e.ctx.loadGitignoreContents(ctx, path)
	return stack.Push(path, ignore.Parse(contents))
}

func treeHasRegularFile(t *objstore.Tree, name string) bool {
	if t == nil {
		return false
	}
	entry, ok := t.Find(name)
	return ok && entry.Kind == objstore.FileRegular
}

// mergeWalk consumes two name-sorted entry slices in lexicographic
// order and invokes fn once per distinct name with whichever of
// old/new has an entry under that name (nil when absent).
func mergeWalk(oldEntries, newEntries []objstore.TreeEntry, fn func(name string, old, new *objstore.TreeEntry)) {
	i, j := 0, 0
	for i < len(oldEntries) && j < len(newEntries) {
		o, n := &oldEntries[i], &newEntries[j]
		switch {
		case o.Name < n.Name:
			fn(o.Name, o, nil)
			i++
		case o.Name > n.Name:
			fn(n.Name, nil, n)
			j++
		default:
			fn(o.Name, o, n)
			i++
			j++
		}
	}
	for ; i < len(oldEntries); i++ {
		fn(oldEntries[i].Name, &oldEntries[i], nil)
	}
	for ; j < len(newEntries); j++ {
		fn(newEntries[j].Name, nil, &newEntries[j])
	}
}
