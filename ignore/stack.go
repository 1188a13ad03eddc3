package ignore

import "github.com/corvid-systems/edendiff/internal/pathutil"

// Stack is an immutable, persistent chain of (scopeRoot, Matcher)
// frames, innermost to outermost: per-directory ignore file, ancestor
// directories' ignore files, user ignore file, system ignore file.
// Frames are shared by reference across sibling branches of the
// traversal — pushing never mutates an existing Stack.
type Stack struct {
	scopeRoot string
	matcher   *Matcher
	parent    *Stack
}

// NewRootStack builds the two outermost frames shared by an entire
// diff run: the user-level ignore file, then the system-level one.
// Either may be nil/empty.
func NewRootStack(userIgnore, systemIgnore *Matcher) *Stack {
	var s *Stack
	if !systemIgnore.Empty() {
		s = &Stack{scopeRoot: "", matcher: systemIgnore, parent: s}
	}
	if !userIgnore.Empty() {
		s = &Stack{scopeRoot: "", matcher: userIgnore, parent: s}
	}
	return s
}

// Push returns a new Stack with an additional, innermost frame scoped
// to scopeRoot. If matcher has no patterns, Push returns the receiver
// unchanged — an empty per-directory ignore file contributes no frame.
func (s *Stack) Push(scopeRoot string, matcher *Matcher) *Stack {
	if matcher.Empty() {
		return s
	}
	return &Stack{scopeRoot: scopeRoot, matcher: matcher, parent: s}
}

// Match walks frames innermost to outermost, translating path into
// each frame's scope-relative form, and returns the first non-NoMatch
// result. Reaching the end of the chain with no opinion yields
// NoMatch.
func (s *Stack) Match(path string, isDir bool) MatchResult {
	for frame := s; frame != nil; frame = frame.parent {
		if !pathutil.IsUnder(frame.scopeRoot, path) {
			continue
		}
		rel := pathutil.Relative(frame.scopeRoot, path)
		if result := frame.matcher.Match(rel, isDir); result != NoMatch {
			return result
		}
	}
	return NoMatch
}
