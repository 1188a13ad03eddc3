// Package ignore implements the gitignore-style pattern matcher and
// the persistent, innermost-first matcher chain the diff engine walks
// at every path.
package ignore

// MatchResult is the three-valued outcome of testing a path against a
// matcher or a stack of matchers.
type MatchResult int

const (
	// NoMatch means no pattern in the matcher (or, for a stack, no
	// frame) had an opinion about the path.
	NoMatch MatchResult = iota
	// Include means a pattern explicitly re-included the path (a
	// negated "!pattern" match).
	Include
	// Exclude means a pattern marked the path as ignored.
	Exclude
)

func (r MatchResult) String() string {
	switch r {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "no-match"
	}
}
