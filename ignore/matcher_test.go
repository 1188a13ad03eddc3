package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherBasicExcludeAndNegate(t *testing.T) {
	m := Parse([]byte("*.log\n!keep.log\n"))
	require.False(t, m.Empty())

	assert.Equal(t, Exclude, m.Match("debug.log", false))
	assert.Equal(t, Include, m.Match("keep.log", false))
	assert.Equal(t, NoMatch, m.Match("notes.txt", false))
}

func TestMatcherDirOnly(t *testing.T) {
	m := Parse([]byte("build/\n"))
	assert.Equal(t, Exclude, m.Match("build", true))
	assert.Equal(t, NoMatch, m.Match("build", false))
}

func TestMatcherAnchored(t *testing.T) {
	m := Parse([]byte("/config.json\n"))
	assert.Equal(t, Exclude, m.Match("config.json", false))
	assert.Equal(t, NoMatch, m.Match("sub/config.json", false))
}

func TestMatcherUnanchoredMatchesAnyDepth(t *testing.T) {
	m := Parse([]byte("*.tmp\n"))
	assert.Equal(t, Exclude, m.Match("a.tmp", false))
	assert.Equal(t, Exclude, m.Match("deep/nested/a.tmp", false))
}

func TestMatcherDoubleStarMidPattern(t *testing.T) {
	m := Parse([]byte("a/**/z\n"))
	assert.Equal(t, Exclude, m.Match("a/z", false))
	assert.Equal(t, Exclude, m.Match("a/b/c/z", false))
	assert.Equal(t, NoMatch, m.Match("a/zz", false))
}

func TestMatcherLastMatchWins(t *testing.T) {
	m := Parse([]byte("*.log\n!important.log\n*.log\n"))
	assert.Equal(t, Exclude, m.Match("important.log", false))
}

func TestMatcherMalformedLineIsSkipped(t *testing.T) {
	m := Parse([]byte("[z-a]\nreal.txt\n"))
	assert.Equal(t, Exclude, m.Match("real.txt", false))
}

func TestMatcherEmptyOnBlankContents(t *testing.T) {
	m := Parse([]byte("\n# comment only\n\n"))
	assert.True(t, m.Empty())
	assert.Equal(t, NoMatch, m.Match("anything", false))
}

func TestMatcherCaseInsensitive(t *testing.T) {
	m := Parse([]byte("*.LOG\n"), CaseSensitive(false))
	assert.Equal(t, Exclude, m.Match("debug.log", false))
}

func TestNilMatcherIsEmptyAndNeverMatches(t *testing.T) {
	var m *Matcher
	assert.True(t, m.Empty())
	assert.Equal(t, NoMatch, m.Match("x", false))
}
