package diffengine

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// RenderUnifiedDiff produces a human-readable unified diff between two
// blobs the caller has already fetched. It plays no part in deciding
// ADDED/REMOVED/MODIFIED/IGNORED — the engine compares blobs by
// identifier only and never fetches their bytes — this exists purely
// for a caller that wants to *show* a MODIFIED leaf's contents after
// the fact, the way a status command's verbose output might
// pretty-print a hunk.
func RenderUnifiedDiff(path string, oldContent, newContent []byte, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldContent)),
		B:        difflib.SplitLines(string(newContent)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	}
	var out strings.Builder
	if err := difflib.WriteUnifiedDiff(&out, diff); err != nil {
		return "", err
	}
	return out.String(), nil
}
