// Package pathutil provides the RelativePath helpers shared by the
// ignore matcher and the diff engine. Paths are always "/"-separated,
// regardless of host OS, the same filepath.ToSlash(filepath.Clean(path))
// convention Git itself normalizes working-tree paths to.
package pathutil

import "strings"

// Join appends name as a new component under base. base may be "" for
// the repository root.
func Join(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}

// Components splits a "/"-separated path into its components. The
// empty path has zero components.
func Components(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Base returns the final component of path ("" for the root).
func Base(path string) string {
	if path == "" {
		return ""
	}
	if idx := strings.LastIndexByte(path, '/'); idx != -1 {
		return path[idx+1:]
	}
	return path
}

// Dir returns the parent of path ("" for a top-level entry or the root).
func Dir(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx == -1 {
		return ""
	}
	return path[:idx]
}

// IsUnder reports whether path is scopeRoot itself or a descendant of it.
// scopeRoot == "" (the repository root) contains every path.
func IsUnder(scopeRoot, path string) bool {
	if scopeRoot == "" {
		return true
	}
	if path == scopeRoot {
		return true
	}
	return strings.HasPrefix(path, scopeRoot+"/")
}

// Relative returns path expressed relative to scopeRoot. The caller
// must ensure IsUnder(scopeRoot, path).
func Relative(scopeRoot, path string) string {
	if scopeRoot == "" {
		return path
	}
	if path == scopeRoot {
		return ""
	}
	return strings.TrimPrefix(path, scopeRoot+"/")
}
