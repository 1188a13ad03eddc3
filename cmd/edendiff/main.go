// Command edendiff is the CLI driver for the diff engine: it resolves
// two commit-ish arguments (a branch name or a full SHA-1 hex string)
// against the current .git directory, loads the repository's
// .git/config for its diff-related settings, then runs
// diffengine.DiffCommits over the two commits and prints the resulting
// Status. Dispatch follows a bare switch on os.Args[1]: one
// flag.NewFlagSet per subcommand, errors printed to stderr, no
// framework.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/corvid-systems/edendiff/config"
	"github.com/corvid-systems/edendiff/diffengine"
	"github.com/corvid-systems/edendiff/objectid"
	"github.com/corvid-systems/edendiff/objstore"
	"github.com/corvid-systems/edendiff/utils"
	"github.com/corvid-systems/edendiff/utils/constants"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("edendiff: command cannot be empty.")
		fmt.Println("usage: edendiff <command> [<args>]")
		os.Exit(0)
	}

	switch os.Args[1] {
	case "diff":
		if err := runDiff(os.Args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "edendiff: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("edendiff: '%s' is not an edendiff command.\n", os.Args[1])
		fmt.Println("usage: edendiff diff <old-commit> <new-commit>")
		os.Exit(1)
	}
}

func runDiff(args []string) error {
	cfg, err := config.Load(filepath.Join(".git", "config"))
	if err != nil {
		return fmt.Errorf("loading .git/config: %w", err)
	}

	fls := utils.CreateCommandFlagSet(
		"diff",
		"Diff two commits' trees and report added/removed/modified/ignored paths.",
		"edendiff diff [--list-ignored] <old-commit> <new-commit>",
	)
	listIgnored := fls.Bool("list-ignored", cfg.ListIgnored(), "include IGNORED entries in the report")
	fls.Parse(args[1:])

	rest := fls.Args()
	if len(rest) != 2 {
		fls.Usage()
		return fmt.Errorf("expected exactly two commit-ish arguments")
	}

	store := objstore.NewObjectStore(".git", objstore.WithMaxConcurrentLoads(8))

	oldID, err := resolveCommitish(store, rest[0])
	if err != nil {
		return fmt.Errorf("resolving %q: %w", rest[0], err)
	}
	newID, err := resolveCommitish(store, rest[1])
	if err != nil {
		return fmt.Errorf("resolving %q: %w", rest[1], err)
	}

	opts := diffengine.DefaultOptions()
	opts.ListIgnored = *listIgnored
	opts.SuppressedAdminNames = cfg.SuppressedAdminNames()

	excludesPath := cfg.ExcludesFile()
	if excludesPath == "" {
		excludesPath = ".gitignore"
	}
	if excludes, err := os.ReadFile(excludesPath); err == nil {
		opts.UserIgnoreContents = excludes
	}

	status, err := diffengine.DiffCommits(context.Background(), store, oldID, newID, opts)
	if err != nil {
		return err
	}

	printStatus(status)
	return nil
}

// resolveCommitish accepts either a branch name under the store's own
// refs/heads, the literal "HEAD", or a full 40-character SHA-1 hex
// string.
func resolveCommitish(store *objstore.ObjectStore, s string) (objectid.ObjectID, error) {
	if s == "HEAD" {
		if sha, ok := store.ResolveHEAD(); ok {
			return sha, nil
		}
	} else if sha, ok := store.ResolveRef(s); ok {
		return sha, nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != objectid.Size {
		return objectid.Zero, fmt.Errorf("not a branch, HEAD, or a %d-byte SHA-1 hex string", objectid.Size)
	}
	var id objectid.ObjectID
	copy(id[:], raw)
	return id, nil
}

func printStatus(status *diffengine.Status) {
	for _, path := range sortedStateKeys(status.Entries) {
		state := status.Entries[path]
		color := constants.ResetColor
		switch state {
		case diffengine.Added:
			color = constants.GreenColor
		case diffengine.Removed:
			color = constants.RedColor
		}
		fmt.Printf("%s%-9s%s %s\n", color, state, constants.ResetColor, path)
	}
	for _, path := range sortedErrorKeys(status.Errors) {
		fmt.Fprintf(os.Stderr, "error     %s: %s\n", path, status.Errors[path])
	}
	if status.Stats.TreesLoaded > 0 {
		fmt.Printf("\n%d trees loaded, %d coalesced\n", status.Stats.TreesLoaded, status.Stats.TreesCoalesced)
	}
}

func sortedStateKeys(m map[string]diffengine.State) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedErrorKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
