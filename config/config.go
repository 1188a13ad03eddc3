// Package config reads and writes the repository's .git/config file
// and extracts the handful of keys edendiff's diff driver cares about:
// a gopkg.in/ini.v1-backed "section.key" model, the same one Git's own
// config file uses, generalized with a small typed accessor layer for
// the diff-specific settings (core.excludesfile,
// diff.suppressedAdminNames, status.listIgnored).
package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// RepoConfig wraps a loaded .git/config file.
type RepoConfig struct {
	path string
	file *ini.File
}

// Load reads the config file at path. A missing file yields an empty,
// writable RepoConfig rather than an error, matching ini.Load's own
// behavior of returning an empty *ini.File for a nonexistent path only
// when LooseLoad is used — so edendiff always opts into LooseLoad here.
func Load(path string) (*RepoConfig, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return &RepoConfig{path: path, file: file}, nil
}

// Save writes the config back to its original path.
func (c *RepoConfig) Save() error {
	return c.file.SaveTo(c.path)
}

// Get returns the value at section.key, or "" if unset.
func (c *RepoConfig) Get(key string) (string, error) {
	section, name, err := splitKey(key)
	if err != nil {
		return "", err
	}
	return c.file.Section(section).Key(name).String(), nil
}

// Set writes value at section.key.
func (c *RepoConfig) Set(key, value string) error {
	section, name, err := splitKey(key)
	if err != nil {
		return err
	}
	c.file.Section(section).Key(name).SetValue(value)
	return nil
}

func splitKey(key string) (section, name string, err error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid config key: %s", key)
	}
	return parts[0], parts[1], nil
}

// ExcludesFile returns core.excludesfile (the user-level ignore file
// path), or "" if unset.
func (c *RepoConfig) ExcludesFile() string {
	return c.file.Section("core").Key("excludesfile").String()
}

// ListIgnored returns status.listIgnored, defaulting to true when
// unset.
func (c *RepoConfig) ListIgnored() bool {
	key := c.file.Section("status").Key("listIgnored")
	if key.String() == "" {
		return true
	}
	v, err := key.Bool()
	if err != nil {
		return true
	}
	return v
}

// SuppressedAdminNames returns diff.suppressedAdminNames as a set, or
// the default {".hg", ".eden"} when unset.
func (c *RepoConfig) SuppressedAdminNames() map[string]struct{} {
	raw := c.file.Section("diff").Key("suppressedAdminNames").String()
	if raw == "" {
		return map[string]struct{}{".hg": {}, ".eden": {}}
	}
	names := map[string]struct{}{}
	for _, n := range strings.Split(raw, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names[n] = struct{}{}
		}
	}
	return names
}
