// Package lsifuri normalizes document URIs into one canonical comparison
// form. Ingestion and the query surface both run every URI through Normalize
// so that equality checks are reliable across dumps and across call sites.
package lsifuri

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Normalize returns the canonical form of uri: lowercased scheme, cleaned
// path, percent-encoding re-encoded consistently. Unparsable input is
// returned as-is so that lookups simply miss instead of erroring.
// Normalize is idempotent.
func Normalize(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "file" {
		u.Host = ""
		u.Path = path.Clean(u.Path)
	}
	return u.String()
}

// FromPath converts a file system path into a normalized file:// URI.
// Relative paths are resolved against the working directory; callers are
// expected to pass absolute paths.
func FromPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return Normalize("file://" + slashed)
}

// ToPath converts a file:// URI back into a file system path.
func ToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if !strings.EqualFold(u.Scheme, "file") {
		return "", fmt.Errorf("uri %q is not a file uri", uri)
	}
	return filepath.FromSlash(u.Path), nil
}
