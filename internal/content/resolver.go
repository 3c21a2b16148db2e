// Package content maps request targets onto the served directory tree
// and enforces the traversal guard. The content directory's public/
// subdirectory is the effective document root; containment is checked
// against the content directory itself, so a target may climb out of
// public/ but never out of the content tree.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot marks a resolution whose canonical path is not a
// descendant of the content root. Callers fold it into the same outward
// 404 as any other miss.
var ErrEscapesRoot = errors.New("content: path escapes content root")

type Root struct {
	contentDir string // canonical
	publicDir  string
}

// NewRoot canonicalizes contentDir and verifies it is an existing
// directory. The public/ subdirectory does not have to exist yet; a
// request simply 404s until it does.
func NewRoot(contentDir string) (*Root, error) {
	abs, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("content: directory %q does not exist: %w", contentDir, err)
	}
	fi, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("content: %q is not a directory", contentDir)
	}
	return &Root{
		contentDir: canonical,
		publicDir:  filepath.Join(canonical, "public"),
	}, nil
}

// ContentDir returns the canonical content root.
func (r *Root) ContentDir() string { return r.contentDir }

// PublicDir returns the document root under the content root.
func (r *Root) PublicDir() string { return r.publicDir }

// Resolved is the filesystem view of a request target.
type Resolved struct {
	Path   string
	IsDir  bool
	IsFile bool // regular file
}

// Resolve maps a decoded request target onto the filesystem and applies
// the traversal guard. The only error it returns is ErrEscapesRoot; a
// target that stays inside the root but names nothing resolves with both
// IsDir and IsFile false.
func (r *Root) Resolve(target string) (Resolved, error) {
	rel := strings.TrimPrefix(target, "/")
	joined := filepath.Join(r.publicDir, filepath.FromSlash(rel))

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Resolved{}, ErrEscapesRoot
		}
		// Nothing exists at the path. Containment is still checked on
		// the lexically cleaned form so a traversal probe at a missing
		// name is classified as an escape, not a plain miss.
		if !isSubpath(joined, r.contentDir) {
			return Resolved{}, ErrEscapesRoot
		}
		return Resolved{Path: joined}, nil
	}

	if !isSubpath(canonical, r.contentDir) {
		return Resolved{}, ErrEscapesRoot
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		return Resolved{Path: canonical}, nil
	}
	return Resolved{
		Path:   canonical,
		IsDir:  fi.IsDir(),
		IsFile: fi.Mode().IsRegular(),
	}, nil
}

// isSubpath reports whether child equals parent or sits beneath it. Both
// arguments must already be absolute; any failure to relate the two
// (different volumes, for one) counts as not contained.
func isSubpath(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
