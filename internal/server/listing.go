package server

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// renderListing builds the directory listing page for reqPath (which
// always ends in "/"). At the top level ("/" or "/public/") entries are
// filtered to the configured visible sets; every other listing shows the
// directory as-is. Each row carries the hit count of the child's request
// path.
func (s *Server) renderListing(reqPath, absDir string) []byte {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return []byte("<html><body><h1>Forbidden</h1></body></html>")
	}

	lines := []string{
		"<!DOCTYPE html>", "<html lang='en'>", "<head>",
		"<meta charset='utf-8'>", "<meta name='viewport' content='width=device-width, initial-scale=1'>",
		fmt.Sprintf("<title>Content of %s</title>", reqPath),
		"</head>", "<body>",
		fmt.Sprintf("<h1>%s</h1>", s.cfg.SiteName),
		fmt.Sprintf("<h2>Content of %s</h2>", reqPath),
		"<main>",
	}
	if reqPath != "/" {
		lines = append(lines, fmt.Sprintf(`<a href="%s">⬆ Parent directory</a>`, escapePath(parentPath(reqPath))))
	}
	lines = append(lines, "<table border='1'>", "<tr><th>Name</th><th>Size</th><th>Hits</th></tr>")

	topLevel := reqPath == "/" || reqPath == "/public/"
	for _, e := range entries {
		name := e.Name()
		// Stat follows symlinks, so a link to a directory lists as one.
		fi, err := os.Stat(filepath.Join(absDir, name))
		if err != nil {
			continue
		}
		isDir := fi.IsDir()
		if topLevel {
			if isDir && !s.cfg.VisibleDirs[name] {
				continue
			}
			if !isDir && !s.cfg.VisibleFiles[name] {
				continue
			}
		}
		var href, size, display string
		if isDir {
			href = escapePath(name) + "/"
			size = "—"
			display = name + "/"
		} else {
			href = escapePath(name)
			size = fileSize(fi.Size())
			display = name
		}
		childPath := reqPath + name
		if isDir {
			childPath += "/"
		}
		lines = append(lines, fmt.Sprintf(`<tr><td><a href="%s">%s</a></td><td>%s</td><td>%d</td></tr>`,
			href, display, size, s.hits.Get(childPath)))
	}
	lines = append(lines, "</table></main></body></html>")
	return []byte(strings.Join(lines, "\n"))
}

// fileSize renders a byte count as 1024-based units with one decimal.
func fileSize(n int64) string {
	v := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if v < 1024 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.1f TB", v)
}

// parentPath returns the parent listing path of reqPath with a trailing
// slash, "/" at the top.
func parentPath(reqPath string) string {
	trimmed := strings.TrimRight(reqPath, "/")
	i := strings.LastIndex(trimmed, "/")
	if i <= 0 {
		return "/"
	}
	return trimmed[:i] + "/"
}

// escapePath percent-encodes a path for use in an href, keeping "/"
// separators intact.
func escapePath(p string) string {
	u := url.URL{Path: p}
	return u.EscapedPath()
}
