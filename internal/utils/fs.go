package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// invalidCharsRegex matches characters not allowed in docset filenames
var invalidCharsRegex = regexp.MustCompile(`[<>:"|?*\\]`)

// SanitizeFilename sanitizes a string for use as a filename
func SanitizeFilename(name string) string {
	name = invalidCharsRegex.ReplaceAllString(name, "-")
	name = strings.Trim(name, "- ")
	if name == "" {
		name = "untitled"
	}
	return name
}

// PagePath converts a scraped page path into the on-disk file path for
// its normalized output, rooted at the docset directory.
func PagePath(docsetDir, pagePath string) string {
	p := strings.Trim(pagePath, "/")
	if p == "" {
		p = "index"
	}
	p = strings.TrimSuffix(p, ".html")
	p = strings.TrimSuffix(p, ".htm")

	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = SanitizeFilename(part)
	}
	return filepath.Join(docsetDir, filepath.Join(parts...)+".html")
}

// EnsureDir ensures the parent directory of path exists
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
