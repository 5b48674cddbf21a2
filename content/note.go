package content

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// FindNote returns the path of the only markdown file directly inside dir.
func FindNote(dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*.md", doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("search %s: %w", dir, err)
	}
	switch len(matches) {
	case 0:
		return "", ErrNoNotes
	case 1:
		return filepath.Join(dir, matches[0]), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMultipleNotes, dir)
	}
}
