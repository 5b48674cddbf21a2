package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/threadoor/core"
)

// DateLayout formats the date prefix of output files.
const DateLayout = "2006-01-02"

// OutputName returns the dated file name for a note, e.g. "2024-05-29_notes.md".
func OutputName(now time.Time, notePath string) string {
	return now.Format(DateLayout) + "_" + filepath.Base(notePath)
}

// WriteArtifacts writes artifacts in order as "# Key:" / "# Value:" blocks.
func WriteArtifacts(w io.Writer, artifacts []core.Artifact) error {
	var b strings.Builder
	for _, a := range artifacts {
		fmt.Fprintf(&b, "\n# Key: %s\n", a.Key)
		fmt.Fprintf(&b, "# Value: \n%s \n", a.Value)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeArtifactFile creates dir if needed and writes artifacts to dir/name.
func writeArtifactFile(dir, name string, artifacts []core.Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	if err := WriteArtifacts(f, artifacts); err != nil {
		f.Close()
		return "", fmt.Errorf("write artifacts: %w", err)
	}
	return path, f.Close()
}
