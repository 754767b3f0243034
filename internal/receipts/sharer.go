package receipts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type fileSharer struct {
	dir string
}

// NewFileSharer shares rendered receipts by writing them under dir. This is
// the share sheet of a headless deployment; the mobile shell swaps in its own
// Sharer.
func NewFileSharer(dir string) Sharer {
	return &fileSharer{dir: dir}
}

func (f *fileSharer) Share(_ context.Context, artifact *Artifact) (string, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating receipts dir: %w", err)
	}

	path := filepath.Join(f.dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing receipt file: %w", err)
	}
	return path, nil
}
