package game

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Screenshots writes text dumps of frames into a directory.
type Screenshots struct {
	dir string
	now func() time.Time
}

// NewScreenshots returns a writer for dir. The directory is created on the
// first save.
func NewScreenshots(dir string) *Screenshots {
	return &Screenshots{dir: config.ExpandHome(dir), now: time.Now}
}

// Save writes f to <dir>/<timestamp>.txt and returns the path.
func (s *Screenshots) Save(f *core.Frame) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("game: create screenshot directory: %w", err)
	}

	name := s.now().Format("20060102-150405.000") + ".txt"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(f.String()+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("game: write screenshot: %w", err)
	}
	return path, nil
}
