package memo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Staging writes uploaded audio to a scoped temporary location for the
// duration of one request. Files are keyed by a server-generated name so
// concurrent uploads never collide, and removed unconditionally when the
// request finishes.
type Staging struct {
	dir string
}

func NewStaging(dir string) *Staging {
	return &Staging{dir: dir}
}

// Stash writes data under a generated filename derived from the current
// time and the original extension. The returned remove func deletes the
// file and is safe to defer; it never fails the request.
func (s *Staging) Stash(originalName string, data []byte) (name string, remove func(), err error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".webm"
	}
	name = fmt.Sprintf("memo_%d_%s%s", time.Now().Unix(), uuid.NewString()[:8], ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("staging audio: %w", err)
	}

	remove = func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("removing staged audio", "path", path, "error", err)
		}
	}
	return name, remove, nil
}

// Path returns the absolute staging path for a generated name.
func (s *Staging) Path(name string) string {
	return filepath.Join(s.dir, name)
}
