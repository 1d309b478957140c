// local.go — Filesystem-backed uploader for dev mode. Files are served by
// the HTTP server's /assets route.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local writes uploads under a directory and returns URLs below baseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the upload directory if missing. baseURL is the public
// prefix the server mounts the directory at, e.g. "/assets".
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Upload(_ context.Context, r io.Reader, suggestedName string) (string, error) {
	name := uuid.NewString()[:8] + "_" + sanitize(suggestedName)

	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return l.baseURL + "/" + name, nil
}

// Dir returns the directory the server should mount.
func (l *Local) Dir() string { return l.dir }

func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
