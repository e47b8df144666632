package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RefPrefix is the URL path under which stored images are served.
const RefPrefix = "uploads/"

type ImageStore interface {
	// Save writes the image and returns its reference, e.g. "uploads/<file>".
	Save(originalName string, body io.Reader) (string, error)
	Remove(ref string) error
}

type LocalImageStore struct {
	dir string
	now func() time.Time
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalImageStore{dir: dir, now: time.Now}, nil
}

func (s *LocalImageStore) Save(originalName string, body io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(originalName)))

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close image file: %w", err)
	}
	return RefPrefix + name, nil
}

// Remove deletes a previously saved image. References outside the upload
// directory are ignored.
func (s *LocalImageStore) Remove(ref string) error {
	name, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok || name == "" || filepath.Base(name) != name {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image %s: %w", ref, err)
	}
	return nil
}
