package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ImageStore writes camera snapshots to disk as opaque blobs. No
// metadata is linked back to any camera or module record.
type ImageStore struct {
	dir string
	now func() time.Time
}

// NewImageStore creates an image store rooted at dir
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir, now: time.Now}
}

// Save writes the image bytes under a timestamp-derived name and
// returns the generated filename. Names have second granularity, so
// two uploads within the same second overwrite each other; acceptable
// for the snapshot-per-dispense workload this serves.
func (s *ImageStore) Save(image []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create images directory: %w", err)
	}

	filename := fmt.Sprintf("cam_%d.jpg", s.now().Unix())
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", filename, err)
	}

	return filename, nil
}
