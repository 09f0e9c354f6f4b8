// Package uploads stores service images on disk and hands back the relative
// URL path recorded on the listing.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrTooLarge     = errors.New("uploaded file exceeds the size limit")
	ErrBadExtension = errors.New("unsupported image type")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes uploaded images under <dir>/services and serves them from
// publicPath. Filenames are random so uploads never collide or overwrite.
type Store struct {
	dir        string
	publicPath string
	maxBytes   int64
}

// NewStore creates the upload directory if needed.
func NewStore(dir, publicPath string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "services"), 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		maxBytes:   maxBytes,
	}, nil
}

// Dir returns the on-disk root of the store.
func (s *Store) Dir() string {
	return s.dir
}

// SaveServiceImage persists an uploaded image and returns the relative URL
// path to record on the service, e.g. "/uploads/services/<uuid>.jpg".
func (s *Store) SaveServiceImage(file *multipart.FileHeader) (string, error) {
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", ErrBadExtension
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.dir, "services", filename)

	// Write to a temp file in the same directory, then rename, so a partial
	// upload never becomes visible.
	tmpFile, err := os.CreateTemp(filepath.Join(s.dir, "services"), "upload_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := io.Copy(tmpFile, src); err != nil {
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", err
	}

	return s.publicPath + "/services/" + filename, nil
}

// Remove deletes the file behind a stored relative URL path. Unknown paths
// are ignored.
func (s *Store) Remove(relPath string) error {
	name, ok := s.localName(relPath)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, "services", name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SweepOrphans deletes stored files whose relative URL path is not in
// referenced. Returns the number of files removed.
func (s *Store) SweepOrphans(referenced []string) (int, error) {
	keep := make(map[string]bool, len(referenced))
	for _, ref := range referenced {
		if name, ok := s.localName(ref); ok {
			keep[name] = true
		}
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, "services"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || keep[entry.Name()] {
			continue
		}
		if strings.HasPrefix(entry.Name(), "upload_tmp_") {
			continue // in-flight write
		}
		if err := os.Remove(filepath.Join(s.dir, "services", entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// localName maps a stored relative URL path back to a filename inside the
// services directory, rejecting anything that escapes it.
func (s *Store) localName(relPath string) (string, bool) {
	prefix := s.publicPath + "/services/"
	if !strings.HasPrefix(relPath, prefix) {
		return "", false
	}
	name := path.Base(strings.TrimPrefix(relPath, prefix))
	if name == "." || name == "/" || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}
