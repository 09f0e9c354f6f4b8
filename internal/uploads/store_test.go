package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)
	return store
}

func multipartImage(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestStore_SaveServiceImage(t *testing.T) {
	store := newTestStore(t)

	file := multipartImage(t, "photo.JPG", []byte("fake image bytes"))
	relPath, err := store.SaveServiceImage(file)
	require.NoError(t, err)

	// The returned path is a public URL with a random name and the
	// lowercased original extension
	assert.True(t, strings.HasPrefix(relPath, "/uploads/services/"), relPath)
	assert.True(t, strings.HasSuffix(relPath, ".jpg"), relPath)

	// The file landed on disk with the uploaded content
	name := strings.TrimPrefix(relPath, "/uploads/services/")
	data, err := os.ReadFile(filepath.Join(store.Dir(), "services", name))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)
}

func TestStore_SaveServiceImage_UniqueNames(t *testing.T) {
	store := newTestStore(t)

	p1, err := store.SaveServiceImage(multipartImage(t, "same.png", []byte("a")))
	require.NoError(t, err)
	p2, err := store.SaveServiceImage(multipartImage(t, "same.png", []byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2, "identical filenames must not collide")
}

func TestStore_SaveServiceImage_RejectsBadExtension(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveServiceImage(multipartImage(t, "payload.exe", []byte("nope")))
	assert.ErrorIs(t, err, ErrBadExtension)

	_, err = store.SaveServiceImage(multipartImage(t, "noextension", []byte("nope")))
	assert.ErrorIs(t, err, ErrBadExtension)
}

func TestStore_SaveServiceImage_RejectsOversize(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads", 10)
	require.NoError(t, err)

	_, err = store.SaveServiceImage(multipartImage(t, "big.jpg", bytes.Repeat([]byte("x"), 100)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)

	relPath, err := store.SaveServiceImage(multipartImage(t, "photo.jpg", []byte("img")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(relPath))

	name := strings.TrimPrefix(relPath, "/uploads/services/")
	_, err = os.Stat(filepath.Join(store.Dir(), "services", name))
	assert.True(t, os.IsNotExist(err))

	// Removing again is a no-op
	assert.NoError(t, store.Remove(relPath))

	// Paths outside the store are ignored
	assert.NoError(t, store.Remove("/etc/passwd"))
	assert.NoError(t, store.Remove("/uploads/services/../../etc/passwd"))
}

func TestStore_SweepOrphans(t *testing.T) {
	store := newTestStore(t)

	kept, err := store.SaveServiceImage(multipartImage(t, "kept.jpg", []byte("kept")))
	require.NoError(t, err)
	orphan, err := store.SaveServiceImage(multipartImage(t, "orphan.jpg", []byte("orphan")))
	require.NoError(t, err)

	// A temp file mid-write must survive the sweep
	tmpPath := filepath.Join(store.Dir(), "services", "upload_tmp_123")
	require.NoError(t, os.WriteFile(tmpPath, []byte("partial"), 0644))

	removed, err := store.SweepOrphans([]string{kept})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	keptName := strings.TrimPrefix(kept, "/uploads/services/")
	_, err = os.Stat(filepath.Join(store.Dir(), "services", keptName))
	assert.NoError(t, err, "referenced file should survive")

	orphanName := strings.TrimPrefix(orphan, "/uploads/services/")
	_, err = os.Stat(filepath.Join(store.Dir(), "services", orphanName))
	assert.True(t, os.IsNotExist(err), "orphan should be removed")

	_, err = os.Stat(tmpPath)
	assert.NoError(t, err, "in-flight temp file should survive")
}
