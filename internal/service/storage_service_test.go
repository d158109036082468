package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutAndRemove(t *testing.T) {
	dir := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{Root: dir}}
	ctx := context.Background()

	url, err := storage.Put(ctx, "certificates/c1/s1.html", []byte("<p>hi</p>"), "text/html")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/certificates/c1/s1.html", url)

	body, err := os.ReadFile(filepath.Join(dir, "certificates", "c1", "s1.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(body))

	// overwrite in place, no temp files left behind
	_, err = storage.Put(ctx, "certificates/c1/s1.html", []byte("<p>bye</p>"), "text/html")
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(dir, "certificates", "c1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, storage.Remove(ctx, "certificates/c1/s1.html"))
	require.NoError(t, storage.Remove(ctx, "certificates/c1/s1.html"), "removing twice is fine")
	_, err = os.Stat(filepath.Join(dir, "certificates", "c1", "s1.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	storage := &StorageService{Provider: &LocalStorageProvider{Root: t.TempDir()}}

	for _, key := range []string{"", "../outside.html", "a/../../b.html", "a//b.html"} {
		_, err := storage.Put(context.Background(), key, []byte("x"), "text/plain")
		assert.Error(t, err, key)
	}
}
