package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	key, err := store.Upload(ctx, strings.NewReader("hello"), "documents/emp-1/CONTRACT-abc.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/emp-1/CONTRACT-abc.pdf", key)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	url, err := store.GetURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/documents/emp-1/CONTRACT-abc.pdf", url)

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStorageDownloadMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "documents/missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), strings.NewReader("x"), "../outside.txt", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestUploadOptionsAllowsExt(t *testing.T) {
	opts := UploadOptions{AllowedExts: []string{".pdf", ".PNG"}}

	assert.True(t, opts.AllowsExt("contract.PDF"))
	assert.True(t, opts.AllowsExt("photo.png"))
	assert.False(t, opts.AllowsExt("script.sh"))
	assert.False(t, opts.AllowsExt("noext"))
	assert.True(t, UploadOptions{}.AllowsExt("anything.bin"))
}
