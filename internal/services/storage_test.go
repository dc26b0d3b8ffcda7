package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := "hello blob"
	require.NoError(t, store.Save(ctx, "a.pdf", strings.NewReader(content), int64(len(content)), "application/pdf"))

	r, size, contentType, err := store.Open(ctx, "a.pdf")
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
	assert.EqualValues(t, len(content), size)
	assert.Equal(t, "application/pdf", contentType)
}

func TestLocalStoreRemoveIsIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a.pdf", strings.NewReader("x"), 1, "application/pdf"))
	require.NoError(t, store.Remove(ctx, "a.pdf"))
	// Removing again must succeed
	require.NoError(t, store.Remove(ctx, "a.pdf"))
	// As must removing something that never existed
	require.NoError(t, store.Remove(ctx, "never-there.pdf"))
}

func TestLocalStoreOpenMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, _, err = store.Open(context.Background(), "missing.pdf")
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestLocalStoreURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/uploads/a.pdf", store.URL("a.pdf"))
}
