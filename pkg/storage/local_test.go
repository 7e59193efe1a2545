package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutGetList(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	require.NoError(t, s.Put(ctx, "snapshots/b.yaml", []byte("b")))
	require.NoError(t, s.Put(ctx, "snapshots/a.yaml", []byte("a")))
	require.NoError(t, s.Put(ctx, "other.txt", []byte("x")))

	data, err := s.Get(ctx, "snapshots/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	keys, err := s.List(ctx, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/a.yaml", "snapshots/b.yaml"}, keys)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStore_Missing(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	_, err := s.Get(ctx, "nope.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err := s.List(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	for _, key := range []string{"../x", "/etc/passwd", "", "a/../../b"} {
		assert.Error(t, s.Put(ctx, key, nil), key)
	}
	for _, prefix := range []string{"../", "..", "/etc", "snapshots/../../"} {
		_, err := s.List(ctx, prefix)
		assert.Error(t, err, prefix)
	}
}

func TestLocalStore_ListStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	require.NoError(t, NewLocalStore(parent).Put(ctx, "outside.txt", []byte("x")))

	s := NewLocalStore(filepath.Join(parent, "store"))
	require.NoError(t, s.Put(ctx, "snapshots/a.yaml", []byte("a")))

	keys, err := s.List(ctx, "snapshots/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/a.yaml"}, keys)

	_, err = s.List(ctx, "../")
	assert.Error(t, err)
}

func TestLocalStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewLocalStore(t.TempDir())

	assert.ErrorIs(t, s.Put(ctx, "a", nil), context.Canceled)
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}
