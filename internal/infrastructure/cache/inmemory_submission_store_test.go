package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySubmissionStore_Claim(t *testing.T) {
	store := NewInMemorySubmissionStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Claim(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok, "a held key cannot be claimed again")
	})

	t.Run("expired key can be claimed again", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-2", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		ok, err = store.Claim(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("released key can be claimed again", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, store.Release(ctx, "key-3"))

		ok, err = store.Claim(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemorySubmissionStore_Sweep(t *testing.T) {
	store := NewInMemorySubmissionStore()
	defer store.Close()

	ctx := context.Background()
	_, _ = store.Claim(ctx, "short", time.Millisecond)
	_, _ = store.Claim(ctx, "long", time.Hour)
	require.Equal(t, 2, store.Size())

	store.sweep(time.Now().Add(time.Minute))
	assert.Equal(t, 1, store.Size())
}

func TestInMemorySubmissionStore_CloseTwice(t *testing.T) {
	store := NewInMemorySubmissionStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
