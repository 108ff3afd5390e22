package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests runs the standard store test suite against any Store implementation.
// Use this to verify that a Store implementation correctly implements the interface.
func RunStoreTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("Get", func(t *testing.T) {
		runGetTests(t, newStore)
	})
	t.Run("Set", func(t *testing.T) {
		runSetTests(t, newStore)
	})
	t.Run("Delete", func(t *testing.T) {
		runDeleteTests(t, newStore)
	})
	t.Run("Keys", func(t *testing.T) {
		runKeysTests(t, newStore)
	})
	t.Run("Concurrent", func(t *testing.T) {
		runConcurrentTests(t, newStore)
	})
	t.Run("Close", func(t *testing.T) {
		runCloseTests(t, newStore)
	})
}

func runGetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "@missing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("returns stored bytes", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "@FavoriteList", []byte(`[{"id":1}]`)))

		got, err := store.Get(ctx, "@FavoriteList")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":1}]`, string(got))
	})

	t.Run("empty value is distinct from missing", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "empty", []byte{}))

		got, err := store.Get(ctx, "empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func runSetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("overwrites previous value", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "k", []byte("one")))
		require.NoError(t, store.Set(ctx, "k", []byte("two")))

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("keys with path characters", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		key := "@Favorite/List:../x"
		require.NoError(t, store.Set(ctx, key, []byte("v")))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))
	})

	t.Run("caller mutation does not leak into store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		value := []byte("abc")
		require.NoError(t, store.Set(ctx, "k", value))
		value[0] = 'z'

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})
}

func runDeleteTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("removes key", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "k", []byte("v")))
		require.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Get(ctx, "k")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		assert.NoError(t, store.Delete(context.Background(), "nope"))
	})
}

func runKeysTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("empty store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		keys, err := store.Keys(context.Background())
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("sorted keys", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		for _, k := range []string{"b", "@FavoriteList", "a"} {
			require.NoError(t, store.Set(ctx, k, []byte(k)))
		}

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"@FavoriteList", "a", "b"}, keys)
	})
}

func runConcurrentTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("parallel writes to distinct keys", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("key-%02d", i)
				assert.NoError(t, store.Set(ctx, key, []byte(key)))
			}(i)
		}
		wg.Wait()

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Len(t, keys, 20)
	})
}

func runCloseTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("operations fail after close", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		require.NoError(t, store.Close())

		ctx := context.Background()
		_, err := store.Get(ctx, "k")
		assert.True(t, errors.Is(err, ErrStoreClosed))
		assert.True(t, errors.Is(store.Set(ctx, "k", nil), ErrStoreClosed))
		assert.True(t, errors.Is(store.Delete(ctx, "k"), ErrStoreClosed))
		_, err = store.Keys(ctx)
		assert.True(t, errors.Is(err, ErrStoreClosed))
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		require.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
