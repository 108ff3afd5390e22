package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Conformance(t *testing.T) {
	RunStoreTests(t, func() (Store, func()) {
		return NewMemoryStore(), func() {}
	})
}

func TestMemoryStore_FailureInjection(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	t.Run("read failure", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", []byte("v")))

		s.FailReads(boom)
		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, boom)

		s.FailReads(nil)
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))
	})

	t.Run("write failure leaves value untouched", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", []byte("v")))

		s.FailWrites(boom)
		assert.ErrorIs(t, s.Set(ctx, "k", []byte("w")), boom)
		assert.ErrorIs(t, s.Delete(ctx, "k"), boom)

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))
	})
}

func TestMemoryStore_Counts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, _ = s.Get(ctx, "k")
	_ = s.Set(ctx, "k", []byte("v"))
	_, _ = s.Get(ctx, "k")

	gets, sets := s.Counts()
	assert.Equal(t, 2, gets)
	assert.Equal(t, 1, sets)
}

func TestMemoryStore_LatencyHonorsContext(t *testing.T) {
	s := NewMemoryStore()
	s.SetLatency(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
