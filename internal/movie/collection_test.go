package movie

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_With(t *testing.T) {
	a := NewSnapshot(1, "A", 5)
	b := NewSnapshot(2, "B", 6)

	t.Run("appends in insertion order", func(t *testing.T) {
		c, changed := Collection{}.With(b)
		assert.True(t, changed)
		c, changed = c.With(a)
		assert.True(t, changed)

		assert.Equal(t, []int64{2, 1}, c.IDs())
	})

	t.Run("duplicate id is a no-op", func(t *testing.T) {
		c, _ := Collection{}.With(a)
		again, changed := c.With(NewSnapshot(1, "A renamed", 9))

		assert.False(t, changed)
		require.Len(t, again, 1)
		assert.Equal(t, "A", again[0].Title)
	})

	t.Run("does not alias the receiver", func(t *testing.T) {
		base := make(Collection, 1, 4)
		base[0] = a
		x, _ := base.With(b)
		y, _ := base.With(NewSnapshot(3, "C", 1))

		assert.Equal(t, []int64{1, 2}, x.IDs())
		assert.Equal(t, []int64{1, 3}, y.IDs())
	})
}

func TestCollection_Without(t *testing.T) {
	c := Collection{NewSnapshot(1, "A", 0), NewSnapshot(2, "B", 0), NewSnapshot(3, "C", 0)}

	t.Run("removes by id and keeps order", func(t *testing.T) {
		out, changed := c.Without(2)
		assert.True(t, changed)
		assert.Equal(t, []int64{1, 3}, out.IDs())
		assert.Equal(t, []int64{1, 2, 3}, c.IDs())
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		out, changed := c.Without(99)
		assert.False(t, changed)
		assert.Equal(t, c.IDs(), out.IDs())
	})

	t.Run("empty collection", func(t *testing.T) {
		out, changed := Collection{}.Without(1)
		assert.False(t, changed)
		assert.Empty(t, out)
	})
}

func TestCollection_Dedupe(t *testing.T) {
	c := Collection{NewSnapshot(1, "first", 0), NewSnapshot(2, "B", 0), NewSnapshot(1, "second", 0)}

	out := c.Dedupe()

	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, int64(2), out[1].ID)
}

func TestCollection_EncodeDecode(t *testing.T) {
	t.Run("nil encodes as empty array", func(t *testing.T) {
		data, err := Collection(nil).Encode()
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("null decodes as empty", func(t *testing.T) {
		c, err := DecodeCollection([]byte("null"))
		require.NoError(t, err)
		assert.NotNil(t, c)
		assert.Empty(t, c)
	})

	t.Run("round trip keeps order and extras", func(t *testing.T) {
		in := []byte(`[{"id":2,"title":"B","poster_path":null,"vote_average":1,"adult":false},{"id":1,"title":"A","poster_path":"/a.jpg","vote_average":2}]`)

		c, err := DecodeCollection(in)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 1}, c.IDs())

		out, err := c.Encode()
		require.NoError(t, err)
		assert.JSONEq(t, string(in), string(out))

		back, err := DecodeCollection(out)
		require.NoError(t, err)
		if diff := cmp.Diff(c, back); diff != "" {
			t.Errorf("collection changed (-want +got):\n%s", diff)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, raw := range []string{`not json`, `{"id":1}`, `[1,2]`, `[{"id":"x"}]`, `[null]`, ``} {
			_, err := DecodeCollection([]byte(raw))
			assert.Error(t, err, "input %q", raw)
		}
	})
}
