package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoCachesSuccessfulLoads(t *testing.T) {
	m := NewMemo[int]("test", time.Minute)
	defer m.Stop()

	calls := 0
	load := func() (int, error) { calls++; return 42, nil }

	for i := 0; i < 3; i++ {
		v, err := m.Get("page:summary:en", load)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	m := NewMemo[string]("test", time.Minute)
	defer m.Stop()

	boom := errors.New("db down")
	_, err := m.Get("k", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())

	v, err := m.Get("k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestMemoInvalidatePrefix(t *testing.T) {
	m := NewMemo[int]("test", time.Minute)
	defer m.Stop()

	for _, k := range []string{"stats:caste:en", "stats:caste:ne", "stats:religion:en"} {
		_, _ = m.Get(k, func() (int, error) { return 1, nil })
	}

	m.Invalidate("stats:caste:")
	assert.Equal(t, 1, m.Len())

	m.Invalidate("")
	assert.Equal(t, 0, m.Len())
}

func TestMemoExpires(t *testing.T) {
	m := NewMemo[int]("test", 20*time.Millisecond)
	defer m.Stop()

	calls := 0
	load := func() (int, error) { calls++; return calls, nil }

	_, _ = m.Get("k", load)
	time.Sleep(40 * time.Millisecond)
	v, _ := m.Get("k", load)
	assert.Equal(t, 2, v)
}
