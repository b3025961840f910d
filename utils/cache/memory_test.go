package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetJSON(ctx, "k", map[string]string{"name": "Ada"}, time.Minute))

	var got map[string]string
	require.NoError(t, m.GetJSON(ctx, "k", &got))
	assert.Equal(t, "Ada", got["name"])
}

func TestMemoryMissIsErrNotFound(t *testing.T) {
	m := NewMemory()

	var got string
	err := m.GetJSON(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEntryExpires(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, m.SetJSON(ctx, "k", "v", 5*time.Minute))

	var got string
	require.NoError(t, m.GetJSON(ctx, "k", &got))

	// Within TTL the entry survives.
	now = now.Add(4 * time.Minute)
	require.NoError(t, m.GetJSON(ctx, "k", &got))

	// Past TTL it misses and is recomputed by the caller.
	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, m.GetJSON(ctx, "k", &got), ErrNotFound)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetJSON(ctx, "a", 1, time.Minute))
	require.NoError(t, m.SetJSON(ctx, "b", 2, time.Minute))
	require.NoError(t, m.Delete(ctx, "a", "b"))

	var got int
	assert.ErrorIs(t, m.GetJSON(ctx, "a", &got), ErrNotFound)
	assert.ErrorIs(t, m.GetJSON(ctx, "b", &got), ErrNotFound)
}
