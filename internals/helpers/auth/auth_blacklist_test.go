package helper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewMemoryBlacklist("secret")
	b.now = func() time.Time { return now }

	require.NoError(t, b.Add(ctx, "tok-a", now.Add(time.Hour)))
	require.NoError(t, b.Add(ctx, "tok-b", now.Add(-time.Minute)))
	require.NoError(t, b.Add(ctx, "", now.Add(time.Hour)))

	ok, _ := b.IsBlacklisted(ctx, "tok-a")
	assert.True(t, ok)
	ok, _ = b.IsBlacklisted(ctx, "tok-b")
	assert.False(t, ok)
	ok, _ = b.IsBlacklisted(ctx, "tok-c")
	assert.False(t, ok)

	n, err := b.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHmacHexStable(t *testing.T) {
	assert.Equal(t, hmacHex("x", "k"), hmacHex("x", "k"))
	assert.NotEqual(t, hmacHex("x", "k"), hmacHex("x", "k2"))
	assert.Len(t, hmacHex("x", "k"), 64)
}
