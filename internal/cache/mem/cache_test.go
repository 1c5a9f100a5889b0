package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxpoint/internal/port"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	loc := &port.Location{State: "New York", County: "Erie County", City: "Buffalo"}
	require.NoError(t, c.Set(ctx, "geo:42.886400,-78.878400", loc, time.Minute))

	got, found, err := c.Get(ctx, "geo:42.886400,-78.878400")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, loc, got)
}

func TestCache_MissingKey(t *testing.T) {
	c := NewCache()

	got, found, err := c.Get(context.Background(), "geo:0.000000,0.000000")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestCache_ExpiredEntryEvicted(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	loc := &port.Location{State: "New York"}
	require.NoError(t, c.Set(ctx, "k", loc, -time.Second))

	got, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}
