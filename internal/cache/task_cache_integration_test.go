//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist-api/internal/models"
	"tasklist-api/internal/testutil"
)

func TestTaskListCache_RoundTrip(t *testing.T) {
	c := NewTaskListCache(testutil.NewRedis(t), time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	tasks := []models.Task{{ID: 1, AuthorID: 1, Title: "a"}, {ID: 2, AuthorID: 1, Title: "b", Done: true}}
	require.NoError(t, c.Set(ctx, 1, tasks))

	got, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tasks, got)

	_, ok, err = c.Get(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok, "lists are kept per user")

	require.NoError(t, c.Invalidate(ctx, 1))
	_, ok, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskListCache_EmptyListIsAHit(t *testing.T) {
	c := NewTaskListCache(testutil.NewRedis(t), time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 5, []models.Task{}))
	got, ok, err := c.Get(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}
