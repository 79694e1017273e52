//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist-api/internal/models"
	"tasklist-api/internal/repository"
	"tasklist-api/internal/testutil"
)

func TestPostgres_TaskLifecycle(t *testing.T) {
	db := testutil.NewPostgres(t)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "b@x.com", "hash")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "c@x.com", "hash")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
	_, err = users.Create(ctx, "carol", "a@x.com", "hash")
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	first, err := tasks.Create(ctx, alice.ID, "first")
	require.NoError(t, err)
	second, err := tasks.Create(ctx, alice.ID, "second")
	require.NoError(t, err)

	updated, err := tasks.Update(ctx, alice.ID, first.ID, models.TaskPatch{Done: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "first", updated.Title)

	list, err := tasks.ListByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	_, err = tasks.Update(ctx, bob.ID, first.ID, models.TaskPatch{Title: ptr("stolen")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, bob.ID, first.ID), repository.ErrNotFound)
}

func TestPostgres_ConcurrentDeleteSucceedsOnce(t *testing.T) {
	db := testutil.NewPostgres(t)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	task, err := tasks.Create(ctx, alice.ID, "contested")
	require.NoError(t, err)

	const n = 16
	results := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tasks.Delete(ctx, alice.ID, task.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrNotFound):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
}
