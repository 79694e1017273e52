package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist-api/internal/models"
	"tasklist-api/internal/repository"
	"tasklist-api/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	created, err := users.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	byEmail, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created, byEmail)

	byID, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	_, err = users.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_Duplicates(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	_, err := users.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "other@x.com", "hash")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = users.Create(ctx, "bob", "a@x.com", "hash")
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func seedUsers(t *testing.T, users *repository.UserRepository) (int, int) {
	t.Helper()
	ctx := context.Background()
	alice, err := users.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "b@x.com", "hash")
	require.NoError(t, err)
	return alice.ID, bob.ID
}

func TestTaskRepository_ListIsOwnedAndOrdered(t *testing.T) {
	db := testutil.NewDB(t)
	tasks := repository.NewTaskRepository(db)
	alice, bob := seedUsers(t, repository.NewUserRepository(db))
	ctx := context.Background()

	first, err := tasks.Create(ctx, alice, "first")
	require.NoError(t, err)
	second, err := tasks.Create(ctx, alice, "second")
	require.NoError(t, err)
	third, err := tasks.Create(ctx, alice, "third")
	require.NoError(t, err)
	_, err = tasks.Create(ctx, bob, "bob's")
	require.NoError(t, err)

	_, err = tasks.Update(ctx, alice, first.ID, models.TaskPatch{Done: ptr(true)})
	require.NoError(t, err)

	list, err := tasks.ListByAuthor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{second.ID, third.ID, first.ID},
		[]int{list[0].ID, list[1].ID, list[2].ID}, "open tasks first, then by id")
	for _, task := range list {
		assert.Equal(t, alice, task.AuthorID)
	}

	empty, err := tasks.ListByAuthor(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTaskRepository_CreateStartsOpen(t *testing.T) {
	db := testutil.NewDB(t)
	tasks := repository.NewTaskRepository(db)
	alice, _ := seedUsers(t, repository.NewUserRepository(db))

	task, err := tasks.Create(context.Background(), alice, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, models.Task{ID: task.ID, AuthorID: alice, Title: "buy milk", Done: false}, task)
}

func TestTaskRepository_UpdateIsPartial(t *testing.T) {
	db := testutil.NewDB(t)
	tasks := repository.NewTaskRepository(db)
	alice, _ := seedUsers(t, repository.NewUserRepository(db))
	ctx := context.Background()

	task, err := tasks.Create(ctx, alice, "draft")
	require.NoError(t, err)

	updated, err := tasks.Update(ctx, alice, task.ID, models.TaskPatch{Done: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Title)
	assert.True(t, updated.Done)

	updated, err = tasks.Update(ctx, alice, task.ID, models.TaskPatch{Title: ptr("final")})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.True(t, updated.Done)

	got, err := tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestTaskRepository_OtherUsersCannotTouch(t *testing.T) {
	db := testutil.NewDB(t)
	tasks := repository.NewTaskRepository(db)
	alice, bob := seedUsers(t, repository.NewUserRepository(db))
	ctx := context.Background()

	task, err := tasks.Create(ctx, alice, "private")
	require.NoError(t, err)

	_, err = tasks.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = tasks.Update(ctx, bob, task.ID, models.TaskPatch{Title: ptr("hijacked")})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = tasks.Delete(ctx, bob, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)

	// Missing ids look exactly the same.
	err = tasks.Delete(ctx, bob, task.ID+1000)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepository_ConcurrentDeleteSucceedsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	tasks := repository.NewTaskRepository(db)
	alice, _ := seedUsers(t, repository.NewUserRepository(db))
	ctx := context.Background()

	task, err := tasks.Create(ctx, alice, "once")
	require.NoError(t, err)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tasks.Delete(ctx, alice, task.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, notFound int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, repository.ErrNotFound):
			notFound++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, notFound)
}
