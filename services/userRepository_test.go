package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-backend/constant"
	"users-backend/db"
	"users-backend/model"
)

func newTestPool(t *testing.T) *db.Pool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.db")
	pool, err := db.Connect(context.Background(), "sqlite://"+path, db.Options{RetryDelay: time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	require.NoError(t, db.InitSchema(pool))
	return pool
}

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	return NewUserRepository(newTestPool(t))
}

func TestUserRepository_CreateThenGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.NewUserInput("Ada", "Lovelace", "12345", "UK"))
	require.NoError(t, err)
	assert.Equal(t, uint(1), created.ID)

	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	again, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, fetched, again)
}

func TestUserRepository_IdsAreUnique(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, model.NewUserInput("A", "A", "1", "X"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, model.NewUserInput("B", "B", "2", "Y"))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Greater(t, b.ID, a.ID)
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 42)

	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUserRepository_UpdateOverwritesAllFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created, err := repo.Create(ctx, model.NewUserInput("Ada", "Lovelace", "12345", "UK"))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, model.NewUserInput("Grace", "Hopper", "99999", "France"))
	require.NoError(t, err)

	want := model.User{ID: created.ID, Firstname: "Grace", Lastname: "Hopper", ZipCode: "99999", Country: "France"}
	assert.Equal(t, want, updated)
	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, want, fetched)
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Update(context.Background(), 7, model.NewUserInput("a", "b", "c", "d"))

	assert.ErrorIs(t, err, db.ErrNotFound)
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserRepository_DeleteIsFinal(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created, err := repo.Create(ctx, model.NewUserInput("Ada", "Lovelace", "12345", "UK"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), db.ErrNotFound)
}

func TestUserRepository_ListPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, err := repo.Create(ctx, model.NewUserInput(name, name, "0", "Z"))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	tail, err := repo.List(ctx, 4, 10)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	none, err := repo.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	zero, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, zero)
}

func TestUserRepository_InsertBatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.InsertBatch(ctx, []model.User{
		{Firstname: "a", Lastname: "b", ZipCode: "1", Country: "X"},
		{Firstname: "c", Lastname: "d", ZipCode: "2", Country: "Y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.InsertBatch(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUserRepository_InsertBatchSpansSeveralStatements(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	users := NewSeeder(nil, 3).Generate(2*constant.INSERT_CHUNK_SIZE + 200)

	n, err := repo.InsertBatch(ctx, users)
	require.NoError(t, err)
	assert.Equal(t, len(users), n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(users), count)

	last, err := repo.List(ctx, len(users)-1, 10)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, users[len(users)-1].Firstname, last[0].Firstname)
}
