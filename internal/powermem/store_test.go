package powermem

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "memories.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, "prefers dark roast coffee", Scope{UserID: "alice"}, map[string]any{"topic": "preferences"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	got, err := store.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "prefers dark roast coffee", got.Content)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, map[string]any{"topic": "preferences"}, got.Metadata)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAddRequiresScope(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add(context.Background(), "orphan memory", Scope{}, nil)
	assert.ErrorIs(t, err, ErrScopeRequired)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchScopedByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "alice likes hiking", Scope{UserID: "alice"}, nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, "alice likes climbing", Scope{UserID: "alice"}, nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, "bob likes hiking", Scope{UserID: "bob"}, nil)
	require.NoError(t, err)

	results, err := store.Search(ctx, "hiking", Scope{UserID: "alice"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice likes hiking", results[0].Content)
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "discount is 100%", Scope{UserID: "alice"}, nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, "discount is large", Scope{UserID: "alice"}, nil)
	require.NoError(t, err)

	results, err := store.Search(ctx, "100%", Scope{UserID: "alice"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "discount is 100%", results[0].Content)
}

func TestSearchRequiresScope(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Search(context.Background(), "anything", Scope{}, 10)
	assert.ErrorIs(t, err, ErrScopeRequired)
}

func TestUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, "old content", Scope{AgentID: "planner"}, nil)
	require.NoError(t, err)

	updated, err := store.Update(ctx, added.ID, "new content", map[string]any{"revised": true})
	require.NoError(t, err)
	assert.Equal(t, "new content", updated.Content)
	assert.Equal(t, map[string]any{"revised": true}, updated.Metadata)

	_, err = store.Update(ctx, "no-such-id", "content", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, "temporary", Scope{RunID: "run-1"}, nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, added.ID))
	_, err = store.Get(ctx, added.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, added.ID), ErrNotFound)
}

func TestDeleteAllScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Add(ctx, "session note", Scope{UserID: "alice", RunID: "run-1"}, nil)
		require.NoError(t, err)
	}
	_, err := store.Add(ctx, "other session", Scope{UserID: "alice", RunID: "run-2"}, nil)
	require.NoError(t, err)

	deleted, err := store.DeleteAll(ctx, Scope{RunID: "run-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	remaining, err := store.List(ctx, Scope{UserID: "alice"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	_, err = store.DeleteAll(ctx, Scope{})
	assert.ErrorIs(t, err, ErrScopeRequired)
}

func TestListPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		_, err := store.Add(ctx, content, Scope{UserID: "alice"}, nil)
		require.NoError(t, err)
	}

	page, err := store.List(ctx, Scope{UserID: "alice"}, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.List(ctx, Scope{UserID: "alice"}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
