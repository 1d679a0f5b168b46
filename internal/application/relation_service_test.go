package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

func TestWatchlistService(t *testing.T) {
	posts := newFakePosts(&entity.Post{ID: "p1", Title: "Hello", AuthorID: "bob"})
	svc := &WatchlistService{Watchlists: &fakeWatchlists{lists: map[string]*entity.Watchlist{}, posts: posts}}

	_, err := svc.Get(t.Context(), alice)
	assert.ErrorIs(t, err, entity.ErrWatchlistNotFound)

	w, err := svc.Add(t.Context(), alice, "p1")
	require.NoError(t, err)
	w, err = svc.Add(t.Context(), alice, "p1")
	require.NoError(t, err)
	assert.Len(t, w.SavedPosts, 1)

	w, err = svc.Remove(t.Context(), alice, "not-saved")
	require.NoError(t, err)
	assert.Len(t, w.SavedPosts, 1)

	w, err = svc.Remove(t.Context(), alice, "p1")
	require.NoError(t, err)
	assert.Empty(t, w.SavedPosts)

	_, err = svc.Remove(t.Context(), bob, "p1")
	assert.ErrorIs(t, err, entity.ErrWatchlistNotFound)

	_, err = svc.Add(t.Context(), nobody, "p1")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestLikeService_Handle(t *testing.T) {
	users := newFakeUsers(&entity.User{ID: "alice"})
	posts := newFakePosts(&entity.Post{ID: "p1", Title: "Hello", AuthorID: "alice"})
	svc := &LikeService{Likes: newFakeLikes(users, posts)}

	ok, err := svc.Handle(t.Context(), alice, "p1", LikeModeLike)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.Handle(t.Context(), alice, "p1", LikeModeLike)
	require.NoError(t, err)
	assert.True(t, ok)

	liked, err := svc.LikedPosts(t.Context(), alice)
	require.NoError(t, err)
	assert.Len(t, liked, 1)

	ok, err = svc.Handle(t.Context(), alice, "p1", "love")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Handle(t.Context(), alice, "missing", LikeModeLike)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Handle(t.Context(), alice, "p1", LikeModeDislike)
	require.NoError(t, err)
	assert.True(t, ok)
	liked, err = svc.LikedPosts(t.Context(), alice)
	require.NoError(t, err)
	assert.Empty(t, liked)

	_, err = svc.Handle(t.Context(), nobody, "p1", LikeModeLike)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}
