package publicapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivemedellin/go-vivemedellin/service/auth"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

func TestSavePost(t *testing.T) {
	t.Run("saves and reports a post", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedUser(t, "alice", "Alice")
		bob := f.seedUser(t, "bob", "Bob")
		post := f.seedPost(t, alice, "a post")

		require.NoError(t, f.api.Save.SavePost(f.ctxFor(&bob), post.ID))

		saved, err := f.api.Save.IsPostSaved(f.ctxFor(&bob), post.ID)
		require.NoError(t, err)
		assert.True(t, saved)

		posts, err := f.api.Save.GetSavedPosts(f.ctxFor(&bob))
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, post.ID, posts[0].ID)
	})

	t.Run("saving twice is a no-op and notifies once", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedUser(t, "alice", "Alice")
		bob := f.seedUser(t, "bob", "Bob")
		post := f.seedPost(t, alice, "a post")

		require.NoError(t, f.api.Save.SavePost(f.ctxFor(&bob), post.ID))
		require.NoError(t, f.api.Save.SavePost(f.ctxFor(&bob), post.ID))

		posts, err := f.api.Save.GetSavedPosts(f.ctxFor(&bob))
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		assert.Eventually(t, func() bool {
			count, _ := f.repos.NotificationRepository.CountUnseen(f.ctxFor(&alice), alice.ID)
			return count == 1
		}, time.Second, 10*time.Millisecond)
		// Let any stray second fanout land before the final check.
		time.Sleep(50 * time.Millisecond)
		count, err := f.repos.NotificationRepository.CountUnseen(f.ctxFor(&alice), alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unsaving a post that was never saved succeeds", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedUser(t, "alice", "Alice")
		post := f.seedPost(t, alice, "a post")

		assert.NoError(t, f.api.Save.UnsavePost(f.ctxFor(&alice), post.ID))
	})

	t.Run("unsave removes the bookmark", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedUser(t, "alice", "Alice")
		post := f.seedPost(t, alice, "a post")

		require.NoError(t, f.api.Save.SavePost(f.ctxFor(&alice), post.ID))
		require.NoError(t, f.api.Save.UnsavePost(f.ctxFor(&alice), post.ID))

		saved, err := f.api.Save.IsPostSaved(f.ctxFor(&alice), post.ID)
		require.NoError(t, err)
		assert.False(t, saved)
	})

	t.Run("saving an unknown post is not found", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedUser(t, "alice", "Alice")

		err := f.api.Save.SavePost(f.ctxFor(&alice), "missing")

		assert.ErrorAs(t, err, &persist.ErrPostNotFound{})
	})

	t.Run("anonymous saves are rejected", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedUser(t, "alice", "Alice")
		post := f.seedPost(t, alice, "a post")

		err := f.api.Save.SavePost(f.ctxFor(nil), post.ID)

		assert.ErrorIs(t, err, auth.ErrNoAuthSession)
	})
}
