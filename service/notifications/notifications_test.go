package notifications

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

type fakeNotifRepo struct {
	mu      sync.Mutex
	created []persist.Notification
	unseen  int64
}

func (r *fakeNotifRepo) GetByID(context.Context, persist.DBID) (persist.Notification, error) {
	return persist.Notification{}, nil
}

func (r *fakeNotifRepo) GetByOwnerID(context.Context, persist.DBID, int) ([]persist.Notification, error) {
	return nil, nil
}

func (r *fakeNotifRepo) Create(_ context.Context, n persist.Notification) (persist.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = persist.GenerateID()
	r.created = append(r.created, n)
	return n, nil
}

func (r *fakeNotifRepo) CountUnseen(context.Context, persist.DBID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unseen, nil
}

func (r *fakeNotifRepo) MarkSeen(context.Context, persist.DBID, persist.DBID) error { return nil }
func (r *fakeNotifRepo) MarkAllSeen(context.Context, persist.DBID) error           { return nil }

func TestHandle(t *testing.T) {
	owner := persist.GenerateID()
	actor := persist.GenerateID()

	cases := []struct {
		action  persist.Action
		typ     persist.NotificationType
		message string
	}{
		{persist.ActionCommentedOnPost, persist.NotificationTypeComment, "Bob comentó en tu publicación"},
		{persist.ActionRepliedToComment, persist.NotificationTypeReply, "Bob respondió a tu comentario"},
		{persist.ActionSavedPost, persist.NotificationTypeSave, "Bob guardó tu publicación"},
		{persist.ActionDeletedComment, persist.NotificationTypeSystem, "Un administrador eliminó tu comentario"},
	}

	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			repo := &fakeNotifRepo{}
			h := New(repo, nil)

			err := h.Handle(context.Background(), persist.Event{
				ActorID:       actor,
				ActorName:     "Bob",
				Action:        tc.action,
				SubjectUserID: owner,
			})
			require.NoError(t, err)
			h.Stop()

			require.Len(t, repo.created, 1)
			assert.Equal(t, owner, repo.created[0].OwnerID)
			assert.Equal(t, actor, repo.created[0].ActorID)
			assert.Equal(t, tc.typ, repo.created[0].Type)
			assert.Equal(t, tc.message, repo.created[0].Message)
		})
	}
}

func TestHandle_UnknownActionFails(t *testing.T) {
	repo := &fakeNotifRepo{}
	h := New(repo, nil)
	defer h.Stop()

	err := h.Handle(context.Background(), persist.Event{
		ActorID:       persist.GenerateID(),
		Action:        persist.Action("SomethingElse"),
		SubjectUserID: persist.GenerateID(),
	})

	assert.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestHandle_AfterStopRefusesWithoutPanicking(t *testing.T) {
	repo := &fakeNotifRepo{}
	h := New(repo, nil)
	h.Stop()

	var err error
	assert.NotPanics(t, func() {
		err = h.Handle(context.Background(), persist.Event{
			ActorID:       persist.GenerateID(),
			ActorName:     "Bob",
			Action:        persist.ActionSavedPost,
			SubjectUserID: persist.GenerateID(),
		})
	})

	assert.Error(t, err)
	assert.Empty(t, repo.created)

	// A second Stop must be a no-op, not a second drain of a dead pool.
	assert.NotPanics(t, h.Stop)
}

func TestUnseenCount_WithoutCacheHitsRepository(t *testing.T) {
	repo := &fakeNotifRepo{unseen: 7}
	h := New(repo, nil)
	defer h.Stop()

	count, err := h.UnseenCount(context.Background(), persist.GenerateID())

	require.NoError(t, err)
	assert.EqualValues(t, 7, count)
}
