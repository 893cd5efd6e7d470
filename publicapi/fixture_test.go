package publicapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/event"
	"github.com/vivemedellin/go-vivemedellin/service/auth"
	"github.com/vivemedellin/go-vivemedellin/service/notifications"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// store is a mutex-guarded in-memory database shared by the fake
// repositories below.
type store struct {
	mu            sync.Mutex
	users         map[persist.DBID]persist.User
	posts         map[persist.DBID]persist.Post
	comments      map[persist.DBID]persist.Comment
	notifications []persist.Notification
	saves         map[string]persist.Save
	audits        []persist.CommentDeletionAudit

	// clock hands out strictly increasing timestamps so ordering
	// assertions are deterministic.
	now time.Time

	commentCreates int
	userReads      int
}

func newStore() *store {
	return &store{
		users:    map[persist.DBID]persist.User{},
		posts:    map[persist.DBID]persist.Post{},
		comments: map[persist.DBID]persist.Comment{},
		saves:    map[string]persist.Save{},
		now:      time.Now(),
	}
}

func (s *store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

type memUsers struct{ s *store }

func (r *memUsers) GetByID(_ context.Context, id persist.DBID) (persist.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.userReads++
	user, ok := r.s.users[id]
	if !ok {
		return persist.User{}, persist.ErrUserNotFound{UserID: id}
	}
	return user, nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (persist.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return persist.User{}, persist.ErrUserNotFound{Username: username}
}

func (r *memUsers) Create(_ context.Context, user persist.User) (persist.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return persist.User{}, persist.ErrUsernameNotAvailable{Username: user.Username}
		}
	}
	user.ID = persist.GenerateID()
	user.CreatedAt = persist.CreationTime(r.s.tick())
	r.s.users[user.ID] = user
	return user, nil
}

func (r *memUsers) Delete(_ context.Context, id persist.DBID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type memPosts struct{ s *store }

func (r *memPosts) GetByID(_ context.Context, id persist.DBID) (persist.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post, ok := r.s.posts[id]
	if !ok {
		return persist.Post{}, persist.ErrPostNotFound{ID: id}
	}
	return post, nil
}

func (r *memPosts) GetFeed(_ context.Context, limit int) ([]persist.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := make([]persist.Post, 0, len(r.s.posts))
	for _, post := range r.s.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.Time().After(posts[j].CreatedAt.Time())
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *memPosts) Create(_ context.Context, post persist.Post) (persist.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.ID = persist.GenerateID()
	post.CreatedAt = persist.CreationTime(r.s.tick())
	r.s.posts[post.ID] = post
	return post, nil
}

func (r *memPosts) Delete(_ context.Context, id persist.DBID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.posts, id)
	return nil
}

type memComments struct{ s *store }

func (r *memComments) GetByID(_ context.Context, id persist.DBID) (persist.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment, ok := r.s.comments[id]
	if !ok {
		return persist.Comment{}, persist.ErrCommentNotFound{ID: id}
	}
	return comment, nil
}

func (r *memComments) GetByPostID(_ context.Context, postID persist.DBID) ([]persist.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comments := []persist.Comment{}
	for _, comment := range r.s.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Time().Before(comments[j].CreatedAt.Time())
	})
	return comments, nil
}

func (r *memComments) Create(_ context.Context, comment persist.Comment) (persist.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.commentCreates++
	comment.ID = persist.GenerateID()
	comment.CreatedAt = persist.CreationTime(r.s.tick())
	r.s.comments[comment.ID] = comment
	return comment, nil
}

func (r *memComments) Update(_ context.Context, id persist.DBID, content string, editedAt time.Time) (persist.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment, ok := r.s.comments[id]
	if !ok {
		return persist.Comment{}, persist.ErrCommentNotFound{ID: id}
	}
	comment.Content = content
	comment.EditedAt = &editedAt
	r.s.comments[id] = comment
	return comment, nil
}

func (r *memComments) Delete(_ context.Context, id persist.DBID) ([]persist.DBID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return nil, persist.ErrCommentNotFound{ID: id}
	}
	removed := []persist.DBID{id}
	delete(r.s.comments, id)
	for childID, child := range r.s.comments {
		if child.ParentID == id {
			removed = append(removed, childID)
			delete(r.s.comments, childID)
		}
	}
	return removed, nil
}

func (r *memComments) CountByPostID(_ context.Context, postID persist.DBID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, comment := range r.s.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

type memNotifs struct{ s *store }

func (r *memNotifs) GetByID(_ context.Context, id persist.DBID) (persist.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return persist.Notification{}, persist.ErrNotificationNotFound{ID: id}
}

func (r *memNotifs) GetByOwnerID(_ context.Context, ownerID persist.DBID, limit int) ([]persist.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notifs := []persist.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0 && len(notifs) < limit; i-- {
		if r.s.notifications[i].OwnerID == ownerID {
			notifs = append(notifs, r.s.notifications[i])
		}
	}
	return notifs, nil
}

func (r *memNotifs) Create(_ context.Context, n persist.Notification) (persist.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = persist.GenerateID()
	n.CreatedAt = persist.CreationTime(r.s.tick())
	r.s.notifications = append(r.s.notifications, n)
	return n, nil
}

func (r *memNotifs) CountUnseen(_ context.Context, ownerID persist.DBID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.OwnerID == ownerID && !n.Seen {
			count++
		}
	}
	return count, nil
}

func (r *memNotifs) MarkSeen(_ context.Context, id persist.DBID, ownerID persist.DBID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.notifications {
		if n.ID == id && n.OwnerID == ownerID {
			r.s.notifications[i].Seen = true
			return nil
		}
	}
	return persist.ErrNotificationNotFound{ID: id}
}

func (r *memNotifs) MarkAllSeen(_ context.Context, ownerID persist.DBID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.notifications {
		if n.OwnerID == ownerID {
			r.s.notifications[i].Seen = true
		}
	}
	return nil
}

type memSaves struct{ s *store }

func saveKey(userID, postID persist.DBID) string {
	return userID.String() + "|" + postID.String()
}

func (r *memSaves) Create(_ context.Context, userID, postID persist.DBID) (persist.Save, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := saveKey(userID, postID)
	if save, ok := r.s.saves[key]; ok {
		return save, nil
	}
	save := persist.Save{
		ID:        persist.GenerateID(),
		CreatedAt: persist.CreationTime(r.s.tick()),
		UserID:    userID,
		PostID:    postID,
	}
	r.s.saves[key] = save
	return save, nil
}

func (r *memSaves) Delete(_ context.Context, userID, postID persist.DBID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := saveKey(userID, postID)
	if _, ok := r.s.saves[key]; !ok {
		return persist.ErrSaveNotFound{UserID: userID, PostID: postID}
	}
	delete(r.s.saves, key)
	return nil
}

func (r *memSaves) Exists(_ context.Context, userID, postID persist.DBID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.saves[saveKey(userID, postID)]
	return ok, nil
}

func (r *memSaves) GetPostsByUserID(_ context.Context, userID persist.DBID) ([]persist.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	saves := []persist.Save{}
	for _, save := range r.s.saves {
		if save.UserID == userID {
			saves = append(saves, save)
		}
	}
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].CreatedAt.Time().After(saves[j].CreatedAt.Time())
	})
	posts := []persist.Post{}
	for _, save := range saves {
		if post, ok := r.s.posts[save.PostID]; ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

type memAudits struct{ s *store }

func (r *memAudits) Create(_ context.Context, record persist.CommentDeletionAudit) (persist.CommentDeletionAudit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record.ID = persist.GenerateID()
	record.CreatedAt = persist.CreationTime(r.s.tick())
	r.s.audits = append(r.s.audits, record)
	return record, nil
}

func (r *memAudits) GetCommentDeletions(_ context.Context, limit int) ([]persist.CommentDeletionAudit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := []persist.CommentDeletionAudit{}
	for i := len(r.s.audits) - 1; i >= 0 && len(records) < limit; i-- {
		records = append(records, r.s.audits[i])
	}
	return records, nil
}

type fixture struct {
	store    *store
	repos    *persist.Repositories
	handlers *notifications.NotificationHandlers
	api      *PublicAPI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := newStore()
	repos := &persist.Repositories{
		UserRepository:         &memUsers{s: s},
		PostRepository:         &memPosts{s: s},
		CommentRepository:      &memComments{s: s},
		NotificationRepository: &memNotifs{s: s},
		SaveRepository:         &memSaves{s: s},
		AuditRepository:        &memAudits{s: s},
	}

	handlers := notifications.New(repos.NotificationRepository, nil)
	t.Cleanup(handlers.Stop)

	return &fixture{
		store:    s,
		repos:    repos,
		handlers: handlers,
		api:      New(context.Background(), repos, nil, handlers),
	}
}

// ctxFor builds a request-shaped context carrying the API, event sender, and
// the given viewer's auth state. A nil viewer is an anonymous request.
func (f *fixture) ctxFor(viewer *persist.User) context.Context {
	gc, _ := gin.CreateTestContext(httptest.NewRecorder())
	gc.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	AddTo(gc, f.api)
	event.AddTo(gc, f.handlers)
	notifications.AddTo(gc, f.handlers)

	if viewer != nil {
		auth.SetAuthStateForCtx(gc, viewer.ID, persist.GenerateID(), viewer.Roles)
	} else {
		auth.SetAuthErrorForCtx(gc, auth.ErrNoAuthSession)
	}

	return gc
}

func (f *fixture) seedUser(t *testing.T, username, name string, roles ...persist.Role) persist.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []persist.Role{persist.RoleUser}
	}
	user, err := f.repos.UserRepository.Create(context.Background(), persist.User{
		Username: username,
		Name:     name,
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("seeding user %s: %s", username, err)
	}
	return user
}

func (f *fixture) seedPost(t *testing.T, author persist.User, title string) persist.Post {
	t.Helper()
	post, err := f.repos.PostRepository.Create(context.Background(), persist.Post{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Title:      title,
		Content:    "some content",
	})
	if err != nil {
		t.Fatalf("seeding post %s: %s", title, err)
	}
	return post
}

func (f *fixture) seedComment(t *testing.T, author persist.User, post persist.Post, parentID persist.DBID, content string) persist.Comment {
	t.Helper()
	comment, err := f.repos.CommentRepository.Create(context.Background(), persist.Comment{
		PostID:     post.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Content:    content,
		ParentID:   parentID,
	})
	if err != nil {
		t.Fatalf("seeding comment: %s", err)
	}
	return comment
}

// seedOldComment backdates a comment so edit-window tests don't sleep.
func (f *fixture) seedOldComment(t *testing.T, author persist.User, post persist.Post, age time.Duration) persist.Comment {
	t.Helper()
	comment := f.seedComment(t, author, post, "", "an old comment")
	f.store.mu.Lock()
	comment.CreatedAt = persist.CreationTime(time.Now().Add(-age))
	f.store.comments[comment.ID] = comment
	f.store.mu.Unlock()
	return comment
}
