package publicapi

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

const feedDefaultLimit = 50

type PostAPI struct {
	repos     *persist.Repositories
	validator *validator.Validate

	cacheOnce sync.Once
	cache     *lru.Cache
}

// GetPostByID returns a post, served from a small in-process cache that
// comment mutations invalidate (comment counts ride on the post payload).
func (api *PostAPI) GetPostByID(ctx context.Context, postID persist.DBID) (persist.Post, error) {
	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"postID": validate.WithTag(postID, "required"),
	}); err != nil {
		return persist.Post{}, err
	}

	if cached, ok := api.postCache().Get(postID); ok {
		return cached.(persist.Post), nil
	}

	post, err := api.repos.PostRepository.GetByID(ctx, postID)
	if err != nil {
		return persist.Post{}, err
	}

	api.postCache().Add(postID, post)
	return post, nil
}

// GetFeed returns the newest posts first.
func (api *PostAPI) GetFeed(ctx context.Context, limit int) ([]persist.Post, error) {
	if limit < 1 || limit > 100 {
		limit = feedDefaultLimit
	}

	return api.repos.PostRepository.GetFeed(ctx, limit)
}

// CreatePost publishes a new post for the authenticated user.
func (api *PostAPI) CreatePost(ctx context.Context, title, content string) (persist.Post, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return persist.Post{}, err
	}

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"title":   validate.WithTag(strings.TrimSpace(title), "required,max=200"),
		"content": validate.WithTag(content, "comment_content"),
	}); err != nil {
		return persist.Post{}, err
	}

	user, err := api.repos.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return persist.Post{}, err
	}

	return api.repos.PostRepository.Create(ctx, persist.Post{
		AuthorID:   user.ID,
		AuthorName: user.Name,
		Title:      strings.TrimSpace(title),
		Content:    sanitizeContent(content),
	})
}

// invalidate drops a post from the cache after something it embeds changed.
func (api *PostAPI) invalidate(postID persist.DBID) {
	api.postCache().Remove(postID)
}

func (api *PostAPI) postCache() *lru.Cache {
	api.cacheOnce.Do(func() {
		api.cache, _ = lru.New(512)
	})
	return api.cache
}
