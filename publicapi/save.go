package publicapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/vivemedellin/go-vivemedellin/event"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

type SaveAPI struct {
	repos     *persist.Repositories
	validator *validator.Validate
}

// SavePost bookmarks a post for the viewer. Saving an already-saved post is a
// no-op.
func (api SaveAPI) SavePost(ctx context.Context, postID persist.DBID) error {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return err
	}

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"postID": validate.WithTag(postID, "required"),
	}); err != nil {
		return err
	}

	post, err := api.repos.PostRepository.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	alreadySaved, err := api.repos.SaveRepository.Exists(ctx, userID, postID)
	if err != nil {
		return err
	}

	if _, err := api.repos.SaveRepository.Create(ctx, userID, postID); err != nil {
		return err
	}

	// Re-saving shouldn't ping the post's author again.
	if alreadySaved {
		return nil
	}

	user, err := api.repos.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	evt := persist.Event{
		ActorID:       user.ID,
		ActorName:     user.Name,
		Action:        persist.ActionSavedPost,
		PostID:        postID,
		SubjectUserID: post.AuthorID,
	}
	if err := event.Dispatch(ctx, evt); err != nil {
		logger.For(ctx).Errorf("failed to dispatch %s event: %s", evt.Action, err)
	}

	return nil
}

// UnsavePost removes a bookmark. Unsaving a post that was never saved
// succeeds.
func (api SaveAPI) UnsavePost(ctx context.Context, postID persist.DBID) error {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return err
	}

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"postID": validate.WithTag(postID, "required"),
	}); err != nil {
		return err
	}

	err = api.repos.SaveRepository.Delete(ctx, userID, postID)
	if errors.As(err, &persist.ErrSaveNotFound{}) {
		return nil
	}
	return err
}

// IsPostSaved reports whether the viewer has bookmarked the post.
func (api SaveAPI) IsPostSaved(ctx context.Context, postID persist.DBID) (bool, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return false, err
	}

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"postID": validate.WithTag(postID, "required"),
	}); err != nil {
		return false, err
	}

	return api.repos.SaveRepository.Exists(ctx, userID, postID)
}

// GetSavedPosts lists the posts the viewer has bookmarked, most recently
// saved first.
func (api SaveAPI) GetSavedPosts(ctx context.Context) ([]persist.Post, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return nil, err
	}

	return api.repos.SaveRepository.GetPostsByUserID(ctx, userID)
}
