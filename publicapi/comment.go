package publicapi

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vivemedellin/go-vivemedellin/event"
	"github.com/vivemedellin/go-vivemedellin/service/comment"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

// contentPolicy strips all markup from submitted comments; the product
// renders plain text only.
var contentPolicy = bluemonday.StrictPolicy()

type CommentAPI struct {
	repos     *persist.Repositories
	validator *validator.Validate
	posts     *PostAPI
}

// GetCommentsByPostID returns the post's comments as a rendered thread
// forest: roots newest first, replies oldest first, nesting capped at the
// display depth with deeper replies flattened rather than dropped.
func (api CommentAPI) GetCommentsByPostID(ctx context.Context, postID persist.DBID) ([]*persist.Comment, error) {
	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"postID": validate.WithTag(postID, "required"),
	}); err != nil {
		return nil, err
	}

	if _, err := api.repos.PostRepository.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := api.repos.CommentRepository.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	return comment.BuildTree(comments), nil
}

// GetCommentByID returns a single comment without its reply tree.
func (api CommentAPI) GetCommentByID(ctx context.Context, commentID persist.DBID) (persist.Comment, error) {
	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"commentID": validate.WithTag(commentID, "required"),
	}); err != nil {
		return persist.Comment{}, err
	}

	return api.repos.CommentRepository.GetByID(ctx, commentID)
}

// ReplyToComment creates a reply addressed by its parent comment alone; the
// post is resolved from the parent.
func (api CommentAPI) ReplyToComment(ctx context.Context, parentID persist.DBID, content string) (persist.Comment, error) {
	parent, err := api.GetCommentByID(ctx, parentID)
	if err != nil {
		return persist.Comment{}, err
	}

	return api.AddComment(ctx, parent.PostID, parentID, content)
}

// AddComment creates a comment on a post, or a reply when parentID is set.
// Validation runs before any repository access so empty content never
// reaches the store.
func (api CommentAPI) AddComment(ctx context.Context, postID persist.DBID, parentID persist.DBID, content string) (persist.Comment, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return persist.Comment{}, err
	}

	// Sanitize before validating: markup-only input strips to nothing and
	// must fail the same way an empty submission does.
	content = sanitizeContent(content)

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"postID":  validate.WithTag(postID, "required"),
		"content": validate.WithTag(content, "comment_content"),
	}); err != nil {
		return persist.Comment{}, err
	}

	user, err := api.repos.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return persist.Comment{}, err
	}

	post, err := api.repos.PostRepository.GetByID(ctx, postID)
	if err != nil {
		return persist.Comment{}, err
	}

	notifySubject := post.AuthorID
	action := persist.ActionCommentedOnPost

	if parentID != "" {
		parent, err := api.repos.CommentRepository.GetByID(ctx, parentID)
		if err != nil {
			return persist.Comment{}, err
		}
		if parent.PostID != postID {
			return persist.Comment{}, persist.ErrInvalidReplyTarget{ParentID: parentID, PostID: postID}
		}
		notifySubject = parent.AuthorID
		action = persist.ActionRepliedToComment
	}

	created, err := api.repos.CommentRepository.Create(ctx, persist.Comment{
		PostID:     postID,
		AuthorID:   user.ID,
		AuthorName: user.Name,
		Content:    content,
		ParentID:   parentID,
	})
	if err != nil {
		return persist.Comment{}, err
	}

	api.posts.invalidate(postID)

	api.dispatch(ctx, persist.Event{
		ActorID:       user.ID,
		ActorName:     user.Name,
		Action:        action,
		PostID:        postID,
		CommentID:     created.ID,
		SubjectUserID: notifySubject,
	})

	return created, nil
}

// UpdateComment replaces a comment's content. Only the author may edit, and
// only while the edit window is open.
func (api CommentAPI) UpdateComment(ctx context.Context, commentID persist.DBID, content string) (persist.Comment, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return persist.Comment{}, err
	}

	content = sanitizeContent(content)

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"commentID": validate.WithTag(commentID, "required"),
		"content":   validate.WithTag(content, "comment_content"),
	}); err != nil {
		return persist.Comment{}, err
	}

	existing, err := api.repos.CommentRepository.GetByID(ctx, commentID)
	if err != nil {
		return persist.Comment{}, err
	}

	user, err := api.repos.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return persist.Comment{}, err
	}

	now := time.Now()
	if !comment.CanEdit(&user, existing, now, comment.EditWindow()) {
		if user.ID != existing.AuthorID {
			return persist.Comment{}, ErrOnlyEditOwnComment
		}
		return persist.Comment{}, ErrEditWindowExpired
	}

	updated, err := api.repos.CommentRepository.Update(ctx, commentID, content, now)
	if err != nil {
		return persist.Comment{}, err
	}

	api.posts.invalidate(existing.PostID)
	return updated, nil
}

// RemoveComment deletes a comment and its direct replies. Authors may delete
// their own comments; admins may delete any comment but must give a reason,
// which is written to the audit log along with the removed content.
func (api CommentAPI) RemoveComment(ctx context.Context, commentID persist.DBID, reason string) ([]persist.DBID, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"commentID": validate.WithTag(commentID, "required"),
	}); err != nil {
		return nil, err
	}

	existing, err := api.repos.CommentRepository.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	user, err := api.repos.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !comment.CanDelete(&user, existing) {
		return nil, ErrOnlyRemoveOwnComment
	}

	adminRemoval := user.ID != existing.AuthorID
	if adminRemoval && strings.TrimSpace(reason) == "" {
		return nil, ErrDeletionReasonRequired
	}

	removed, err := api.repos.CommentRepository.Delete(ctx, commentID)
	if err != nil {
		return nil, err
	}

	api.posts.invalidate(existing.PostID)

	if adminRemoval {
		if _, err := api.repos.AuditRepository.Create(ctx, persist.CommentDeletionAudit{
			CommentID:         existing.ID,
			PostID:            existing.PostID,
			CommentAuthorName: existing.AuthorName,
			CommentContent:    existing.Content,
			DeletedBy:         user.ID,
			DeletedByName:     user.Name,
			DeletedByRole:     user.PrimaryRole(),
			Reason:            strings.TrimSpace(reason),
		}); err != nil {
			// The comment is already gone; losing the audit row is worth
			// surfacing loudly but not worth failing the request.
			logger.For(ctx).Errorf("failed to write deletion audit for comment %s: %s", existing.ID, err)
		}

		api.dispatch(ctx, persist.Event{
			ActorID:       user.ID,
			ActorName:     user.Name,
			Action:        persist.ActionDeletedComment,
			PostID:        existing.PostID,
			CommentID:     existing.ID,
			SubjectUserID: existing.AuthorID,
		})
	}

	return removed, nil
}

func (api CommentAPI) dispatch(ctx context.Context, evt persist.Event) {
	if err := event.Dispatch(ctx, evt); err != nil {
		logger.For(ctx).Errorf("failed to dispatch %s event: %s", evt.Action, err)
	}
}

// sanitizeContent strips markup and normalizes whitespace; stored content is
// plain text.
func sanitizeContent(content string) string {
	sanitized := contentPolicy.Sanitize(content)
	return strings.TrimSpace(html.UnescapeString(sanitized))
}
