package server

import (
	"time"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// The JSON shapes below are the frontend's contract; field names are
// camelCase and author info is embedded as a small user object.

type userPayload struct {
	ID   persist.DBID `json:"id"`
	Name string       `json:"name"`
}

type authResponse struct {
	Token    string         `json:"token"`
	ID       persist.DBID   `json:"id"`
	Username string         `json:"username"`
	Name     string         `json:"name"`
	Role     persist.Role   `json:"role"`
	Roles    []persist.Role `json:"roles"`
}

type postResponse struct {
	ID           persist.DBID `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	User         userPayload  `json:"user"`
	CreatedDate  time.Time    `json:"createdDate"`
	CommentCount int64        `json:"commentCount"`
}

type commentResponse struct {
	ID              persist.DBID      `json:"id"`
	PostID          persist.DBID      `json:"postId"`
	User            userPayload       `json:"user"`
	Content         string            `json:"content"`
	CreatedDate     time.Time         `json:"createdDate"`
	EditedDate      *time.Time        `json:"editedDate,omitempty"`
	ParentCommentID persist.DBID      `json:"parentCommentId,omitempty"`
	Replies         []commentResponse `json:"replies"`
}

type notificationResponse struct {
	ID            persist.DBID             `json:"id"`
	Message       string                   `json:"message"`
	Type          persist.NotificationType `json:"type"`
	Read          bool                     `json:"read"`
	CreatedAt     time.Time                `json:"createdAt"`
	RelatedPostID persist.DBID             `json:"relatedPostId,omitempty"`
	RelatedUserID persist.DBID             `json:"relatedUserId,omitempty"`
}

type auditResponse struct {
	ID                persist.DBID `json:"id"`
	CreatedAt         time.Time    `json:"createdAt"`
	CommentID         persist.DBID `json:"commentId"`
	PostID            persist.DBID `json:"postId"`
	CommentAuthorName string       `json:"commentAuthorName"`
	CommentContent    string       `json:"commentContent"`
	DeletedBy         userPayload  `json:"deletedBy"`
	DeletedByRole     persist.Role `json:"deletedByRole"`
	Reason            string       `json:"reason"`
}

func authResponseFrom(result publicapi.AuthResult) authResponse {
	return authResponse{
		Token:    result.Token,
		ID:       result.User.ID,
		Username: result.User.Username,
		Name:     result.User.Name,
		Role:     result.User.PrimaryRole(),
		Roles:    result.User.Roles,
	}
}

func postResponseFrom(post persist.Post) postResponse {
	return postResponse{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		User:         userPayload{ID: post.AuthorID, Name: post.AuthorName},
		CreatedDate:  post.CreatedAt.Time(),
		CommentCount: post.CommentCount,
	}
}

func postResponsesFrom(posts []persist.Post) []postResponse {
	out := make([]postResponse, len(posts))
	for i, post := range posts {
		out[i] = postResponseFrom(post)
	}
	return out
}

func commentResponseFrom(comment persist.Comment) commentResponse {
	return commentResponse{
		ID:              comment.ID,
		PostID:          comment.PostID,
		User:            userPayload{ID: comment.AuthorID, Name: comment.AuthorName},
		Content:         comment.Content,
		CreatedDate:     comment.CreatedAt.Time(),
		EditedDate:      comment.EditedAt,
		ParentCommentID: comment.ParentID,
		Replies:         []commentResponse{},
	}
}

func commentForestFrom(forest []*persist.Comment) []commentResponse {
	out := make([]commentResponse, len(forest))
	for i, node := range forest {
		resp := commentResponseFrom(*node)
		resp.Replies = commentForestFrom(node.Replies)
		out[i] = resp
	}
	return out
}

func notificationResponsesFrom(notifs []persist.Notification) []notificationResponse {
	out := make([]notificationResponse, len(notifs))
	for i, n := range notifs {
		out[i] = notificationResponse{
			ID:            n.ID,
			Message:       n.Message,
			Type:          n.Type,
			Read:          n.Seen,
			CreatedAt:     n.CreatedAt.Time(),
			RelatedPostID: n.PostID,
			RelatedUserID: n.ActorID,
		}
	}
	return out
}

func auditResponsesFrom(records []persist.CommentDeletionAudit) []auditResponse {
	out := make([]auditResponse, len(records))
	for i, r := range records {
		out[i] = auditResponse{
			ID:                r.ID,
			CreatedAt:         r.CreatedAt.Time(),
			CommentID:         r.CommentID,
			PostID:            r.PostID,
			CommentAuthorName: r.CommentAuthorName,
			CommentContent:    r.CommentContent,
			DeletedBy:         userPayload{ID: r.DeletedBy, Name: r.DeletedByName},
			DeletedByRole:     r.DeletedByRole,
			Reason:            r.Reason,
		}
	}
	return out
}
