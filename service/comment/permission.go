package comment

import (
	"time"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

func init() {
	env.RegisterValidation("COMMENT_EDIT_WINDOW_SECONDS", 3600)
}

// EditWindow is how long after creation an author may still edit their
// comment.
func EditWindow() time.Duration {
	return time.Duration(env.GetInt64("COMMENT_EDIT_WINDOW_SECONDS")) * time.Second
}

// CanEdit reports whether user may edit c at the given instant: the user
// must be the comment's author and the edit window must still be open.
// Admins get no special treatment here; editing someone else's words is
// never allowed. The function is total: a nil user simply yields false.
func CanEdit(user *persist.User, c persist.Comment, now time.Time, window time.Duration) bool {
	if user == nil {
		return false
	}
	if !isAuthor(*user, c) {
		return false
	}
	return now.Sub(c.CreatedAt.Time()) <= window
}

// CanDelete reports whether user may delete c: admins always, authors
// regardless of elapsed time. Total; nil user yields false.
func CanDelete(user *persist.User, c persist.Comment) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return isAuthor(*user, c)
}

// isAuthor compares identities by ID. The display-name comparison only runs
// when both IDs are absent, which can happen for comments imported from
// legacy data; two distinct users sharing a name must never match through
// this path when IDs exist.
func isAuthor(user persist.User, c persist.Comment) bool {
	if user.ID != "" || c.AuthorID != "" {
		return user.ID == c.AuthorID
	}
	return user.Name != "" && user.Name == c.AuthorName
}
