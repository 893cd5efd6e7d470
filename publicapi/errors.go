package publicapi

import "errors"

var (
	// ErrOnlyEditOwnComment rejects edits by anyone other than the author,
	// admins included.
	ErrOnlyEditOwnComment = errors.New("comments can only be edited by their author")

	// ErrEditWindowExpired rejects author edits after the edit window closes.
	ErrEditWindowExpired = errors.New("the time window for editing this comment has passed")

	// ErrOnlyRemoveOwnComment rejects deletions by non-authors without the
	// admin role.
	ErrOnlyRemoveOwnComment = errors.New("comments can only be removed by their author or an administrator")

	// ErrDeletionReasonRequired forces admins to justify removing someone
	// else's comment; the reason lands in the audit log.
	ErrDeletionReasonRequired = errors.New("a deletion reason is required when removing another user's comment")

	// ErrAdminOnly guards admin-scoped queries reached without the role.
	ErrAdminOnly = errors.New("this operation requires administrator privileges")
)
