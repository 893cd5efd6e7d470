package persist

// Repositories bundles every repository the API layer needs. Fields are
// interfaces so tests can swap in in-memory implementations.
type Repositories struct {
	UserRepository         UserRepository
	PostRepository         PostRepository
	CommentRepository      CommentRepository
	NotificationRepository NotificationRepository
	SaveRepository         SaveRepository
	AuditRepository        AuditRepository
}
