package persist

// Event describes a mutation as it is handed to the event dispatcher. Events
// are not stored; the notifications they produce are.
type Event struct {
	ID            DBID   `json:"id"`
	ActorID       DBID   `json:"actor_id" validate:"required"`
	ActorName     string `json:"actor_name"`
	Action        Action `json:"action" validate:"required"`
	PostID        DBID   `json:"post_id"`
	CommentID     DBID   `json:"comment_id"`
	SubjectUserID DBID   `json:"subject_user_id"`
}
