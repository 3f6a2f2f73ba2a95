package domain

import "time"

// Comment is attached to exactly one task and immutable once created.
// Ordering is ascending by ID, which follows creation order.
type Comment struct {
	ID        int            `json:"id"`
	Text      string         `json:"text"`
	TaskID    int            `json:"taskId"`
	UserID    int            `json:"userId"`
	User      *CommentAuthor `json:"user,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// CommentAuthor is the author projection returned alongside a comment.
type CommentAuthor struct {
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}
