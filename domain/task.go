package domain

import "time"

// Task is the unit of trackable work. Status and Priority are optional: a
// task without a status renders in the board's default column.
type Task struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         Status     `json:"status,omitempty"`
	Priority       Priority   `json:"priority,omitempty"`
	Tags           string     `json:"tags,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Points         *int       `json:"points,omitempty"`
	ProjectID      int        `json:"projectId"`
	AuthorUserID   *int       `json:"authorUserId,omitempty"`
	AssignedUserID *int       `json:"assignedUserId,omitempty"`

	Author      *User        `json:"author,omitempty"`
	Assignee    *User        `json:"assignee,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the creation invariants: a non-empty title, a project
// reference, and recognized enum values when status/priority are present.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if t.Title == "" {
		return NewError(ErrCodeInvalid, "title is required")
	}
	if t.ProjectID <= 0 {
		return NewError(ErrCodeInvalid, "projectId is required")
	}
	if t.Status != "" && !t.Status.Valid() {
		return NewError(ErrCodeInvalid, "unknown status")
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return NewError(ErrCodeInvalid, "unknown priority")
	}
	if t.Points != nil && *t.Points < 0 {
		return NewError(ErrCodeInvalid, "points must not be negative")
	}
	return nil
}

// Attachment is a file reference carried by a task. Hosting is external; only
// the pointer lives here.
type Attachment struct {
	ID           int    `json:"id"`
	FileURL      string `json:"fileURL"`
	FileName     string `json:"fileName"`
	TaskID       int    `json:"taskId"`
	UploadedByID int    `json:"uploadedById"`
}
