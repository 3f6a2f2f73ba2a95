package activity

import (
	"time"

	"github.com/google/uuid"

	"github.com/projectpulse/backend/domain"
)

// Entry records one status change of a task.
type Entry struct {
	ID         string        `json:"id"`
	TaskID     int           `json:"taskId"`
	FromStatus domain.Status `json:"fromStatus,omitempty"`
	ToStatus   domain.Status `json:"toStatus"`
	Actor      string        `json:"actor,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
