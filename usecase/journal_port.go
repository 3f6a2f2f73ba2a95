package usecase

import (
	"context"
	"time"

	"github.com/projectpulse/backend/domain"
)

// StatusChange is one recorded transition of a task's status label.
type StatusChange struct {
	TaskID int           `json:"taskId"`
	From   domain.Status `json:"fromStatus,omitempty"`
	To     domain.Status `json:"toStatus"`
	Actor  string        `json:"actor,omitempty"`
	At     time.Time     `json:"at"`
}

// StatusJournal abstracts the activity journal so use cases stay
// storage-agnostic.
type StatusJournal interface {
	Record(ctx context.Context, change StatusChange) error
	History(ctx context.Context, taskID int) ([]StatusChange, error)
}
