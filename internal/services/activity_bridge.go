package services

import (
	"context"

	"github.com/projectpulse/backend/internal/infrastructure/activity"
	"github.com/projectpulse/backend/usecase"
)

// ActivityBridge adapts the BoltDB journal to the use-case port.
type ActivityBridge struct {
	journal *activity.Journal
}

func NewActivityBridge(journal *activity.Journal) *ActivityBridge {
	return &ActivityBridge{journal: journal}
}

func (b *ActivityBridge) Record(_ context.Context, change usecase.StatusChange) error {
	if b.journal == nil {
		return nil
	}
	return b.journal.Append(activity.Entry{
		TaskID:     change.TaskID,
		FromStatus: change.From,
		ToStatus:   change.To,
		Actor:      change.Actor,
		Timestamp:  change.At,
	})
}

func (b *ActivityBridge) History(_ context.Context, taskID int) ([]usecase.StatusChange, error) {
	if b.journal == nil {
		return []usecase.StatusChange{}, nil
	}
	entries, err := b.journal.ListByTask(taskID)
	if err != nil {
		return nil, err
	}

	changes := make([]usecase.StatusChange, 0, len(entries))
	for _, entry := range entries {
		changes = append(changes, usecase.StatusChange{
			TaskID: entry.TaskID,
			From:   entry.FromStatus,
			To:     entry.ToStatus,
			Actor:  entry.Actor,
			At:     entry.Timestamp,
		})
	}
	return changes, nil
}

var _ usecase.StatusJournal = (*ActivityBridge)(nil)
