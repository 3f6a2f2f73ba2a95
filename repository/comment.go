package repository

import (
	"context"

	"github.com/projectpulse/backend/domain"
)

type CommentRepository interface {
	// Create persists a comment and returns it with the author projection
	// populated.
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	// ListByTask returns the task's comments ordered ascending by id.
	ListByTask(ctx context.Context, taskID int) ([]domain.Comment, error)
}
