package repository

import (
	"context"

	"github.com/projectpulse/backend/domain"
)

type TaskRepository interface {
	GetByID(ctx context.Context, id int) (*domain.Task, error)
	// ListByProject returns the project's tasks with author, assignee,
	// comments and attachments populated.
	ListByProject(ctx context.Context, projectID int) ([]domain.Task, error)
	// ListByUser returns tasks the user authored or is assigned to.
	ListByUser(ctx context.Context, userID int) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// UpdateStatus overwrites the status column only and returns the
	// updated row. Other fields are untouched.
	UpdateStatus(ctx context.Context, id int, status domain.Status) (*domain.Task, error)
}
