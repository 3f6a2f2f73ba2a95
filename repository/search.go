package repository

import (
	"context"

	"github.com/projectpulse/backend/domain"
)

// SearchRepository performs case-insensitive substring matching. Each method
// returns an unordered, possibly empty list.
type SearchRepository interface {
	Tasks(ctx context.Context, query string) ([]domain.Task, error)
	Projects(ctx context.Context, query string) ([]domain.Project, error)
	Users(ctx context.Context, query string) ([]domain.User, error)
}
