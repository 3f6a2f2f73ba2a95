package repository

import (
	"context"

	"github.com/projectpulse/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*domain.User, error)
	// GetBySubject resolves an external identity subject to the internal
	// user row.
	GetBySubject(ctx context.Context, subject string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
