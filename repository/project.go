package repository

import (
	"context"

	"github.com/projectpulse/backend/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id int) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
}

type TeamRepository interface {
	List(ctx context.Context) ([]domain.Team, error)
}
