package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id int) (*domain.Project, error) {
	const query = `SELECT id, name, description, start_date, end_date FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const query = `SELECT id, name, description, start_date, end_date FROM projects ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO projects (name, description, start_date, end_date)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`
	if err := r.pool.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
	).Scan(&project.ID); err != nil {
		return nil, storeError(err)
	}
	return project, nil
}

func scanProject(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.StartDate,
		&project.EndDate,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, storeError(err)
	}
	return &project, nil
}
