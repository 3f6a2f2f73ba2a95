package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type searchRepository struct {
	pool *pgxpool.Pool
}

// NewSearchRepository returns an ILIKE-based SearchRepository.
func NewSearchRepository(pool *pgxpool.Pool) repository.SearchRepository {
	return &searchRepository{pool: pool}
}

func (r *searchRepository) Tasks(ctx context.Context, query string) ([]domain.Task, error) {
	sql := `SELECT ` + taskColumns + `
	FROM tasks t
	WHERE t.title ILIKE $1 OR t.description ILIKE $1`
	rows, err := r.pool.Query(ctx, sql, pattern(query))
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *searchRepository) Projects(ctx context.Context, query string) ([]domain.Project, error) {
	const sql = `
	SELECT id, name, description, start_date, end_date
	FROM projects
	WHERE name ILIKE $1 OR description ILIKE $1
	`
	rows, err := r.pool.Query(ctx, sql, pattern(query))
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

func (r *searchRepository) Users(ctx context.Context, query string) ([]domain.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE username ILIKE $1`
	rows, err := r.pool.Query(ctx, sql, pattern(query))
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func pattern(query string) string {
	return "%" + query + "%"
}
