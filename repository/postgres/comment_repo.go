package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) repository.CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if comment == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	WITH inserted AS (
		INSERT INTO comments (text, task_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, text, task_id, user_id, created_at
	)
	SELECT i.id, i.text, i.task_id, i.user_id, u.username, u.profile_picture_url, i.created_at
	FROM inserted i
	JOIN users u ON u.user_id = i.user_id
	`

	row := r.pool.QueryRow(ctx, query, comment.Text, comment.TaskID, comment.UserID)
	return scanComment(row)
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID int) ([]domain.Comment, error) {
	const query = `
	SELECT c.id, c.text, c.task_id, c.user_id, u.username, u.profile_picture_url, c.created_at
	FROM comments c
	JOIN users u ON u.user_id = c.user_id
	WHERE c.task_id = $1
	ORDER BY c.id
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}
