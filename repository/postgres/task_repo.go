package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
	t.id, t.title, t.description, t.status, t.priority, t.tags,
	t.start_date, t.due_date, t.points, t.project_id,
	t.author_user_id, t.assigned_user_id, t.created_at, t.updated_at
`

func (r *taskRepository) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID int) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.project_id = $1 ORDER BY t.id`
	tasks, err := r.queryTasks(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID int) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks t
	WHERE t.author_user_id = $1 OR t.assigned_user_id = $1
	ORDER BY t.id`
	tasks, err := r.queryTasks(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (title, description, status, priority, tags,
		start_date, due_date, points, project_id, author_user_id, assigned_user_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		nullString(string(task.Status)),
		nullString(string(task.Priority)),
		task.Tags,
		task.StartDate,
		task.DueDate,
		task.Points,
		task.ProjectID,
		task.AuthorUserID,
		task.AssignedUserID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, storeError(err)
	}

	return task, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int, status domain.Status) (*domain.Task, error) {
	const query = `
	UPDATE tasks t
	SET status = $2, updated_at = NOW()
	WHERE t.id = $1
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, id, string(status))
	return scanTask(row)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
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

// attachRelations populates author, assignee, comments and attachments for
// the given tasks with batched queries.
func (r *taskRepository) attachRelations(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	taskIDs := make([]int, 0, len(tasks))
	userIDs := map[int]struct{}{}
	for i := range tasks {
		taskIDs = append(taskIDs, tasks[i].ID)
		if tasks[i].AuthorUserID != nil {
			userIDs[*tasks[i].AuthorUserID] = struct{}{}
		}
		if tasks[i].AssignedUserID != nil {
			userIDs[*tasks[i].AssignedUserID] = struct{}{}
		}
	}

	users, err := r.loadUsers(ctx, userIDs)
	if err != nil {
		return err
	}
	comments, err := r.loadComments(ctx, taskIDs)
	if err != nil {
		return err
	}
	attachments, err := r.loadAttachments(ctx, taskIDs)
	if err != nil {
		return err
	}

	for i := range tasks {
		t := &tasks[i]
		if t.AuthorUserID != nil {
			if u, ok := users[*t.AuthorUserID]; ok {
				author := u
				t.Author = &author
			}
		}
		if t.AssignedUserID != nil {
			if u, ok := users[*t.AssignedUserID]; ok {
				assignee := u
				t.Assignee = &assignee
			}
		}
		t.Comments = comments[t.ID]
		t.Attachments = attachments[t.ID]
	}
	return nil
}

func (r *taskRepository) loadUsers(ctx context.Context, ids map[int]struct{}) (map[int]domain.User, error) {
	users := map[int]domain.User{}
	if len(ids) == 0 {
		return users, nil
	}
	list := make([]int, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}

	const query = `
	SELECT user_id, username, email, profile_picture_url, subject_id, team_id
	FROM users
	WHERE user_id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, list)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[user.UserID] = *user
	}
	return users, rows.Err()
}

func (r *taskRepository) loadComments(ctx context.Context, taskIDs []int) (map[int][]domain.Comment, error) {
	const query = `
	SELECT c.id, c.text, c.task_id, c.user_id, u.username, u.profile_picture_url, c.created_at
	FROM comments c
	JOIN users u ON u.user_id = c.user_id
	WHERE c.task_id = ANY($1)
	ORDER BY c.id
	`
	rows, err := r.pool.Query(ctx, query, taskIDs)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	comments := map[int][]domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments[comment.TaskID] = append(comments[comment.TaskID], *comment)
	}
	return comments, rows.Err()
}

func (r *taskRepository) loadAttachments(ctx context.Context, taskIDs []int) (map[int][]domain.Attachment, error) {
	const query = `
	SELECT id, file_url, file_name, task_id, uploaded_by_id
	FROM attachments
	WHERE task_id = ANY($1)
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, taskIDs)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	attachments := map[int][]domain.Attachment{}
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.FileURL, &a.FileName, &a.TaskID, &a.UploadedByID); err != nil {
			return nil, err
		}
		attachments[a.TaskID] = append(attachments[a.TaskID], a)
	}
	return attachments, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		status   *string
		priority *string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.Tags,
		&task.StartDate,
		&task.DueDate,
		&task.Points,
		&task.ProjectID,
		&task.AuthorUserID,
		&task.AssignedUserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storeError(err)
	}

	if status != nil {
		task.Status = domain.Status(*status)
	}
	if priority != nil {
		task.Priority = domain.Priority(*priority)
	}

	return &task, nil
}
