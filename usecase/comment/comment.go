package comment

import (
	"context"

	"go.uber.org/zap"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type UseCase struct {
	comments repository.CommentRepository
	tasks    repository.TaskRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func New(comments repository.CommentRepository, tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		comments: comments,
		tasks:    tasks,
		users:    users,
		logger:   logger,
	}
}

// Add resolves the caller's identity subject to an internal user, verifies
// the task exists, and creates the comment. Unknown subject or task yields
// NOT_FOUND and no row is written.
func (uc *UseCase) Add(ctx context.Context, taskID int, subject string, text string) (*domain.Comment, error) {
	if subject == "" || text == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "userSub and text are required")
	}

	user, err := uc.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	if _, err := uc.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	created, err := uc.comments.Create(ctx, &domain.Comment{
		Text:   text,
		TaskID: taskID,
		UserID: user.UserID,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("comment created",
		zap.Int("task_id", taskID), zap.Int("comment_id", created.ID))
	return created, nil
}

func (uc *UseCase) ListByTask(ctx context.Context, taskID int) ([]domain.Comment, error) {
	return uc.comments.ListByTask(ctx, taskID)
}
