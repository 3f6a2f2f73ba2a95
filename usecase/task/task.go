package task

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
	"github.com/projectpulse/backend/usecase"
)

type UseCase struct {
	tasks   repository.TaskRepository
	journal usecase.StatusJournal
	logger  *zap.Logger
}

func New(tasks repository.TaskRepository, journal usecase.StatusJournal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:   tasks,
		journal: journal,
		logger:  logger,
	}
}

func (uc *UseCase) ListByProject(ctx context.Context, projectID int) ([]domain.Task, error) {
	return uc.tasks.ListByProject(ctx, projectID)
}

func (uc *UseCase) ListByUser(ctx context.Context, userID int) ([]domain.Task, error) {
	return uc.tasks.ListByUser(ctx, userID)
}

func (uc *UseCase) Get(ctx context.Context, id int) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return uc.tasks.Create(ctx, task)
}

// SetStatus overwrites the task's status label. Any status may follow any
// status, including a no-op; the only validation is enum membership.
func (uc *UseCase) SetStatus(ctx context.Context, taskID int, value string, actor string) (*domain.Task, error) {
	status, err := domain.ParseStatus(value)
	if err != nil {
		return nil, err
	}

	current, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return nil, err
	}

	// Journal failures never fail the mutation itself.
	if uc.journal != nil {
		change := usecase.StatusChange{
			TaskID: taskID,
			From:   current.Status,
			To:     status,
			Actor:  actor,
			At:     time.Now(),
		}
		if err := uc.journal.Record(ctx, change); err != nil {
			uc.logger.Warn("failed to journal status change",
				zap.Int("task_id", taskID), zap.Error(err))
		}
	}

	return updated, nil
}

// BulkResult is the settlement of one task inside a bulk status change.
type BulkResult struct {
	TaskID int          `json:"taskId"`
	Task   *domain.Task `json:"task,omitempty"`
	Err    error        `json:"-"`
}

// BulkSetStatus applies one status to every listed task as independent
// concurrent updates. There is no transactional envelope: tasks that
// succeeded stay changed when others fail, and the caller gets a per-item
// result list plus an aggregated error.
func (uc *UseCase) BulkSetStatus(ctx context.Context, taskIDs []int, value string, actor string) ([]BulkResult, error) {
	if _, err := domain.ParseStatus(value); err != nil {
		return nil, err
	}

	results := make([]BulkResult, len(taskIDs))
	var wg sync.WaitGroup
	for i, id := range taskIDs {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			task, err := uc.SetStatus(ctx, id, value, actor)
			results[i] = BulkResult{TaskID: id, Task: task, Err: err}
		}(i, id)
	}
	wg.Wait()

	var merr *multierror.Error
	for _, res := range results {
		if res.Err != nil {
			merr = multierror.Append(merr, res.Err)
		}
	}
	return results, merr.ErrorOrNil()
}

// Activity returns the recorded status changes of a task in chronological
// order.
func (uc *UseCase) Activity(ctx context.Context, taskID int) ([]usecase.StatusChange, error) {
	if uc.journal == nil {
		return []usecase.StatusChange{}, nil
	}
	if _, err := uc.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return uc.journal.History(ctx, taskID)
}
