package client

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/pkg/datacache"
)

// TagTasks is the collection-level invalidation tag for task reads.
const TagTasks = "Tasks"

// TaskTag is the per-item invalidation tag for a single task.
func TaskTag(taskID int) string {
	return fmt.Sprintf("Tasks:%d", taskID)
}

func projectTasksKey(projectID int) datacache.Key {
	return datacache.Key{
		Resource: "tasks",
		Params:   fmt.Sprintf("projectId=%d", projectID),
	}
}

func taskListTagger(value interface{}) []string {
	tasks, _ := value.([]domain.Task)
	tags := make([]string, 0, len(tasks)+1)
	tags = append(tags, TagTasks)
	for _, t := range tasks {
		tags = append(tags, TaskTag(t.ID))
	}
	return tags
}

// surface is the behavior shared by the three presentation surfaces: read
// the project's tasks through the cache, mutate through the API, converge
// through tag invalidation. No surface patches its own render state; a
// mutation becomes visible only after the refetch it triggers.
type surface struct {
	api       *Client
	cache     *datacache.Cache
	projectID int
}

func (s *surface) tasks(ctx context.Context) ([]domain.Task, error) {
	value, err := s.cache.Query(ctx, projectTasksKey(s.projectID),
		func(ctx context.Context) (interface{}, error) {
			return s.api.TasksByProject(ctx, s.projectID)
		},
		taskListTagger,
	)
	if err != nil {
		return nil, err
	}
	tasks, _ := value.([]domain.Task)
	return tasks, nil
}

func (s *surface) setStatus(ctx context.Context, taskID int, status domain.Status) (*domain.Task, error) {
	updated, err := s.api.UpdateTaskStatus(ctx, taskID, status)
	if err != nil {
		// Failed mutations leave the cache untouched.
		return nil, err
	}
	s.cache.Invalidate(TaskTag(taskID))
	return updated, nil
}

// Watch subscribes to the surface's task collection. The channel receives
// the new task list after every refetch.
func (s *surface) Watch() (<-chan []domain.Task, func()) {
	raw, cancel := s.cache.Subscribe(projectTasksKey(s.projectID))
	out := make(chan []domain.Task, 1)
	go func() {
		defer close(out)
		for value := range raw {
			tasks, _ := value.([]domain.Task)
			select {
			case out <- tasks:
			default:
			}
		}
	}()
	return out, cancel
}

// BoardView renders tasks as drag-and-drop columns keyed by status.
type BoardView struct {
	surface
}

func NewBoardView(api *Client, cache *datacache.Cache, projectID int) *BoardView {
	return &BoardView{surface: surface{api: api, cache: cache, projectID: projectID}}
}

// Columns groups the project's tasks by status. Tasks without a status land
// in the first column.
func (b *BoardView) Columns(ctx context.Context) (map[domain.Status][]domain.Task, error) {
	tasks, err := b.tasks(ctx)
	if err != nil {
		return nil, err
	}

	columns := make(map[domain.Status][]domain.Task, len(domain.Statuses))
	for _, status := range domain.Statuses {
		columns[status] = []domain.Task{}
	}
	for _, task := range tasks {
		status := task.Status
		if status == "" {
			status = domain.Statuses[0]
		}
		columns[status] = append(columns[status], task)
	}
	return columns, nil
}

// MoveTask is the drop handler: the dragged task takes the target column's
// status.
func (b *BoardView) MoveTask(ctx context.Context, taskID int, to domain.Status) (*domain.Task, error) {
	return b.setStatus(ctx, taskID, to)
}

// TableView renders tasks as rows with an inline status select and
// multi-row bulk edit.
type TableView struct {
	surface
}

func NewTableView(api *Client, cache *datacache.Cache, projectID int) *TableView {
	return &TableView{surface: surface{api: api, cache: cache, projectID: projectID}}
}

func (t *TableView) Rows(ctx context.Context) ([]domain.Task, error) {
	return t.tasks(ctx)
}

func (t *TableView) SetStatus(ctx context.Context, taskID int, status domain.Status) (*domain.Task, error) {
	return t.setStatus(ctx, taskID, status)
}

// BulkOutcome is the settlement of one task inside a bulk edit.
type BulkOutcome struct {
	TaskID int
	Task   *domain.Task
	Err    error
}

// BulkSetStatus applies one status to all selected tasks as independent
// concurrent mutations. It is a best-effort batch: successes stay applied
// when others fail, and the aggregated error reports every failure. Nothing
// here implies atomicity.
func (t *TableView) BulkSetStatus(ctx context.Context, taskIDs []int, status domain.Status) ([]BulkOutcome, error) {
	outcomes := make([]BulkOutcome, len(taskIDs))
	var wg sync.WaitGroup
	for i, id := range taskIDs {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			task, err := t.setStatus(ctx, id, status)
			outcomes[i] = BulkOutcome{TaskID: id, Task: task, Err: err}
		}(i, id)
	}
	wg.Wait()

	var merr *multierror.Error
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			merr = multierror.Append(merr, outcome.Err)
		}
	}
	return outcomes, merr.ErrorOrNil()
}

// ListView renders tasks as status-sorted cards.
type ListView struct {
	surface
}

func NewListView(api *Client, cache *datacache.Cache, projectID int) *ListView {
	return &ListView{surface: surface{api: api, cache: cache, projectID: projectID}}
}

var statusRank = func() map[domain.Status]int {
	ranks := make(map[domain.Status]int, len(domain.Statuses))
	for i, status := range domain.Statuses {
		ranks[status] = i + 1
	}
	return ranks
}()

// Cards returns the project's tasks ordered by status, statusless tasks
// first, ties broken by id.
func (l *ListView) Cards(ctx context.Context) ([]domain.Task, error) {
	tasks, err := l.tasks(ctx)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.Task, len(tasks))
	copy(cards, tasks)
	sort.SliceStable(cards, func(i, j int) bool {
		ri, rj := statusRank[cards[i].Status], statusRank[cards[j].Status]
		if ri != rj {
			return ri < rj
		}
		return cards[i].ID < cards[j].ID
	})
	return cards, nil
}

func (l *ListView) SetStatus(ctx context.Context, taskID int, status domain.Status) (*domain.Task, error) {
	return l.setStatus(ctx, taskID, status)
}
