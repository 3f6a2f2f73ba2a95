package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/usecase"
)

type fakeTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int]domain.Task
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int]domain.Task), nextID: 1}
}

func (r *fakeTaskRepo) seed(task domain.Task) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = r.nextID
	r.nextID++
	r.tasks[task.ID] = task
	return task.ID
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := task
	return &out, nil
}

func (r *fakeTaskRepo) ListByProject(ctx context.Context, projectID int) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Task{}
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListByUser(ctx context.Context, userID int) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Task{}
	for _, task := range r.tasks {
		if (task.AuthorUserID != nil && *task.AuthorUserID == userID) ||
			(task.AssignedUserID != nil && *task.AssignedUserID == userID) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	id := r.seed(*task)
	return r.GetByID(ctx, id)
}

func (r *fakeTaskRepo) UpdateStatus(ctx context.Context, id int, status domain.Status) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task.Status = status
	r.tasks[id] = task
	out := task
	return &out, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *comment
	stored.ID = r.nextID
	r.nextID++
	r.comments = append(r.comments, stored)
	out := stored
	return &out, nil
}

func (r *fakeCommentRepo) ListByTask(ctx context.Context, taskID int) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Comment{}
	for _, comment := range r.comments {
		if comment.TaskID == taskID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.comments)
}

type fakeUserRepo struct {
	bySubject map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{bySubject: make(map[string]domain.User)}
	for _, user := range users {
		r.bySubject[user.SubjectID] = user
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*domain.User, error) {
	for _, user := range r.bySubject {
		if user.UserID == id {
			out := user
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	user, ok := r.bySubject[subject]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := user
	return &out, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range r.bySubject {
		out = append(out, user)
	}
	return out, nil
}

type fakeJournal struct {
	mu      sync.Mutex
	changes []usecase.StatusChange
}

func (j *fakeJournal) Record(ctx context.Context, change usecase.StatusChange) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.changes = append(j.changes, change)
	return nil
}

func (j *fakeJournal) History(ctx context.Context, taskID int) ([]usecase.StatusChange, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := []usecase.StatusChange{}
	for _, change := range j.changes {
		if change.TaskID == taskID {
			out = append(out, change)
		}
	}
	return out, nil
}

// newRequestCtx builds a RequestCtx the way the router would deliver it,
// with path params as user values.
func newRequestCtx(method, uri string, body []byte, params map[string]string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != nil {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(body)
	}
	for name, value := range params {
		ctx.SetUserValue(name, value)
	}
	return ctx
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(ctx.Response.Body(), &env); err != nil {
		t.Fatalf("malformed response body %q: %v", ctx.Response.Body(), err)
	}
	return env
}
