package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/projectpulse/backend/domain"
	taskUC "github.com/projectpulse/backend/usecase/task"
)

func newTaskHandler(repo *fakeTaskRepo, journal *fakeJournal) *TaskHandler {
	if journal == nil {
		journal = &fakeJournal{}
	}
	return NewTaskHandler(taskUC.New(repo, journal, nil), nil, nil)
}

func TestGetTasksInvalidProjectID(t *testing.T) {
	h := newTaskHandler(newFakeTaskRepo(), nil)

	ctx := newRequestCtx(http.MethodGet, "/api/tasks?projectId=abc", nil, nil)
	h.GetTasks(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}
	env := decodeEnvelope(t, ctx)
	if env.Success || env.Message != "Invalid project ID" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestGetTasksEmptyProject(t *testing.T) {
	h := newTaskHandler(newFakeTaskRepo(), nil)

	ctx := newRequestCtx(http.MethodGet, "/api/tasks?projectId=42", nil, nil)
	h.GetTasks(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	env := decodeEnvelope(t, ctx)
	if !env.Success {
		t.Fatalf("envelope = %+v", env)
	}
	var tasks []domain.Task
	if err := json.Unmarshal(env.Data, &tasks); err != nil {
		t.Fatalf("data is not a task list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("empty project must yield an empty list, got %v", tasks)
	}
}

func TestCreateTask(t *testing.T) {
	repo := newFakeTaskRepo()
	h := newTaskHandler(repo, nil)

	body := []byte(`{"title":"Ship the board","status":"Planning","priority":"High","projectId":3}`)
	ctx := newRequestCtx(http.MethodPost, "/api/tasks", body, nil)
	h.CreateTask(ctx)

	if ctx.Response.StatusCode() != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	env := decodeEnvelope(t, ctx)
	var created domain.Task
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.Title != "Ship the board" || created.Status != domain.StatusPlanning {
		t.Fatalf("created = %+v", created)
	}
}

func TestCreateTaskMissingTitle(t *testing.T) {
	h := newTaskHandler(newFakeTaskRepo(), nil)

	ctx := newRequestCtx(http.MethodPost, "/api/tasks", []byte(`{"projectId":3}`), nil)
	h.CreateTask(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	repo := newFakeTaskRepo()
	id := repo.seed(domain.Task{Title: "t", Status: domain.StatusPlanning, ProjectID: 1})
	journal := &fakeJournal{}
	h := newTaskHandler(repo, journal)

	ctx := newRequestCtx(http.MethodPatch, "/api/tasks/1/status",
		[]byte(`{"status":"UnderReview"}`), map[string]string{"taskId": "1"})
	ctx.Request.Header.Set("X-User-Sub", "auth0|carol")
	h.UpdateTaskStatus(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	env := decodeEnvelope(t, ctx)
	var updated domain.Task
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.StatusUnderReview {
		t.Fatalf("status = %q", updated.Status)
	}

	history, _ := journal.History(ctx, id)
	if len(history) != 1 || history[0].Actor != "auth0|carol" {
		t.Fatalf("journal = %+v", history)
	}
}

func TestUpdateTaskStatusUnknownStatus(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.seed(domain.Task{Title: "t", Status: domain.StatusPlanning, ProjectID: 1})
	h := newTaskHandler(repo, nil)

	ctx := newRequestCtx(http.MethodPatch, "/api/tasks/1/status",
		[]byte(`{"status":"Done"}`), map[string]string{"taskId": "1"})
	h.UpdateTaskStatus(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}

	task, _ := repo.GetByID(ctx, 1)
	if task.Status != domain.StatusPlanning {
		t.Fatal("rejected status must leave the row unchanged")
	}
}

func TestUpdateTaskStatusUnknownTask(t *testing.T) {
	h := newTaskHandler(newFakeTaskRepo(), nil)

	ctx := newRequestCtx(http.MethodPatch, "/api/tasks/404/status",
		[]byte(`{"status":"Completed"}`), map[string]string{"taskId": "404"})
	h.UpdateTaskStatus(ctx)

	if ctx.Response.StatusCode() != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", ctx.Response.StatusCode())
	}
}

func TestUpdateTaskStatusBadTaskID(t *testing.T) {
	h := newTaskHandler(newFakeTaskRepo(), nil)

	ctx := newRequestCtx(http.MethodPatch, "/api/tasks/x/status",
		[]byte(`{"status":"Completed"}`), map[string]string{"taskId": "x"})
	h.UpdateTaskStatus(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}
	env := decodeEnvelope(t, ctx)
	if env.Message != "Invalid task ID" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestGetActivityAfterStatusChanges(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.seed(domain.Task{Title: "t", Status: domain.StatusPlanning, ProjectID: 1})
	h := newTaskHandler(repo, &fakeJournal{})

	for _, status := range []string{"InProgress", "Completed"} {
		ctx := newRequestCtx(http.MethodPatch, "/api/tasks/1/status",
			[]byte(`{"status":"`+status+`"}`), map[string]string{"taskId": "1"})
		h.UpdateTaskStatus(ctx)
		if ctx.Response.StatusCode() != http.StatusOK {
			t.Fatalf("transition to %s: %d", status, ctx.Response.StatusCode())
		}
	}

	ctx := newRequestCtx(http.MethodGet, "/api/tasks/1/activity", nil, map[string]string{"taskId": "1"})
	h.GetActivity(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	env := decodeEnvelope(t, ctx)
	var changes []struct {
		From domain.Status `json:"fromStatus"`
		To   domain.Status `json:"toStatus"`
	}
	if err := json.Unmarshal(env.Data, &changes); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %d, want 2", len(changes))
	}
	if changes[0].From != domain.StatusPlanning || changes[1].To != domain.StatusCompleted {
		t.Fatalf("changes = %+v", changes)
	}
}
