package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/projectpulse/backend/api/transport"
	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/pkg/httpcontext"
	taskUC "github.com/projectpulse/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks of a project
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	projectID, err := strconv.Atoi(string(ctx.QueryArgs().Peek("projectId")))
	if err != nil {
		h.respondInvalid(ctx, "Invalid project ID")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListByProject(stdCtx, projectID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary List tasks authored by or assigned to a user
// @Tags tasks
// @Router /api/tasks/user/{userId} [get]
func (h *TaskHandler) GetUserTasks(ctx *fasthttp.RequestCtx) {
	userID, ok := pathInt(ctx, "userId")
	if !ok {
		h.respondInvalid(ctx, "Invalid user ID")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListByUser(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	task, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task status
// @Tags tasks
// @Router /api/tasks/{taskId}/status [patch]
func (h *TaskHandler) UpdateTaskStatus(ctx *fasthttp.RequestCtx) {
	taskID, ok := pathInt(ctx, "taskId")
	if !ok {
		h.respondInvalid(ctx, "Invalid task ID")
		return
	}

	var req transport.StatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.SetStatus(stdCtx, taskID, req.Status, callerSubject(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Status-change history of a task
// @Tags tasks
// @Router /api/tasks/{taskId}/activity [get]
func (h *TaskHandler) GetActivity(ctx *fasthttp.RequestCtx) {
	taskID, ok := pathInt(ctx, "taskId")
	if !ok {
		h.respondInvalid(ctx, "Invalid task ID")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	changes, err := h.uc.Activity(stdCtx, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, changes)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (*domain.Task, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	task := &domain.Task{
		Title:          req.Title,
		Description:    req.Description,
		Status:         domain.Status(req.Status),
		Priority:       domain.Priority(req.Priority),
		Tags:           req.Tags,
		StartDate:      parseDate(req.StartDate),
		DueDate:        parseDate(req.DueDate),
		Points:         req.Points,
		ProjectID:      req.ProjectID,
		AuthorUserID:   req.AuthorUserID,
		AssignedUserID: req.AssignedUserID,
	}
	return task, true
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed
	}
	return nil
}
