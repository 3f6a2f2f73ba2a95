package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/projectpulse/backend/api/transport"
	"github.com/projectpulse/backend/pkg/httpcontext"
	commentUC "github.com/projectpulse/backend/usecase/comment"
)

type CommentHandler struct {
	baseHandler
	uc *commentUC.UseCase
}

func NewCommentHandler(uc *commentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Add a comment to a task
// @Tags comments
// @Router /api/tasks/{taskId}/comments [post]
func (h *CommentHandler) AddComment(ctx *fasthttp.RequestCtx) {
	taskID, ok := pathInt(ctx, "taskId")
	if !ok {
		h.respondInvalid(ctx, "Invalid task ID")
		return
	}

	var req transport.CommentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comment, err := h.uc.Add(stdCtx, taskID, req.UserSub, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, comment)
}

// @Summary List a task's comments
// @Tags comments
// @Router /api/tasks/{taskId}/comments [get]
func (h *CommentHandler) GetComments(ctx *fasthttp.RequestCtx) {
	taskID, ok := pathInt(ctx, "taskId")
	if !ok {
		h.respondInvalid(ctx, "Invalid task ID")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comments, err := h.uc.ListByTask(stdCtx, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, comments)
}
