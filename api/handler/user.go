package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/projectpulse/backend/pkg/httpcontext"
	"github.com/projectpulse/backend/repository"
)

type UserHandler struct {
	baseHandler
	users repository.UserRepository
	teams repository.TeamRepository
}

func NewUserHandler(users repository.UserRepository, teams repository.TeamRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		users:       users,
		teams:       teams,
	}
}

// @Summary List users
// @Tags users
// @Router /api/users [get]
func (h *UserHandler) GetUsers(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.users.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users)
}

// @Summary Resolve a user by identity subject
// @Tags users
// @Router /api/users/{userSub} [get]
func (h *UserHandler) GetUserBySubject(ctx *fasthttp.RequestCtx) {
	subject, _ := ctx.UserValue("userSub").(string)
	if subject == "" {
		h.respondInvalid(ctx, "missing user subject")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.users.GetBySubject(stdCtx, subject)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary List teams
// @Tags teams
// @Router /api/teams [get]
func (h *UserHandler) GetTeams(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	teams, err := h.teams.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, teams)
}
