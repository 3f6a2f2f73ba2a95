package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/projectpulse/backend/api/transport"
	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/pkg/httpcontext"
	"github.com/projectpulse/backend/repository"
)

type ProjectHandler struct {
	baseHandler
	projects repository.ProjectRepository
}

func NewProjectHandler(projects repository.ProjectRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		baseHandler: newBaseHandler(adapter, logger),
		projects:    projects,
	}
}

// @Summary List projects
// @Tags projects
// @Router /api/projects [get]
func (h *ProjectHandler) GetProjects(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	projects, err := h.projects.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, projects)
}

// @Summary Get a project
// @Tags projects
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(ctx *fasthttp.RequestCtx) {
	id, ok := pathInt(ctx, "id")
	if !ok {
		h.respondInvalid(ctx, "Invalid project ID")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	project, err := h.projects.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, project)
}

// @Summary Create project
// @Tags projects
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(ctx *fasthttp.RequestCtx) {
	var req transport.ProjectRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   parseDate(req.StartDate),
		EndDate:     parseDate(req.EndDate),
	}
	if err := project.Validate(); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.projects.Create(stdCtx, project)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}
