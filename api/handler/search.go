package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/projectpulse/backend/pkg/httpcontext"
	searchUC "github.com/projectpulse/backend/usecase/search"
)

type SearchHandler struct {
	baseHandler
	uc *searchUC.UseCase
}

func NewSearchHandler(uc *searchUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Search tasks, projects and users
// @Tags search
// @Router /api/search [get]
func (h *SearchHandler) Search(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	results, err := h.uc.Query(stdCtx, string(ctx.QueryArgs().Peek("query")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, results)
}
