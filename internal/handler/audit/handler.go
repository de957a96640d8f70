package audit

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sundiag/backoffice-api/internal/service/audit"
	"github.com/sundiag/backoffice-api/pkg/errors"
	"github.com/sundiag/backoffice-api/pkg/httputil"
)

type Handler struct {
	service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit", h.List)
}

func (h *Handler) List(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -7)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httputil.RespondWithError(c, errors.NewBadRequest("since must be YYYY-MM-DD", err))
			return
		}
		since = parsed
	}

	logs, err := h.service.List(c.Request.Context(), c.Query("entity_type"), since)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, logs)
}
