package referrer

import (
	"github.com/gin-gonic/gin"

	"github.com/sundiag/backoffice-api/internal/service/referrer"
	"github.com/sundiag/backoffice-api/pkg/httputil"
)

type Handler struct {
	service *referrer.Service
}

func NewHandler(service *referrer.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	referrers := r.Group("/referrers")
	{
		referrers.GET("/suggest", h.Suggest)
		referrers.POST("/validate", h.Validate)
	}
}

func (h *Handler) Suggest(c *gin.Context) {
	names, err := h.service.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, names)
}

type validateRequest struct {
	Text    string `json:"text"`
	Enabled *bool  `json:"enabled"`
}

func (h *Handler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	selection, err := h.service.Validate(c.Request.Context(), req.Text, enabled)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, selection)
}
