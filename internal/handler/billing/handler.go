package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sundiag/backoffice-api/internal/service/billing"
	"github.com/sundiag/backoffice-api/pkg/errors"
	"github.com/sundiag/backoffice-api/pkg/httputil"
)

type Handler struct {
	service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("/:id/billing", h.Save)
		patients.GET("/:id/receipt", h.Receipt)
	}
	r.GET("/tests/lookup", h.LookupTest)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context(), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) LookupTest(c *gin.Context) {
	matches, err := h.service.LookupTest(c.Request.Context(), c.Query("q"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, matches)
}

func (h *Handler) Save(c *gin.Context) {
	var req billing.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	result, err := h.service.Save(c.Request.Context(), c.Param("id"), c.Query("date"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if result.Blocked != "" {
		httputil.RespondWithMessage(c, result.Blocked)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Receipt(c *gin.Context) {
	date := c.Query("date")
	patients, err := h.service.ListPatients(c.Request.Context(), date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id := c.Param("id")
	for _, p := range patients {
		if p.ID != id {
			continue
		}
		html, err := h.service.Receipt(p)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
		return
	}
	httputil.RespondWithError(c, errors.NewNotFound("patient", nil))
}
