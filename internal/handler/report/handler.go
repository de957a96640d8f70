package report

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sundiag/backoffice-api/internal/service/report"
	"github.com/sundiag/backoffice-api/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/mis", h.MIS)
		reports.GET("/mis/export", h.ExportMIS)
		reports.POST("/mis/email", h.EmailMIS)
		reports.GET("/tat", h.PatientTAT)
		reports.GET("/overall/:patientId", h.OverallReport)
	}
	sales := r.Group("/sales")
	{
		sales.GET("/visits", h.SalesVisits)
		sales.GET("/mappings", h.SalesMappings)
	}
	r.GET("/logistics", h.Logistics)
}

func (h *Handler) MIS(c *gin.Context) {
	rows, err := h.service.MIS(c.Request.Context(), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rows)
}

func (h *Handler) PatientTAT(c *gin.Context) {
	groups, err := h.service.PatientTAT(c.Request.Context(), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, groups)
}

func (h *Handler) OverallReport(c *gin.Context) {
	rows, err := h.service.OverallReport(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rows)
}

func (h *Handler) ExportMIS(c *gin.Context) {
	date := c.Query("date")
	fileFormat := c.DefaultQuery("format", "xlsx")

	data, contentType, err := h.service.ExportMIS(c.Request.Context(), date, fileFormat)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("mis-%s.%s", date, fileFormat)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

type emailRequest struct {
	Recipients []string `json:"recipients" binding:"required"`
}

func (h *Handler) EmailMIS(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	if err := h.service.EmailMIS(c.Request.Context(), c.Query("date"), req.Recipients); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "report emailed")
}

func (h *Handler) SalesVisits(c *gin.Context) {
	groups, err := h.service.SalesVisits(c.Request.Context(), c.Query("salesperson"), c.Query("month"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, groups)
}

func (h *Handler) SalesMappings(c *gin.Context) {
	mappings, err := h.service.SalesMappings(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, mappings)
}

func (h *Handler) Logistics(c *gin.Context) {
	groups, err := h.service.Logistics(c.Request.Context(), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, groups)
}
