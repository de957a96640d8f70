package invoice

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sundiag/backoffice-api/internal/service/invoice"
	"github.com/sundiag/backoffice-api/pkg/httputil"
)

type Handler struct {
	service *invoice.Service
}

func NewHandler(service *invoice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.GET("/rows", h.Rows)
		invoices.POST("/selection/toggle", h.Toggle)
		invoices.POST("/split/patients", h.SplitPatients)
		invoices.POST("/split/tests", h.SplitTests)
		invoices.POST("/export", h.ExportPDF)
	}
}

func (h *Handler) Rows(c *gin.Context) {
	rows, err := h.service.Rows(c.Request.Context(), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rows)
}

type toggleRequest struct {
	Date     string   `json:"date" binding:"required"`
	Selected []string `json:"selected"`
	ToggleID string   `json:"toggle_id" binding:"required"`
}

func (h *Handler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	selection, err := h.service.Toggle(c.Request.Context(), req.Date, req.Selected, req.ToggleID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, selection)
}

type splitPatientsRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	PatientIDs []string        `json:"patient_ids" binding:"required"`
}

func (h *Handler) SplitPatients(c *gin.Context) {
	var req splitPatientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	outcomes, err := h.service.SplitAcrossPatients(c.Request.Context(), req.Amount, req.PatientIDs)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, outcomes)
}

type splitTestsRequest struct {
	Date      string          `json:"date" binding:"required"`
	PatientID string          `json:"patient_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

func (h *Handler) SplitTests(c *gin.Context) {
	var req splitTestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	upd, err := h.service.SplitTestsByID(c.Request.Context(), req.Date, req.PatientID, req.Amount)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, upd)
}

type exportRequest struct {
	Date      string   `json:"date" binding:"required"`
	Selected  []string `json:"selected" binding:"required"`
	Subheader string   `json:"subheader"`
}

func (h *Handler) ExportPDF(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	data, err := h.service.PDF(c.Request.Context(), req.Date, req.Selected, req.Subheader)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", req.Date)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
