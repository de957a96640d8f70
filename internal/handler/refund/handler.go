package refund

import (
	"github.com/gin-gonic/gin"

	"github.com/sundiag/backoffice-api/internal/service/refund"
	"github.com/sundiag/backoffice-api/pkg/httputil"
)

type Handler struct {
	service *refund.Service
}

func NewHandler(service *refund.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	refunds := r.Group("/refunds")
	{
		refunds.GET("/authorizers", h.Authorizers)
		refunds.POST("/sessions", h.Start)
		refunds.GET("/sessions/:id", h.Get)
		refunds.POST("/sessions/:id/search", h.Search)
		refunds.POST("/sessions/:id/toggle", h.Toggle)
		refunds.POST("/sessions/:id/select-all", h.SelectAll)
		refunds.POST("/sessions/:id/authorizer", h.ChooseAuthorizer)
		refunds.POST("/sessions/:id/reason", h.SetReason)
		refunds.POST("/sessions/:id/otp", h.SendOTP)
		refunds.POST("/sessions/:id/verify", h.Verify)
	}
}

func (h *Handler) Authorizers(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.Authorizers())
}

func (h *Handler) Start(c *gin.Context) {
	httputil.RespondWithCreated(c, h.service.Start())
}

func (h *Handler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

type searchRequest struct {
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
}

func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	session, err := h.service.Search(c.Request.Context(), c.Param("id"), req.PatientID, req.Date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

type toggleRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	TestName  string `json:"test_name" binding:"required"`
}

func (h *Handler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	session, err := h.service.ToggleTest(c.Param("id"), req.PatientID, req.TestName)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) SelectAll(c *gin.Context) {
	session, err := h.service.SelectAll(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

type authorizerRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) ChooseAuthorizer(c *gin.Context) {
	var req authorizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	session, err := h.service.ChooseAuthorizer(c.Param("id"), req.Name)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) SetReason(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	session, err := h.service.SetReason(c.Param("id"), req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) SendOTP(c *gin.Context) {
	session, err := h.service.SendOTP(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

type verifyRequest struct {
	OTP string `json:"otp"`
}

func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	session, err := h.service.Verify(c.Request.Context(), c.Param("id"), req.OTP)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}
