package intake

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/sundiag/backoffice-api/internal/service/intake"
	"github.com/sundiag/backoffice-api/pkg/errors"
	"github.com/sundiag/backoffice-api/pkg/httputil"
)

// maxAttachmentBytes bounds the optional finance document upload.
const maxAttachmentBytes = 10 << 20

type Handler struct {
	service *intake.Service
}

func NewHandler(service *intake.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/intake/sessions")
	{
		sessions.POST("", h.Start)
		sessions.GET("/:id", h.Get)
		sessions.PATCH("/:id", h.Update)
		sessions.POST("/:id/attachment", h.Attach)
		sessions.POST("/:id/next", h.Next)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/submit", h.Submit)
	}
}

func (h *Handler) Start(c *gin.Context) {
	session, err := h.service.Start(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, session)
}

func (h *Handler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) Update(c *gin.Context) {
	var req intake.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	session, err := h.service.Update(c.Param("id"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) Attach(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, errors.NewBadRequest("attachment file is required", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes))
	if err != nil {
		httputil.RespondWithError(c, errors.NewBadRequest("failed to read attachment", err))
		return
	}

	session, err := h.service.Attach(c.Param("id"), header.Filename, data)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) Next(c *gin.Context) {
	session, err := h.service.Next(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) Back(c *gin.Context) {
	session, err := h.service.Back(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, session)
}

func (h *Handler) Submit(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, result)
}
