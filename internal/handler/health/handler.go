package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sundiag/backoffice-api/internal/labapi"
)

type Handler struct {
	db  *sqlx.DB
	lab *labapi.Client
}

func NewHandler(db *sqlx.DB, lab *labapi.Client) *Handler {
	return &Handler{db: db, lab: lab}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.Liveness)
		health.GET("/ready", h.Readiness)
		health.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness checks the audit store and the upstream lab API. The breaker
// state is reported either way so operators can see a tripped circuit.
func (h *Handler) Readiness(c *gin.Context) {
	checks := gin.H{"breaker": h.lab.BreakerState()}
	status := http.StatusOK

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if err := h.lab.Ping(c.Request.Context()); err != nil {
		checks["lab_api"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["lab_api"] = "ok"
	}

	c.JSON(status, checks)
}
