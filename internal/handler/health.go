package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler responde o health check da API.
type HealthHandler struct {
	version string
	db      *sql.DB
	started time.Time
}

// NewHealthHandler cria o handler de health. db pode ser nil quando a
// persistência está desligada.
func NewHealthHandler(version string, db *sql.DB) *HealthHandler {
	return &HealthHandler{version: version, db: db, started: time.Now()}
}

// Check informa o estado da API e das dependências.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}

	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unreachable"
		} else {
			body["database"] = "ok"
		}
	}

	c.JSON(status, body)
}
