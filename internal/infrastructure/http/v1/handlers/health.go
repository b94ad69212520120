package handlers

import (
	"encoding/hex"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortid/internal/domain/idgen"
	"shortid/internal/infrastructure/http/v1/dto"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	service *idgen.Service
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service *idgen.Service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version}
}

// Live reports that the process is up.
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Info reports the generator identity and worker pool.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	s := h.service.Settings()
	stats := h.service.Stats()
	c.JSON(http.StatusOK, dto.InfoResponse{
		Status:   "ok",
		Version:  h.version,
		Machine:  hex.EncodeToString(s.Machine32[:]),
		Node:     net.HardwareAddr(s.Node[:]).String(),
		Epoch:    s.Epoch.Time().Format(time.RFC3339),
		MaxBatch: s.MaxBatch,
		Workers: dto.WorkerStats{
			Allocated: stats.Allocated,
			Idle:      stats.Idle,
			Bounded:   stats.Bounded,
		},
	})
}
