package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/repository"
)

// Handler serves snapshot ingest and retrieval. Ingest is rate limited:
// the game-side exporter can be chatty and one snapshot per second is
// plenty for analysis.
type Handler struct {
	repo    *repository.SnapshotRepository
	limiter *rate.Limiter
}

// New creates the snapshot handler. limiter may be nil to disable
// throttling (tests, worker mode).
func New(repo *repository.SnapshotRepository, limiter *rate.Limiter) *Handler {
	return &Handler{repo: repo, limiter: limiter}
}

// Ingest stores a new factory snapshot and marks it latest.
func (h *Handler) Ingest(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "snapshot ingest rate exceeded"})
		return
	}

	var snap domain.FactorySnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot: " + err.Error()})
		return
	}
	if len(snap.Planets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "snapshot has no planets"})
		return
	}

	if err := h.repo.Save(c.Request.Context(), &snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"snapshot_id": snap.ID,
		"timestamp":   snap.Timestamp,
		"planets":     len(snap.Planets),
	})
}

// Latest returns the most recently ingested snapshot.
func (h *Handler) Latest(c *gin.Context) {
	snap, err := h.repo.Latest(c.Request.Context())
	if err == domain.ErrSnapshotNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "no factory snapshot available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/snapshots", h.Ingest)
	rg.GET("/snapshots/latest", h.Latest)
}
