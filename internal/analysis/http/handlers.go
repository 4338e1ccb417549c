package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/bottleneck"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/logistics"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/power"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/repository"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

// SnapshotSource hands analysis calls the snapshot to work on.
type SnapshotSource interface {
	Latest(ctx context.Context) (*domain.FactorySnapshot, error)
}

// ReportStore persists analysis runs. Nil-able: without a database the
// endpoints still serve reports, they just are not recorded.
type ReportStore interface {
	Save(ctx context.Context, rec *repository.Record) error
	List(ctx context.Context, kind string, limit int) ([]repository.Record, error)
}

// Handler serves the analysis tool endpoints. Each request runs one pure
// analysis pass over the latest stored snapshot.
type Handler struct {
	bottlenecks *bottleneck.Analyzer
	logistics   *logistics.Analyzer
	power       *power.Analyzer
	snapshots   SnapshotSource
	reports     ReportStore
}

// New wires the three engines over the shared graph.
func New(g *recipegraph.Graph, snapshots SnapshotSource, reports ReportStore) *Handler {
	return &Handler{
		bottlenecks: bottleneck.New(g),
		logistics:   logistics.New(g),
		power:       power.New(g),
		snapshots:   snapshots,
		reports:     reports,
	}
}

func (h *Handler) AnalyzeBottlenecks(c *gin.Context) {
	var req BottleneckRequest
	if !bindOptional(c, &req) {
		return
	}
	snap, ok := h.latest(c)
	if !ok {
		return
	}

	report := h.bottlenecks.Analyze(snap, bottleneck.Params{
		PlanetID:          req.PlanetID,
		TargetItem:        req.TargetItem,
		IncludeDownstream: req.IncludeDownstream,
	})

	h.persist(c, repository.KindBottleneck, snap.ID, req, report)
	c.JSON(http.StatusOK, report)
}

func (h *Handler) AnalyzeLogistics(c *gin.Context) {
	var req LogisticsRequest
	if !bindOptional(c, &req) {
		return
	}
	snap, ok := h.latest(c)
	if !ok {
		return
	}

	report := h.logistics.Analyze(snap, logistics.Params{
		PlanetID:            req.PlanetID,
		ItemFilter:          req.ItemFilter,
		SaturationThreshold: req.SaturationThreshold,
		IncludeThroughput:   req.IncludeThroughput,
	})

	h.persist(c, repository.KindLogistics, snap.ID, req, report)
	c.JSON(http.StatusOK, report)
}

func (h *Handler) AnalyzePower(c *gin.Context) {
	var req PowerRequest
	if !bindOptional(c, &req) {
		return
	}
	snap, ok := h.latest(c)
	if !ok {
		return
	}

	report := h.power.Analyze(snap, power.Params{
		PlanetID:            req.PlanetID,
		IncludeAccumulators: req.IncludeAccumulators,
		IncludeConsumers:    req.IncludeConsumers,
	})

	h.persist(c, repository.KindPower, snap.ID, req, report)
	c.JSON(http.StatusOK, report)
}

// ListReports returns persisted analysis runs, newest first.
// Query params: kind (bottleneck|logistics|power), limit.
func (h *Handler) ListReports(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report history is not enabled"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	records, err := h.reports.List(c.Request.Context(), c.Query("kind"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []repository.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": records})
}

// latest fetches the snapshot to analyze, translating "nothing ingested
// yet" into a 404 the tool caller can act on.
func (h *Handler) latest(c *gin.Context) (*domain.FactorySnapshot, bool) {
	snap, err := h.snapshots.Latest(c.Request.Context())
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no factory snapshot available"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return snap, true
}

// persist records the run when a store is wired. Best effort: a history
// failure never fails the analysis response.
func (h *Handler) persist(c *gin.Context, kind, snapshotID string, params, report any) {
	if h.reports == nil {
		return
	}
	paramsJSON, _ := json.Marshal(params)
	reportJSON, err := json.Marshal(report)
	if err != nil {
		log.Printf("[analysis] marshal %s report: %v", kind, err)
		return
	}
	rec := &repository.Record{
		Kind:       kind,
		SnapshotID: snapshotID,
		Params:     paramsJSON,
		Report:     reportJSON,
	}
	if err := h.reports.Save(c.Request.Context(), rec); err != nil {
		log.Printf("[analysis] persist %s report: %v", kind, err)
	}
}

// bindOptional decodes the JSON body, treating an empty body as
// all-defaults. Unknown fields are ignored so new clients can talk to
// old servers.
func bindOptional(c *gin.Context, out any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}
