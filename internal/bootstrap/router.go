package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	analysishttp "github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/http"
	analysisrepo "github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/repository"
	httpapi "github.com/dsp-factory-lab/factory-analysis-backend/internal/api/http"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/api/http/middleware"
	factoryhttp "github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/http"
	factoryrepo "github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/repository"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

type RouterDeps struct {
	ServiceName   string
	Version       string
	Graph         *recipegraph.Graph
	Snapshots     *factoryrepo.SnapshotRepository
	DB            *sql.DB // nil disables report history
	IngestLimiter *rate.Limiter
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	factoryHandler := factoryhttp.New(dep.Snapshots, dep.IngestLimiter)
	factoryHandler.Register(api)

	var reports analysishttp.ReportStore
	if dep.DB != nil {
		reports = analysisrepo.NewReportRepository(dep.DB)
	}
	analysisHandler := analysishttp.New(dep.Graph, dep.Snapshots, reports)
	analysisHandler.Register(api)

	return r
}
