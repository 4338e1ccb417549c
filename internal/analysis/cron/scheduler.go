package cronjob

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/bottleneck"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/logistics"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/power"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/repository"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

// SnapshotSource and ReportStore mirror the HTTP layer's dependencies;
// the scheduler is just another caller of the same pure engines.
type SnapshotSource interface {
	Latest(ctx context.Context) (*domain.FactorySnapshot, error)
}

type ReportStore interface {
	Save(ctx context.Context, rec *repository.Record) error
}

// Scheduler periodically re-runs all three analyzers against the latest
// stored snapshot and persists the reports, so history accumulates even
// when no client is polling. It never touches factory state.
type Scheduler struct {
	spec        string
	bottlenecks *bottleneck.Analyzer
	logistics   *logistics.Analyzer
	power       *power.Analyzer
	snapshots   SnapshotSource
	reports     ReportStore
	cron        *cron.Cron
}

// NewScheduler builds a scheduler with a six-field cron spec, e.g.
// "0 */5 * * * *" for every five minutes.
func NewScheduler(spec string, g *recipegraph.Graph, snapshots SnapshotSource, reports ReportStore) *Scheduler {
	return &Scheduler{
		spec:        spec,
		bottlenecks: bottleneck.New(g),
		logistics:   logistics.New(g),
		power:       power.New(g),
		snapshots:   snapshots,
		reports:     reports,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	log.Printf("[cron] analysis scheduler started (spec %q)", s.spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := s.snapshots.Latest(ctx)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		log.Println("[cron] no snapshot yet, skipping scheduled analysis")
		return
	}
	if err != nil {
		log.Printf("[cron] load snapshot: %v", err)
		return
	}

	s.persist(ctx, repository.KindBottleneck, snap.ID, s.bottlenecks.Analyze(snap, bottleneck.Params{}))
	s.persist(ctx, repository.KindLogistics, snap.ID, s.logistics.Analyze(snap, logistics.Params{}))
	s.persist(ctx, repository.KindPower, snap.ID, s.power.Analyze(snap, power.Params{}))
}

func (s *Scheduler) persist(ctx context.Context, kind, snapshotID string, report any) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		log.Printf("[cron] marshal %s report: %v", kind, err)
		return
	}
	rec := &repository.Record{Kind: kind, SnapshotID: snapshotID, Report: reportJSON}
	if err := s.reports.Save(ctx, rec); err != nil {
		log.Printf("[cron] persist %s report: %v", kind, err)
	}
}
