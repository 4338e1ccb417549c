package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/dsp-factory-lab/factory-analysis-backend/config"
	cronjob "github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/cron"
	analysisrepo "github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/repository"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/bootstrap"
	factoryrepo "github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/repository"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph/loader"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	graph, err := loader.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("recipe catalog: %v", err)
	}
	log.Printf("recipe catalog loaded: %d items, %d recipes", len(graph.Items()), len(graph.Recipes()))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	snapshots := factoryrepo.NewSnapshotRepository(rdb)

	// Report history is optional: without a DSN the tools still answer,
	// runs just are not recorded.
	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = bootstrap.OpenDB(context.Background(), bootstrap.DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
	} else {
		log.Println("DB_DSN not set, report history disabled")
	}

	if cfg.Cron.Spec != "" {
		if db == nil {
			log.Println("ANALYSIS_CRON set but report history disabled, skipping scheduler")
		} else {
			sched := cronjob.NewScheduler(cfg.Cron.Spec, graph, snapshots, analysisrepo.NewReportRepository(db))
			if err := sched.Start(); err != nil {
				log.Fatalf("scheduler: %v", err)
			}
			defer sched.Stop()
		}
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   "factory-analysis-backend",
		Version:       cfg.App.Version,
		Graph:         graph,
		Snapshots:     snapshots,
		DB:            db,
		IngestLimiter: rate.NewLimiter(rate.Limit(cfg.Server.IngestPerSec), cfg.Server.IngestBurst),
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
