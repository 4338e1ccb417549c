package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
)

const (
	snapshotKeyPrefix = "factory:snapshot:" // Key for one snapshot: factory:snapshot:{id}
	latestKey         = "factory:latest"    // Points at the most recent snapshot id
	snapshotTTL       = 24 * time.Hour
)

// SnapshotRepository holds ingested factory snapshots in Redis so the
// HTTP tools and the scheduler analyze the same state. Only a bounded
// window is kept: every snapshot carries a TTL.
type SnapshotRepository struct {
	client *redis.Client
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(client *redis.Client) *SnapshotRepository {
	return &SnapshotRepository{client: client}
}

// Save stores a snapshot and marks it as the latest. Assigns an id and a
// timestamp when the caller left them empty.
func (r *SnapshotRepository) Save(ctx context.Context, snap *domain.FactorySnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, snapshotKeyPrefix+snap.ID, data, snapshotTTL)
	pipe.Set(ctx, latestKey, snap.ID, snapshotTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	return nil
}

// Get retrieves a snapshot by id.
func (r *SnapshotRepository) Get(ctx context.Context, id string) (*domain.FactorySnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap domain.FactorySnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Latest retrieves the most recently ingested snapshot. Each caller gets
// its own decoded copy, so concurrent analyses never share mutable state.
func (r *SnapshotRepository) Latest(ctx context.Context) (*domain.FactorySnapshot, error) {
	id, err := r.client.Get(ctx, latestKey).Result()
	if err == redis.Nil {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot id: %w", err)
	}
	return r.Get(ctx, id)
}
