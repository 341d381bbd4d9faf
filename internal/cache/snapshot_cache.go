package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/config"
	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SnapshotCache holds raw snapshot reads keyed by filter. Computed analytics
// are never stored here.
type SnapshotCache interface {
	GetSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, bool, error)
	SetSnapshots(ctx context.Context, filter domain.SnapshotFilter, snapshots []domain.Snapshot) error
	InvalidateAll(ctx context.Context) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSnapshotCache struct{}

func NewSnapshotCache(cfg config.CacheConfig) (SnapshotCache, error) {
	if !cfg.Enabled {
		return &noopSnapshotCache{}, nil
	}

	client, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSnapshotCache{
		client: client,
		ttl:    snapshotTTL(cfg),
	}, nil
}

func NewNoopSnapshotCache() SnapshotCache {
	return &noopSnapshotCache{}
}

func (c *redisSnapshotCache) GetSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, bool, error) {
	key := buildSnapshotKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshots []domain.Snapshot
	if err := json.Unmarshal(payload, &snapshots); err != nil {
		return nil, false, fmt.Errorf("decode snapshot cache: %w", err)
	}

	return snapshots, true, nil
}

func (c *redisSnapshotCache) SetSnapshots(ctx context.Context, filter domain.SnapshotFilter, snapshots []domain.Snapshot) error {
	key := buildSnapshotKey(filter)
	payload, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("encode snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) InvalidateAll(ctx context.Context) error {
	removed, err := purgeSnapshotKeys(ctx, c.client)
	if err != nil {
		return err
	}
	log.Debug().Int("keys", removed).Msg("snapshot cache invalidated")
	return nil
}

func (n *noopSnapshotCache) GetSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, bool, error) {
	return nil, false, nil
}

func (n *noopSnapshotCache) SetSnapshots(ctx context.Context, filter domain.SnapshotFilter, snapshots []domain.Snapshot) error {
	return nil
}

func (n *noopSnapshotCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildSnapshotKey(filter domain.SnapshotFilter) string {
	return fmt.Sprintf("%s:%s", snapshotKeyPrefix, snapshotFilterHash(filter))
}

func snapshotFilterHash(filter domain.SnapshotFilter) string {
	parts := []string{}

	if from := strings.TrimSpace(filter.FromMonth); from != "" {
		parts = append(parts, "from="+from)
	}
	if to := strings.TrimSpace(filter.ToMonth); to != "" {
		parts = append(parts, "to="+to)
	}
	if len(filter.Months) > 0 {
		months := make([]string, 0, len(filter.Months))
		for _, m := range filter.Months {
			if m = strings.TrimSpace(m); m != "" {
				months = append(months, m)
			}
		}
		sort.Strings(months)
		parts = append(parts, "months="+strings.Join(months, ","))
	}
	if filter.Limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(filter.Limit))
	}

	if len(parts) == 0 {
		return "all"
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
