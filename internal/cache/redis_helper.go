package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	snapshotKeyPrefix = "stock_analytics:snapshots"

	// keys fetched per SCAN round and unlinked per call when purging
	snapshotPurgeBatch = 100

	defaultSnapshotTTL = 5 * time.Minute
	redisDialTimeout   = 5 * time.Second
)

// dialRedis connects to the configured redis and checks it answers.
func dialRedis(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}
	return client, nil
}

// redisOptions prefers REDIS_URL and falls back to host, port and db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// snapshotTTL is how long a cached snapshot read stays valid.
func snapshotTTL(cfg config.CacheConfig) time.Duration {
	if cfg.SnapshotTTLSeconds <= 0 {
		return defaultSnapshotTTL
	}
	return time.Duration(cfg.SnapshotTTLSeconds) * time.Second
}

// purgeSnapshotKeys unlinks every cached snapshot read and returns how many
// keys were removed.
func purgeSnapshotKeys(ctx context.Context, client *redis.Client) (int, error) {
	iter := client.Scan(ctx, 0, snapshotKeyPrefix+":*", snapshotPurgeBatch).Iterator()

	removed := 0
	batch := make([]string, 0, snapshotPurgeBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := client.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == snapshotPurgeBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan failed: %w", err)
	}
	return removed, flush()
}
