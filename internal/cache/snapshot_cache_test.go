package cache

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/config"
	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotKey_Stable(t *testing.T) {
	a := buildSnapshotKey(domain.SnapshotFilter{Months: []string{"2024-02", "2024-01"}, Limit: 3})
	b := buildSnapshotKey(domain.SnapshotFilter{Months: []string{" 2024-01", "2024-02"}, Limit: 3})
	assert.Equal(t, a, b)

	c := buildSnapshotKey(domain.SnapshotFilter{Months: []string{"2024-01", "2024-02"}, Limit: 4})
	assert.NotEqual(t, a, c)

	assert.Equal(t, snapshotKeyPrefix+":all", buildSnapshotKey(domain.SnapshotFilter{}))
}

func TestSnapshotKey_RangeDiffers(t *testing.T) {
	from := buildSnapshotKey(domain.SnapshotFilter{FromMonth: "2024-01"})
	to := buildSnapshotKey(domain.SnapshotFilter{ToMonth: "2024-01"})
	assert.NotEqual(t, from, to)
}

func TestNewSnapshotCache_DisabledIsNoop(t *testing.T) {
	c, err := NewSnapshotCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.SetSnapshots(ctx, domain.SnapshotFilter{}, []domain.Snapshot{{Month: "2024-01"}}))

	got, ok, err := c.GetSnapshots(ctx, domain.SnapshotFilter{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateAll(ctx))
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:secret@localhost:6379/1"})
	require.NoError(t, err)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}

func TestSnapshotTTL(t *testing.T) {
	assert.Equal(t, defaultSnapshotTTL, snapshotTTL(config.CacheConfig{}))
	assert.Equal(t, defaultSnapshotTTL, snapshotTTL(config.CacheConfig{SnapshotTTLSeconds: -1}))
	assert.Equal(t, 90*time.Second, snapshotTTL(config.CacheConfig{SnapshotTTLSeconds: 90}))
}

func TestNewSnapshotCache_UnreachableRedis(t *testing.T) {
	_, err := NewSnapshotCache(config.CacheConfig{Enabled: true, RedisHost: "127.0.0.1", RedisPort: "1"})
	assert.Error(t, err)
}
