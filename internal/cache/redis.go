package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
)

// Redis caches lab reports and health scores in a shared Redis instance.
// Keys arrive from callers already hashed (sha256 over the snapshot payload);
// this layer only namespaces them.
type Redis struct {
	client    *redis.Client
	reportTTL time.Duration
	scoreTTL  time.Duration
	logger    *logrus.Logger
}

var _ domain.ReportCache = (*Redis)(nil)

// NewRedis connects to the Redis instance named by the URL and verifies the
// connection before returning.
func NewRedis(redisConfig domain.RedisConfig, cacheConfig domain.CacheConfig, logger *logrus.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisConfig.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	if redisConfig.PoolSize > 0 {
		opts.PoolSize = redisConfig.PoolSize
	}
	if redisConfig.PoolTimeout > 0 {
		opts.PoolTimeout = redisConfig.PoolTimeout
	}
	if redisConfig.MaxRetries > 0 {
		opts.MaxRetries = redisConfig.MaxRetries
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	if cacheConfig.ReportTTL == 0 {
		cacheConfig.ReportTTL = 24 * time.Hour
	}
	if cacheConfig.ScoreTTL == 0 {
		cacheConfig.ScoreTTL = 24 * time.Hour
	}

	return &Redis{
		client:    client,
		reportTTL: cacheConfig.ReportTTL,
		scoreTTL:  cacheConfig.ScoreTTL,
		logger:    logger,
	}, nil
}

// CachedReport wraps a stored lab report with cache metadata.
type CachedReport struct {
	Report    *domain.LabReport `json:"report"`
	CachedAt  time.Time         `json:"cached_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// CachedScore wraps a stored health score with cache metadata.
type CachedScore struct {
	Score     *domain.HealthScore `json:"score"`
	CachedAt  time.Time           `json:"cached_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// GetReport retrieves a cached lab report. Any Redis failure reads as a miss;
// the caller rebuilds the report from the snapshot.
func (c *Redis) GetReport(ctx context.Context, key string) (*domain.LabReport, bool) {
	val, err := c.client.Get(ctx, reportKey(key)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read report cache")
		return nil, false
	}

	report, ok := decodeReport([]byte(val))
	if !ok {
		// Remove corrupted or expired entry
		c.client.Del(ctx, reportKey(key))
		return nil, false
	}
	return report, true
}

// SetReport caches a lab report under key.
func (c *Redis) SetReport(ctx context.Context, key string, report *domain.LabReport) error {
	cached := CachedReport{
		Report:    report,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(c.reportTTL),
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshaling cached report: %w", err)
	}
	return c.client.Set(ctx, reportKey(key), jsonData, c.reportTTL).Err()
}

// GetScore retrieves a cached health score. Any Redis failure reads as a miss.
func (c *Redis) GetScore(ctx context.Context, key string) (*domain.HealthScore, bool) {
	val, err := c.client.Get(ctx, scoreKey(key)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read score cache")
		return nil, false
	}

	score, ok := decodeScore([]byte(val))
	if !ok {
		c.client.Del(ctx, scoreKey(key))
		return nil, false
	}
	return score, true
}

// SetScore caches a health score under key.
func (c *Redis) SetScore(ctx context.Context, key string, score *domain.HealthScore) error {
	cached := CachedScore{
		Score:     score,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(c.scoreTTL),
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshaling cached score: %w", err)
	}
	return c.client.Set(ctx, scoreKey(key), jsonData, c.scoreTTL).Err()
}

// Ping checks if the Redis connection is alive.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Redis) Close() error {
	return c.client.Close()
}

func reportKey(key string) string {
	return "report:snapshot:" + key
}

func scoreKey(key string) string {
	return "score:snapshot:" + key
}

// decodeReport unmarshals a cached report envelope. A false return means the
// entry is corrupted or past its expiry and should be deleted.
func decodeReport(val []byte) (*domain.LabReport, bool) {
	var cached CachedReport
	if err := json.Unmarshal(val, &cached); err != nil {
		return nil, false
	}
	if cached.Report == nil || time.Now().After(cached.ExpiresAt) {
		return nil, false
	}
	return cached.Report, true
}

// decodeScore unmarshals a cached score envelope.
func decodeScore(val []byte) (*domain.HealthScore, bool) {
	var cached CachedScore
	if err := json.Unmarshal(val, &cached); err != nil {
		return nil, false
	}
	if cached.Score == nil || time.Now().After(cached.ExpiresAt) {
		return nil, false
	}
	return cached.Score, true
}
