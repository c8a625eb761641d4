// Package cache provides the report/score cache backends. Redis serves
// deployments that share cache state across instances; the in-process memory
// cache serves single-instance and MCP deployments. Both store immutable
// snapshot-keyed values, so a stale entry is never wrong, only absent.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
)

// Stats represents cache performance counters.
type Stats struct {
	ReportHits   int64     `json:"report_hits"`
	ReportMisses int64     `json:"report_misses"`
	ScoreHits    int64     `json:"score_hits"`
	ScoreMisses  int64     `json:"score_misses"`
	Builds       int64     `json:"builds"`
	LastReset    time.Time `json:"last_reset"`
}

// Memory is an in-process LRU cache for lab reports and health scores.
// Entries carry their own expiry so a long-lived process does not serve
// reports built against an old reference catalog indefinitely.
type Memory struct {
	reports *lru.Cache
	scores  *lru.Cache

	reportTTL time.Duration
	scoreTTL  time.Duration

	// Limits concurrent report builds when callers fan in through
	// GetOrBuildReport.
	buildSemaphore chan struct{}

	logger  *logrus.Logger
	stats   *Stats
	statsMu sync.RWMutex
}

var _ domain.ReportCache = (*Memory)(nil)

// NewMemory creates an in-process cache. Zero config fields fall back to
// defaults sized for a single-patient session workload.
func NewMemory(config domain.CacheConfig, logger *logrus.Logger) (*Memory, error) {
	if config.ReportTTL == 0 {
		config.ReportTTL = 15 * time.Minute
	}
	if config.ScoreTTL == 0 {
		config.ScoreTTL = 15 * time.Minute
	}
	if config.MaxSize == 0 {
		config.MaxSize = 1000
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}

	reports, err := lru.New(config.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("creating report cache: %w", err)
	}
	scores, err := lru.New(config.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("creating score cache: %w", err)
	}

	return &Memory{
		reports:        reports,
		scores:         scores,
		reportTTL:      config.ReportTTL,
		scoreTTL:       config.ScoreTTL,
		buildSemaphore: make(chan struct{}, config.MaxConcurrency),
		logger:         logger,
		stats: &Stats{
			LastReset: time.Now(),
		},
	}, nil
}

// GetReport returns the cached report for key, if present and fresh.
func (m *Memory) GetReport(_ context.Context, key string) (*domain.LabReport, bool) {
	if value, ok := m.reports.Get(key); ok {
		if entry, ok := value.(*reportEntry); ok && !entry.isExpired() {
			m.incrementStat("report_hits")
			return entry.report, true
		}
		m.reports.Remove(key)
	}
	m.incrementStat("report_misses")
	return nil, false
}

// SetReport caches a report under key.
func (m *Memory) SetReport(_ context.Context, key string, report *domain.LabReport) error {
	m.reports.Add(key, &reportEntry{
		report: report,
		expiry: time.Now().Add(m.reportTTL),
	})
	return nil
}

// GetScore returns the cached health score for key, if present and fresh.
func (m *Memory) GetScore(_ context.Context, key string) (*domain.HealthScore, bool) {
	if value, ok := m.scores.Get(key); ok {
		if entry, ok := value.(*scoreEntry); ok && !entry.isExpired() {
			m.incrementStat("score_hits")
			return entry.score, true
		}
		m.scores.Remove(key)
	}
	m.incrementStat("score_misses")
	return nil, false
}

// SetScore caches a health score under key.
func (m *Memory) SetScore(_ context.Context, key string, score *domain.HealthScore) error {
	m.scores.Add(key, &scoreEntry{
		score:  score,
		expiry: time.Now().Add(m.scoreTTL),
	})
	return nil
}

// GetOrBuildReport returns the cached report for key, invoking build on a
// miss and caching the result. Concurrent builds across all keys are bounded
// by the configured concurrency limit; callers waiting on the semaphore
// re-check the cache after acquiring it.
func (m *Memory) GetOrBuildReport(ctx context.Context, key string, build func(context.Context) (*domain.LabReport, error)) (*domain.LabReport, error) {
	if report, ok := m.GetReport(ctx, key); ok {
		return report, nil
	}

	select {
	case m.buildSemaphore <- struct{}{}:
		defer func() { <-m.buildSemaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Another holder may have built this key while we waited.
	if report, ok := m.GetReport(ctx, key); ok {
		return report, nil
	}

	report, err := build(ctx)
	if err != nil {
		return nil, fmt.Errorf("building report for cache: %w", err)
	}
	m.incrementStat("builds")

	if err := m.SetReport(ctx, key, report); err != nil {
		m.logger.WithError(err).Warn("Failed to cache built report")
	}
	return report, nil
}

// GetStats returns a copy of the cache counters.
func (m *Memory) GetStats() Stats {
	m.statsMu.RLock()
	defer m.statsMu.RUnlock()
	return *m.stats
}

func (m *Memory) incrementStat(statName string) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	switch statName {
	case "report_hits":
		m.stats.ReportHits++
	case "report_misses":
		m.stats.ReportMisses++
	case "score_hits":
		m.stats.ScoreHits++
	case "score_misses":
		m.stats.ScoreMisses++
	case "builds":
		m.stats.Builds++
	}
}

type reportEntry struct {
	report *domain.LabReport
	expiry time.Time
}

func (e *reportEntry) isExpired() bool {
	return time.Now().After(e.expiry)
}

type scoreEntry struct {
	score  *domain.HealthScore
	expiry time.Time
}

func (e *scoreEntry) isExpired() bool {
	return time.Now().After(e.expiry)
}
