package services

import (
	"context"
	"time"

	"moderation-assistant/internal/core/ports"
	"moderation-assistant/internal/metrics"

	"github.com/m-mizutani/ctxlog"
)

// RetentionService periodically deletes audit entries older than maxAge.
type RetentionService struct {
	pruner   ports.AuditReader
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewRetentionService checks once per interval; a non-positive interval
// defaults to maxAge / 24, capped at an hour.
func NewRetentionService(pruner ports.AuditReader, maxAge, interval time.Duration) *RetentionService {
	if interval <= 0 {
		interval = min(maxAge/24, time.Hour)
	}
	return &RetentionService{
		pruner:   pruner,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
	}
}

// Start prunes immediately and then on every tick until ctx is done.
func (s *RetentionService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	ctxlog.From(ctx).Info("Audit retention started", "max_age", s.maxAge, "interval", s.interval)

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *RetentionService) runOnce(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.maxAge)

	n, err := s.pruner.Prune(ctx, cutoff)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to prune audit log", "cutoff", cutoff, "error", err)
		return 0
	}

	metrics.AuditEntriesPruned.Add(float64(n))
	if n > 0 {
		ctxlog.From(ctx).Info("Pruned audit log", "deleted", n, "cutoff", cutoff)
	}
	return n
}
