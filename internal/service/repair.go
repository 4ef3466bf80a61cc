package service

import (
	"context"
	"sync"
	"time"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/logger"
)

// Sweeper is the periodic half of the consistency repair hook: it scans every
// denormalized list for entries whose target record is gone and detaches them
// with the same idempotent set operations the write path uses.
type Sweeper struct {
	storage RepairStorage

	mu        sync.Mutex
	lastStats SweepStats
}

// SweepStats tracks the outcome of the last repair pass.
type SweepStats struct {
	RunAt      time.Time
	Detected   int
	Repaired   int
	DurationMs int64
	Errors     []string
}

type RepairStorage interface {
	DanglingFollowRefs() ([]domain.FollowRef, error)
	FollowerDrift() ([]domain.FollowerDrift, error)
	DanglingCommentRefs() ([]domain.CommentRef, error)
	CommentDrift() ([]domain.CommentRef, error)
	UpdateFollowSet(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error
	UpdatePinComments(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error
}

func NewSweeper(storage RepairStorage) *Sweeper {
	return &Sweeper{storage: storage}
}

// Run executes one full repair pass and records its stats.
func (s *Sweeper) Run() (SweepStats, error) {
	start := time.Now()
	stats := SweepStats{RunAt: start}

	followRefs, err := s.storage.DanglingFollowRefs()
	if err != nil {
		return stats, err
	}
	for _, ref := range followRefs {
		stats.Detected++
		danglingRefsDetected.WithLabelValues(string(ref.Field)).Inc()
		logger.Log.Warn("sweep: dangling follow reference",
			"user", ref.UserId, "field", ref.Field, "ref", ref.Ref)
		if err := s.storage.UpdateFollowSet(ref.UserId, ref.Field, domain.SetRemove, ref.Ref); err != nil {
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		stats.Repaired++
		danglingRefsRepaired.WithLabelValues(string(ref.Field)).Inc()
	}

	// The following side is authoritative; followers is a derived view. A
	// failed dependent write leaves the two out of step between users that
	// both still exist, so reconcile followers against the inverse of
	// following. The set ops are idempotent, so re-adding never duplicates.
	drifts, err := s.storage.FollowerDrift()
	if err != nil {
		return stats, err
	}
	for _, d := range drifts {
		stats.Detected++
		logger.Log.Warn("sweep: follower list drift",
			"user", d.UserId, "follower", d.Follower, "op", d.Op)
		if err := s.storage.UpdateFollowSet(d.UserId, domain.FieldFollowers, d.Op, d.Follower); err != nil {
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		stats.Repaired++
		listDriftRepaired.WithLabelValues("followers", string(d.Op)).Inc()
	}

	commentRefs, err := s.storage.DanglingCommentRefs()
	if err != nil {
		return stats, err
	}
	for _, ref := range commentRefs {
		stats.Detected++
		danglingRefsDetected.WithLabelValues("comments").Inc()
		logger.Log.Warn("sweep: dangling comment reference", "pin", ref.PinId, "ref", ref.Ref)
		if err := s.storage.UpdatePinComments(ref.PinId, domain.SetRemove, ref.Ref); err != nil {
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		stats.Repaired++
		danglingRefsRepaired.WithLabelValues("comments").Inc()
	}

	// The comment row is authoritative; pin.comment_ids is the derived view.
	// A failed dependent append leaves an existing comment invisible to the
	// feed, so replay the append. Idempotent, safe to re-run.
	commentDrifts, err := s.storage.CommentDrift()
	if err != nil {
		return stats, err
	}
	for _, ref := range commentDrifts {
		stats.Detected++
		logger.Log.Warn("sweep: comment list drift", "pin", ref.PinId, "ref", ref.Ref)
		if err := s.storage.UpdatePinComments(ref.PinId, domain.SetAdd, ref.Ref); err != nil {
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		stats.Repaired++
		listDriftRepaired.WithLabelValues("comments", string(domain.SetAdd)).Inc()
	}

	stats.DurationMs = time.Since(start).Milliseconds()
	s.mu.Lock()
	s.lastStats = stats
	s.mu.Unlock()
	return stats, nil
}

func (s *Sweeper) LastStats() SweepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}

// StartBackgroundSweep runs Run on a ticker until ctx is cancelled.
func (s *Sweeper) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started consistency sweep", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats, err := s.Run()
				if err != nil {
					logger.Log.Error("consistency sweep failed", "error", err)
					continue
				}
				logger.Log.Info("consistency sweep completed",
					"detected", stats.Detected,
					"repaired", stats.Repaired,
					"duration_ms", stats.DurationMs,
					"errors", len(stats.Errors))
			case <-ctx.Done():
				logger.Log.Info("stopping consistency sweep")
				return
			}
		}
	}()
}
