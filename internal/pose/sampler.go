package pose

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// HandStore is the slice of game state the sampler owns. The sampler is the
// only writer of the hand pose.
type HandStore interface {
	HandPose() (Keypoint, bool)
	SetHandPose(Keypoint)
}

type Stats struct {
	Accepted uint64
	Rejected uint64
	Gaps     uint64
}

type Sampler struct {
	source Source
	store  HandStore
	filter Filter

	accepted atomic.Uint64
	rejected atomic.Uint64
	gaps     atomic.Uint64
}

func NewSampler(source Source, store HandStore, filter Filter) *Sampler {
	return &Sampler{
		source: source,
		store:  store,
		filter: filter,
	}
}

// Sample polls the source once and updates the store if the sample passes
// the filter. Detection failures are gaps, never errors.
func (s *Sampler) Sample(ctx context.Context) bool {
	raw, ok, err := s.source.EstimateOnce(ctx)
	if err != nil {
		slog.Debug("pose source failed", slog.Any("error", err))
		s.gaps.Add(1)
		return false
	}
	if !ok || raw.Name != RightWrist {
		s.gaps.Add(1)
		return false
	}

	next := s.filter.Normalize(raw)
	prev, hasPrev := s.store.HandPose()
	if !s.filter.Accept(prev, hasPrev, next) {
		s.rejected.Add(1)
		return false
	}

	s.store.SetHandPose(next)
	s.accepted.Add(1)
	return true
}

// Run samples every interval until ctx is done. A slow source delays the
// next sample; ticks missed meanwhile are dropped.
func (s *Sampler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.Sample(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sampler) Stats() Stats {
	return Stats{
		Accepted: s.accepted.Load(),
		Rejected: s.rejected.Load(),
		Gaps:     s.gaps.Load(),
	}
}
