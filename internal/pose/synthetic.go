package pose

import (
	"context"
	"math"
	"sync"

	"golang.org/x/exp/rand"
)

// Synthetic fakes a player sweeping their wrist up and down in front of the
// camera, with jitter, dropouts and low confidence frames.
type Synthetic struct {
	mu    sync.Mutex
	rng   *rand.Rand
	phase float64

	// Step is the phase advance per call, in radians.
	Step float64
	// Jitter is the standard deviation of the noise added to y.
	Jitter float64
	// DropRate is the chance no person is detected at all.
	DropRate float64
	// LowConfidenceRate is the chance a sample comes back near zero score.
	LowConfidenceRate float64
}

func NewSynthetic(seed uint64) *Synthetic {
	return &Synthetic{
		rng:               rand.New(rand.NewSource(seed)),
		Step:              0.05,
		Jitter:            0.004,
		DropRate:          0.05,
		LowConfidenceRate: 0.05,
	}
}

func (s *Synthetic) EstimateOnce(ctx context.Context) (Keypoint, bool, error) {
	if err := ctx.Err(); err != nil {
		return Keypoint{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase += s.Step
	if s.rng.Float64() < s.DropRate {
		return Keypoint{}, false, nil
	}

	score := 0.6 + 0.4*s.rng.Float64()
	if s.rng.Float64() < s.LowConfidenceRate {
		score = 0.1 * s.rng.Float64()
	}

	y := 0.615 + 0.36*math.Sin(s.phase) + s.rng.NormFloat64()*s.Jitter
	return Keypoint{
		Name:  RightWrist,
		X:     0.5 + s.rng.NormFloat64()*s.Jitter,
		Y:     math.Max(0, math.Min(1, y)),
		Score: score,
	}, true, nil
}
