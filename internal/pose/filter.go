package pose

import "math"

// Filter turns raw frame-space samples into accepted play-field samples.
type Filter struct {
	// MinY and MaxY bound the band of the video frame mapped onto the field.
	MinY, MaxY float64
	// ScoreThreshold is the minimum confidence for a sample to count.
	ScoreThreshold float64
	// MovementThreshold is the dead band on vertical movement.
	MovementThreshold float64
}

func DefaultFilter() Filter {
	return Filter{
		MinY:              0.25,
		MaxY:              0.98,
		ScoreThreshold:    0.275,
		MovementThreshold: 0.01,
	}
}

// Normalize remaps y from frame space to field space. Everything above MinY
// collapses to 0 and everything below MaxY to 1.
func (f Filter) Normalize(kp Keypoint) Keypoint {
	switch {
	case kp.Y < f.MinY:
		kp.Y = 0
	case kp.Y > f.MaxY:
		kp.Y = 1
	default:
		kp.Y = (kp.Y - f.MinY) / (f.MaxY - f.MinY)
	}
	return kp
}

// Accept reports whether an already normalized sample should replace prev.
// hasPrev is false until the first sample has been accepted, in which case
// only the confidence gate applies.
func (f Filter) Accept(prev Keypoint, hasPrev bool, next Keypoint) bool {
	// written negated so a NaN score is rejected too
	if !(next.Score >= f.ScoreThreshold) {
		return false
	}
	if !hasPrev {
		return true
	}
	return math.Abs(next.Y-prev.Y) >= f.MovementThreshold
}
