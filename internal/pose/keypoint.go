package pose

import (
	"context"
	"errors"
)

// RightWrist is the only keypoint the game tracks.
const RightWrist = "right_wrist"

var ErrUnknownSource = errors.New("unknown pose source")

// Keypoint is a named body landmark with x and y normalized to [0,1] of the
// frame it was detected in.
type Keypoint struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score"`
}

// Source wraps the external pose model. EstimateOnce returns ok=false when
// nobody was detected or the sample carries no confidence.
type Source interface {
	EstimateOnce(ctx context.Context) (kp Keypoint, ok bool, err error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) (Keypoint, bool, error)

func (f SourceFunc) EstimateOnce(ctx context.Context) (Keypoint, bool, error) {
	return f(ctx)
}

// FindKeypoint picks the keypoint named name out of a detection.
func FindKeypoint(keypoints []Keypoint, name string) (Keypoint, bool) {
	for _, kp := range keypoints {
		if kp.Name == name {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// ToNormalized converts keypoints expressed in frame pixels to [0,1] of the
// frame dimensions.
func ToNormalized(keypoints []Keypoint, width, height float64) []Keypoint {
	out := make([]Keypoint, len(keypoints))
	for i, kp := range keypoints {
		out[i] = kp
		if width > 0 {
			out[i].X = kp.X / width
		}
		if height > 0 {
			out[i].Y = kp.Y / height
		}
	}
	return out
}
