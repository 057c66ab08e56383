package pose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

var ErrEmptyTrace = errors.New("pose trace has no frames")

type traceKeypoint struct {
	Name  string   `json:"name"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Score *float64 `json:"score"`
}

type traceFrame struct {
	// Width and Height are set when the keypoints are in frame pixels.
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Keypoints []traceKeypoint `json:"keypoints"`
}

type trace struct {
	Frames []traceFrame `json:"frames"`
}

// Replay plays back a recorded pose trace one frame per call, looping at
// the end.
type Replay struct {
	mu     sync.Mutex
	frames []traceFrame
	next   int
}

func NewReplay(path string) (*Replay, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pose trace: %w", err)
	}
	return ParseReplay(b)
}

func ParseReplay(b []byte) (*Replay, error) {
	var t trace
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decoding pose trace: %w", err)
	}
	if len(t.Frames) == 0 {
		return nil, ErrEmptyTrace
	}
	return &Replay{frames: t.Frames}, nil
}

func (r *Replay) EstimateOnce(ctx context.Context) (Keypoint, bool, error) {
	if err := ctx.Err(); err != nil {
		return Keypoint{}, false, err
	}

	r.mu.Lock()
	frame := r.frames[r.next]
	r.next = (r.next + 1) % len(r.frames)
	r.mu.Unlock()

	for _, tk := range frame.Keypoints {
		if tk.Name != RightWrist {
			continue
		}
		if tk.Score == nil {
			return Keypoint{}, false, nil
		}
		kp := Keypoint{Name: tk.Name, X: tk.X, Y: tk.Y, Score: *tk.Score}
		if frame.Width > 0 || frame.Height > 0 {
			kp = ToNormalized([]Keypoint{kp}, frame.Width, frame.Height)[0]
		}
		return kp, true, nil
	}
	return Keypoint{}, false, nil
}

func (r *Replay) Len() int {
	return len(r.frames)
}
