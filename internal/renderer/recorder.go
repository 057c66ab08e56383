package renderer

import (
	"fmt"
	"log/slog"
	"sync"
)

type Op struct {
	Kind  string
	X, Y  int
	W, H  int
	Text  string
	Color Color
}

func (o Op) String() string {
	switch o.Kind {
	case "text":
		return fmt.Sprintf("text(%d,%d,%q)", o.X, o.Y, o.Text)
	case "clear", "show":
		return o.Kind
	}
	return fmt.Sprintf("%s(%d,%d,%d,%d)", o.Kind, o.X, o.Y, o.W, o.H)
}

// Recorder is a headless surface that keeps the draw commands of the last
// completed frame.
type Recorder struct {
	mu      sync.Mutex
	width   int
	height  int
	pending []Op
	last    []Op
	frames  uint64
	// LogEvery logs the frame at debug level every n frames, 0 disables it.
	LogEvery uint64
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) add(op Op) {
	r.mu.Lock()
	r.pending = append(r.pending, op)
	r.mu.Unlock()
}

func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

func (r *Recorder) Clear() {
	r.add(Op{Kind: "clear"})
}

func (r *Recorder) DashedLine(x0, y0, x1, y1, on, off int, c Color) {
	r.add(Op{Kind: "dashed_line", X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Color: c})
}

func (r *Recorder) Text(x, y int, s string, c Color) {
	r.add(Op{Kind: "text", X: x, Y: y, Text: s, Color: c})
}

func (r *Recorder) FillCircle(cx, cy, radius int, c Color) {
	r.add(Op{Kind: "circle", X: cx, Y: cy, W: radius, H: radius, Color: c})
}

func (r *Recorder) FillRect(x, y, width, height int, c Color) {
	r.add(Op{Kind: "rect", X: x, Y: y, W: width, H: height, Color: c})
}

func (r *Recorder) Show() {
	r.mu.Lock()
	r.pending = append(r.pending, Op{Kind: "show"})
	r.last, r.pending = r.pending, nil
	r.frames++
	frames, last := r.frames, r.last
	r.mu.Unlock()

	if r.LogEvery > 0 && frames%r.LogEvery == 0 {
		slog.Debug("frame", slog.Uint64("n", frames), slog.Any("ops", last))
	}
}

// LastFrame returns the ops of the most recent shown frame.
func (r *Recorder) LastFrame() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.last...)
}

func (r *Recorder) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
