package pong

import "math"

// Field is the pixel size of the play field.
type Field struct {
	Width  int
	Height int
}

func (f Field) PixelX(x float64) int {
	return int(math.Floor(x * float64(f.Width)))
}

func (f Field) PixelY(y float64) int {
	return int(math.Floor(y * float64(f.Height)))
}

type Rect struct {
	X, Y          int
	Width, Height int
}

type Params struct {
	BallRadius int
	// BallSpeed divides the direction vector each tick: bigger is slower.
	BallSpeed   float64
	MinRotation float64
	MaxRotation float64

	PaddleWidth  int
	PaddleHeight int
	PaddleMargin int

	// SimpleRebound only reverses the horizontal direction on a paddle hit.
	SimpleRebound bool
}

func DefaultParams() Params {
	return Params{
		BallRadius:   10,
		BallSpeed:    30,
		MinRotation:  3.0 / 4.0 * math.Pi,
		MaxRotation:  5.0 / 4.0 * math.Pi,
		PaddleWidth:  10,
		PaddleHeight: 70,
		PaddleMargin: 20,
	}
}

func (p Params) halfPaddle() float64 {
	return float64(p.PaddleHeight) / 2
}

// ComputerPaddle is the left paddle rectangle in pixels.
func (p Params) ComputerPaddle(f Field, centerY float64) Rect {
	return Rect{
		X:      p.PaddleMargin,
		Y:      f.PixelY(centerY) - p.PaddleHeight/2,
		Width:  p.PaddleWidth,
		Height: p.PaddleHeight,
	}
}

// HumanPaddle is the right paddle rectangle in pixels.
func (p Params) HumanPaddle(f Field, centerY float64) Rect {
	return Rect{
		X:      f.Width - p.PaddleMargin - p.PaddleWidth,
		Y:      f.PixelY(centerY) - p.PaddleHeight/2,
		Width:  p.PaddleWidth,
		Height: p.PaddleHeight,
	}
}

// withinBand reports whether pixel row y is inside the paddle centered on
// paddleY.
func (p Params) withinBand(y, paddleY int) bool {
	fy, fp := float64(y), float64(paddleY)
	return fy >= fp-p.halfPaddle() && fy <= fp+p.halfPaddle()
}

// reboundAngle maps where the ball met the paddle onto the rotation range.
// 0 is the top edge and 1 the bottom edge.
func (p Params) reboundAngle(ballY, paddleY int) float64 {
	rel := (float64(ballY) - (float64(paddleY) - p.halfPaddle())) / float64(p.PaddleHeight)
	return p.MinRotation + rel*(p.MaxRotation-p.MinRotation)
}

func Rotate(v Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{
		X: cos*v.X - sin*v.Y,
		Y: sin*v.X + cos*v.Y,
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
