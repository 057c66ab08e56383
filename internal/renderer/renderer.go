package renderer

import (
	"errors"
	"strconv"

	"motionpong/internal/pong"
)

var ErrUnknownRenderer = errors.New("unknown renderer")

type Color int

const (
	White Color = iota
	Red
)

const (
	scoreY      = 75
	dashLength  = 5
	dashSpacing = 15
)

// Surface is a drawing target addressed in field pixels.
type Surface interface {
	Size() (width, height int)
	Clear()
	DashedLine(x0, y0, x1, y1, on, off int, c Color)
	// Text draws s horizontally centered on x.
	Text(x, y int, s string, c Color)
	FillCircle(cx, cy, radius int, c Color)
	FillRect(x, y, width, height int, c Color)
	Show()
}

// Draw emits one frame. The human paddle is only drawn once a hand has been
// seen.
func Draw(surface Surface, p pong.Params, s pong.GameState) {
	width, height := surface.Size()
	f := pong.Field{Width: width, Height: height}

	surface.Clear()
	surface.DashedLine(width/2, 0, width/2, height, dashLength, dashSpacing, White)
	surface.Text(width/4, scoreY, strconv.Itoa(s.PointsComputer), White)
	surface.Text(width/4*3, scoreY, strconv.Itoa(s.PointsPlayer), White)
	surface.FillCircle(f.PixelX(s.BallPosition.X), f.PixelY(s.BallPosition.Y), p.BallRadius, Red)

	left := p.ComputerPaddle(f, s.PaddleYComputer)
	surface.FillRect(left.X, left.Y, left.Width, left.Height, White)
	if s.HasHandPose {
		right := p.HumanPaddle(f, s.HandPose.Y)
		surface.FillRect(right.X, right.Y, right.Width, right.Height, White)
	}
	surface.Show()
}

// Painter feeds physics frames to a surface.
type Painter struct {
	surface Surface
	params  pong.Params
}

func NewPainter(surface Surface, params pong.Params) *Painter {
	return &Painter{surface: surface, params: params}
}

func (p *Painter) Field() pong.Field {
	w, h := p.surface.Size()
	return pong.Field{Width: w, Height: h}
}

func (p *Painter) Frame(s pong.GameState, _ pong.Event) {
	Draw(p.surface, p.params, s)
}
