package pong

import (
	"context"
	"log/slog"
	"math"
	"time"
)

type Event int

const (
	EventNone Event = iota
	EventComputerHit
	EventPlayerHit
	EventComputerScored
	EventPlayerScored
	EventWallBounce
)

func (e Event) String() string {
	switch e {
	case EventComputerHit:
		return "computer_hit"
	case EventPlayerHit:
		return "player_hit"
	case EventComputerScored:
		return "computer_scored"
	case EventPlayerScored:
		return "player_scored"
	case EventWallBounce:
		return "wall_bounce"
	}
	return "none"
}

func (e Event) scored() bool {
	return e == EventComputerScored || e == EventPlayerScored
}

// Sink receives every frame the physics loop produces.
type Sink interface {
	Field() Field
	Frame(s GameState, ev Event)
}

type Engine struct {
	params   Params
	strategy Strategy
}

func NewEngine(params Params, strategy Strategy) *Engine {
	if strategy == nil {
		strategy = Track
	}
	return &Engine{params: params, strategy: strategy}
}

func (e *Engine) Params() Params {
	return e.params
}

// Tick advances the game by one step. Collisions are resolved against the
// position the ball had at the start of the tick, then the ball moves.
// At most one of paddle hit, score and wall bounce applies per tick, in
// that order. A scoring tick leaves the ball centered.
func (e *Engine) Tick(s *GameState, f Field) Event {
	p := e.params
	ballX := f.PixelX(s.BallPosition.X)
	ballY := f.PixelY(s.BallPosition.Y)
	leftPaddleY := f.PixelY(s.PaddleYComputer)
	rightPaddleY := f.PixelY(s.HumanPaddleY())

	hitsComputer := s.BallDirection.X < 0 &&
		p.withinBand(ballY, leftPaddleY) &&
		ballX-p.BallRadius <= p.PaddleMargin+p.PaddleWidth
	hitsPlayer := s.BallDirection.X > 0 &&
		p.withinBand(ballY, rightPaddleY) &&
		ballX+p.BallRadius >= f.Width-p.PaddleMargin-p.PaddleWidth

	ev := EventNone
	switch {
	case hitsComputer:
		s.BallDirection = e.rebound(s.BallDirection, ballY, leftPaddleY, true)
		ev = EventComputerHit
	case hitsPlayer:
		s.BallDirection = e.rebound(s.BallDirection, ballY, rightPaddleY, false)
		ev = EventPlayerHit
	case ballX <= p.BallRadius:
		s.PointsComputer++
		s.BallPosition = Point{X: 0.5, Y: 0.5}
		s.BallDirection = Point{X: 1, Y: 0}
		ev = EventComputerScored
	case ballX >= f.Width-p.BallRadius:
		s.PointsPlayer++
		s.BallPosition = Point{X: 0.5, Y: 0.5}
		s.BallDirection = Point{X: -1, Y: 0}
		ev = EventPlayerScored
	case ballY <= p.BallRadius && s.BallDirection.Y < 0,
		ballY >= f.Height-p.BallRadius && s.BallDirection.Y > 0:
		s.BallDirection.Y = -s.BallDirection.Y
		ev = EventWallBounce
	}

	s.PaddleYComputer = clamp01(e.strategy(*s))
	if ev.scored() {
		// the serve starts from the center on the next tick
		return ev
	}

	s.BallPosition = Point{
		X: clamp01(s.BallPosition.X + s.BallDirection.X/p.BallSpeed),
		Y: clamp01(s.BallPosition.Y + s.BallDirection.Y/p.BallSpeed),
	}
	return ev
}

func (e *Engine) rebound(dir Point, ballY, paddleY int, left bool) Point {
	if e.params.SimpleRebound {
		return Point{X: -dir.X, Y: dir.Y}
	}
	angle := e.params.reboundAngle(ballY, paddleY)
	if left {
		angle = 2*math.Pi - angle
	}
	return Rotate(Point{X: sign(dir.X), Y: 0}, angle)
}

// Run ticks every interval until ctx is done, handing each frame to sink.
func (e *Engine) Run(ctx context.Context, shared *SharedState, sink Sink, interval time.Duration) uint64 {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return ticks
		case <-ticker.C:
		}

		state, ev := shared.Step(e, sink.Field())
		ticks++
		if ev.scored() {
			slog.Info("point scored",
				slog.String("event", ev.String()),
				slog.Int("computer", state.PointsComputer),
				slog.Int("player", state.PointsPlayer))
		}
		sink.Frame(state, ev)
	}
}
