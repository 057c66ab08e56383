package pong

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownStrategy = errors.New("unknown computer strategy")

// Strategy decides where the computer paddle should be this tick.
type Strategy func(GameState) float64

// Track follows the ball exactly.
func Track(s GameState) float64 {
	return s.BallPosition.Y
}

// Lazy moves the paddle toward the ball by at most step per tick, so a steep
// enough shot gets past it.
func Lazy(step float64) Strategy {
	return func(s GameState) float64 {
		d := s.BallPosition.Y - s.PaddleYComputer
		if math.Abs(d) <= step {
			return s.BallPosition.Y
		}
		return s.PaddleYComputer + math.Copysign(step, d)
	}
}

func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", "track":
		return Track, nil
	case "lazy":
		return Lazy(0.02), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}
