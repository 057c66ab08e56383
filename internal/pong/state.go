package pong

import (
	"sync"

	"motionpong/internal/pose"
)

type Point struct {
	X float64
	Y float64
}

// GameState is one session's game record. Positions are normalized to the
// field; BallDirection only matters by sign and angle.
type GameState struct {
	BallPosition    Point
	BallDirection   Point
	PaddleYComputer float64
	PointsComputer  int
	PointsPlayer    int

	// HandPose is the last accepted wrist sample, valid when HasHandPose.
	// Once set it is only ever replaced.
	HandPose    pose.Keypoint
	HasHandPose bool
}

func NewGameState() GameState {
	return GameState{
		BallPosition:    Point{X: 0.5, Y: 0.5},
		BallDirection:   Point{X: 0.46, Y: -0.89},
		PaddleYComputer: 0.5,
	}
}

// HumanPaddleY is the center of the human paddle, the field center until a
// hand has been seen.
func (s GameState) HumanPaddleY() float64 {
	if s.HasHandPose {
		return s.HandPose.Y
	}
	return 0.5
}

// SharedState guards a GameState read and written by the pose sampler and the
// physics loop. The sampler only touches the hand pose.
type SharedState struct {
	mu    sync.Mutex
	state GameState
}

func NewSharedState(s GameState) *SharedState {
	return &SharedState{state: s}
}

func (s *SharedState) HandPose() (pose.Keypoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HandPose, s.state.HasHandPose
}

func (s *SharedState) SetHandPose(kp pose.Keypoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HandPose = kp
	s.state.HasHandPose = true
}

func (s *SharedState) Snapshot() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Step runs one physics tick under the lock and returns the resulting state.
func (s *SharedState) Step(e *Engine, f Field) (GameState, Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := e.Tick(&s.state, f)
	return s.state, ev
}
