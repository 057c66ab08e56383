package lobby

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"motionpong/internal/pong"
	"motionpong/internal/pose"
	"motionpong/internal/renderer"
)

func newOptions(src pose.Source, sink pong.Sink) Options {
	return Options{
		Source:        src,
		Sink:          sink,
		Engine:        pong.NewEngine(pong.DefaultParams(), pong.Track),
		Filter:        pose.DefaultFilter(),
		PoseInterval:  time.Millisecond,
		FrameInterval: time.Millisecond,
	}
}

func TestCreateValidates(t *testing.T) {
	l := CreateLobby()
	rec := renderer.NewRecorder(640, 480)
	if _, err := l.Create(context.Background(), Options{Sink: renderer.NewPainter(rec, pong.DefaultParams())}); !errors.Is(err, ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
	if _, err := l.Create(context.Background(), Options{Source: pose.NewSynthetic(1)}); !errors.Is(err, ErrNoSink) {
		t.Errorf("Expected ErrNoSink, got %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Expected no sessions, got %d", l.Len())
	}
}

func TestSessionRunsBothTasks(t *testing.T) {
	l := CreateLobby()
	rec := renderer.NewRecorder(640, 480)
	p := pong.DefaultParams()

	s, err := l.Create(context.Background(), newOptions(pose.NewSynthetic(5), renderer.NewPainter(rec, p)))
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := l.Get(s.ID); !ok || got != s {
		t.Fatal("Expected session to be registered")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, seen := s.State.HandPose(); seen && rec.Frames() > 20 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, seen := s.State.HandPose(); !seen {
		t.Error("Expected the sampler to accept a hand pose")
	}
	if !l.Destroy(s.ID) {
		t.Fatal("Expected Destroy to find the session")
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("Expected both tasks to have stopped after Destroy")
	}

	stats := s.Stats()
	if stats.Ticks == 0 || stats.Ticks != rec.Frames() {
		t.Errorf("Expected one frame per tick, got %d ticks and %d frames", stats.Ticks, rec.Frames())
	}
	if stats.Pose.Accepted == 0 {
		t.Errorf("Expected accepted samples, got %+v", stats.Pose)
	}
	if _, ok := l.Get(s.ID); ok || l.Destroy(s.ID) {
		t.Error("Expected session to be gone after Destroy")
	}
}

// slowSource blocks each estimate to make sure a slow pose model only delays
// its own task.
type slowSource struct {
	delay time.Duration
}

func (s slowSource) EstimateOnce(ctx context.Context) (pose.Keypoint, bool, error) {
	select {
	case <-ctx.Done():
		return pose.Keypoint{}, false, ctx.Err()
	case <-time.After(s.delay):
	}
	return pose.Keypoint{Name: pose.RightWrist, Y: 0.6, Score: 0.9}, true, nil
}

func TestSlowPoseSourceDoesNotStallPhysics(t *testing.T) {
	l := CreateLobby()
	rec := renderer.NewRecorder(640, 480)

	s, err := l.Create(context.Background(), newOptions(slowSource{delay: 200 * time.Millisecond}, renderer.NewPainter(rec, pong.DefaultParams())))
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	frames := rec.Frames()
	l.Destroy(s.ID)

	if frames < 10 {
		t.Errorf("Expected physics to keep ticking while the pose source blocks, got %d frames", frames)
	}
	if _, seen := s.State.HandPose(); seen {
		t.Error("Expected no hand pose before the first estimate returned")
	}
}

func TestConcurrentTasksKeepInvariants(t *testing.T) {
	l := CreateLobby()
	rec := renderer.NewRecorder(640, 480)
	src := pose.NewSynthetic(11)
	src.Step = 0.5

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	s, err := l.Create(ctx, newOptions(src, renderer.NewPainter(rec, pong.DefaultParams())))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-s.Done():
				return
			default:
				s.State.HandPose()
				rec.LastFrame()
			}
		}
	}()

	lastComputer, lastPlayer := 0, 0
	for {
		snap := s.State.Snapshot()
		if snap.BallPosition.X < 0 || snap.BallPosition.X > 1 || snap.BallPosition.Y < 0 || snap.BallPosition.Y > 1 {
			t.Fatalf("Ball left the field: %+v", snap.BallPosition)
		}
		if snap.PointsComputer < lastComputer || snap.PointsPlayer < lastPlayer {
			t.Fatalf("Score went backwards: %d-%d after %d-%d", snap.PointsComputer, snap.PointsPlayer, lastComputer, lastPlayer)
		}
		lastComputer, lastPlayer = snap.PointsComputer, snap.PointsPlayer

		select {
		case <-s.Done():
			wg.Wait()
			l.Destroy(s.ID)
			return
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDestroyAll(t *testing.T) {
	l := CreateLobby()
	for i := 0; i < 3; i++ {
		rec := renderer.NewRecorder(640, 480)
		if _, err := l.Create(context.Background(), newOptions(pose.NewSynthetic(uint64(i)), renderer.NewPainter(rec, pong.DefaultParams()))); err != nil {
			t.Fatal(err)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Expected 3 sessions, got %d", l.Len())
	}
	l.DestroyAll()
	if l.Len() != 0 {
		t.Errorf("Expected no sessions left, got %d", l.Len())
	}
}
