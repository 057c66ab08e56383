package lobby

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"motionpong/internal/pong"
	"motionpong/internal/pose"
)

var (
	ErrNoSource = errors.New("session needs a pose source")
	ErrNoSink   = errors.New("session needs a render sink")
)

type Options struct {
	Source pose.Source
	Sink   pong.Sink
	Engine *pong.Engine
	Filter pose.Filter

	PoseInterval  time.Duration
	FrameInterval time.Duration
}

type Stats struct {
	Ticks          uint64
	Pose           pose.Stats
	PointsComputer int
	PointsPlayer   int
}

// Session is one game: a shared state with a pose sampler and a physics
// loop running against it until the session is destroyed.
type Session struct {
	ID    string
	State *pong.SharedState

	sampler *pose.Sampler
	ticks   atomic.Uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Stats() Stats {
	snap := s.State.Snapshot()
	return Stats{
		Ticks:          s.ticks.Load(),
		Pose:           s.sampler.Stats(),
		PointsComputer: snap.PointsComputer,
		PointsPlayer:   snap.PointsPlayer,
	}
}

func (s *Session) stop() {
	s.cancel()
	<-s.done
}

type Lobby struct {
	sessions sync.Map
}

func CreateLobby() *Lobby {
	return &Lobby{}
}

// Create starts a session. Both tasks run until Destroy is called or parent
// is cancelled.
func (l *Lobby) Create(parent context.Context, opts Options) (*Session, error) {
	if opts.Source == nil {
		return nil, ErrNoSource
	}
	if opts.Sink == nil {
		return nil, ErrNoSink
	}
	if opts.Engine == nil {
		opts.Engine = pong.NewEngine(pong.DefaultParams(), pong.Track)
	}
	if opts.Filter == (pose.Filter{}) {
		opts.Filter = pose.DefaultFilter()
	}
	if opts.PoseInterval <= 0 {
		opts.PoseInterval = 30 * time.Millisecond
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 20 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(parent)
	state := pong.NewSharedState(pong.NewGameState())
	s := &Session{
		ID:      uuid.NewString(),
		State:   state,
		sampler: pose.NewSampler(opts.Source, state, opts.Filter),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.sampler.Run(ctx, opts.PoseInterval)
	}()
	go func() {
		defer s.wg.Done()
		opts.Engine.Run(ctx, state, &countingSink{Sink: opts.Sink, ticks: &s.ticks}, opts.FrameInterval)
	}()
	go func() {
		s.wg.Wait()
		close(s.done)
	}()

	l.sessions.Store(s.ID, s)
	slog.Info("session started", slog.String("session", s.ID))
	return s, nil
}

func (l *Lobby) Get(id string) (*Session, bool) {
	v, ok := l.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Destroy stops the session and waits for both of its tasks to return.
func (l *Lobby) Destroy(id string) bool {
	v, ok := l.sessions.LoadAndDelete(id)
	if !ok {
		return false
	}
	s := v.(*Session)
	s.stop()

	stats := s.Stats()
	slog.Info("session ended",
		slog.String("session", id),
		slog.Uint64("ticks", stats.Ticks),
		slog.Uint64("accepted", stats.Pose.Accepted),
		slog.Uint64("rejected", stats.Pose.Rejected),
		slog.Uint64("gaps", stats.Pose.Gaps),
		slog.Int("computer", stats.PointsComputer),
		slog.Int("player", stats.PointsPlayer))
	return true
}

func (l *Lobby) Range(fn func(*Session) bool) {
	l.sessions.Range(func(_, v any) bool {
		return fn(v.(*Session))
	})
}

func (l *Lobby) Len() int {
	n := 0
	l.Range(func(*Session) bool {
		n++
		return true
	})
	return n
}

// DestroyAll stops every session, used on shutdown.
func (l *Lobby) DestroyAll() {
	var ids []string
	l.Range(func(s *Session) bool {
		ids = append(ids, s.ID)
		return true
	})
	for _, id := range ids {
		l.Destroy(id)
	}
}

// countingSink keeps the session tick counter live while the loop runs.
type countingSink struct {
	pong.Sink
	ticks *atomic.Uint64
}

func (c *countingSink) Frame(s pong.GameState, ev pong.Event) {
	c.ticks.Add(1)
	c.Sink.Frame(s, ev)
}
