package netwrk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"motionpong/internal/pose"
)

const PosePath = "/pose"

// Feed is a pose source fed by remote pose estimators over websocket. Each
// EstimateOnce hands out the newest wrist sample at most once.
type Feed struct {
	upgrader websocket.Upgrader

	mu     sync.Mutex
	latest pose.Keypoint
	fresh  bool

	clients atomic.Int32
	frames  atomic.Uint64
}

func NewFeed() *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (f *Feed) EstimateOnce(ctx context.Context) (pose.Keypoint, bool, error) {
	if err := ctx.Err(); err != nil {
		return pose.Keypoint{}, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.fresh {
		return pose.Keypoint{}, false, nil
	}
	f.fresh = false
	return f.latest, true, nil
}

func (f *Feed) publish(frame Frame) {
	f.frames.Add(1)
	kp, ok := frame.RightWrist()

	f.mu.Lock()
	defer f.mu.Unlock()
	// a frame without a usable wrist means nobody is in front of the camera
	f.latest, f.fresh = kp, ok
}

func (f *Feed) Clients() int {
	return int(f.clients.Load())
}

func (f *Feed) Frames() uint64 {
	return f.frames.Load()
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("failed to upgrade pose connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	f.clients.Add(1)
	defer f.clients.Add(-1)
	slog.Info("pose feed connected", slog.String("client", id), slog.String("remote", r.RemoteAddr))

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Info("pose feed dropped", slog.String("client", id), slog.Any("error", err))
			} else {
				slog.Info("pose feed disconnected", slog.String("client", id))
			}
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		frame, err := UnmarshalFrame(msg)
		if err != nil {
			slog.Debug("dropping pose frame", slog.String("client", id), slog.Any("error", err))
			continue
		}
		f.publish(frame)
	}
}

// Listen binds the pose feed address. Failing to bind is fatal to starting a
// session.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening for pose feed on %s: %w", addr, err)
	}
	return ln, nil
}

// Serve runs the feed on ln until ctx is done.
func Serve(ctx context.Context, ln net.Listener, feed *Feed) error {
	mux := http.NewServeMux()
	mux.Handle(PosePath, feed)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("pose feed listening", slog.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
