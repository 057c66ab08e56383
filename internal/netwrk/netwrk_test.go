package netwrk

import (
	"context"
	"errors"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"motionpong/internal/pose"
)

func TestFrameCodec(t *testing.T) {
	in := Frame{
		Keypoints: []pose.Keypoint{
			{Name: "nose", X: 0.5, Y: 0.1, Score: 0.9},
			{Name: pose.RightWrist, X: 0.4, Y: 0.6, Score: math.NaN()},
		},
		Width:       640,
		Height:      480,
		TimestampMs: 1700000000123,
	}
	out, err := UnmarshalFrame(MarshalFrame(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Keypoints) != 2 || out.Keypoints[0] != in.Keypoints[0] {
		t.Fatalf("Expected keypoints to survive the wire, got %+v", out.Keypoints)
	}
	if wrist := out.Keypoints[1]; wrist.Name != pose.RightWrist || !math.IsNaN(wrist.Score) {
		t.Errorf("Expected missing score to decode as NaN, got %+v", wrist)
	}
	if out.Width != 640 || out.Height != 480 || out.TimestampMs != in.TimestampMs {
		t.Errorf("Unexpected frame header %+v", out)
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	b := MarshalFrame(Frame{Keypoints: []pose.Keypoint{{Name: pose.RightWrist, Y: 0.3, Score: 1}}})
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	f, err := UnmarshalFrame(b)
	if err != nil {
		t.Fatalf("Expected unknown field to be skipped, got %v", err)
	}
	if len(f.Keypoints) != 1 || f.Keypoints[0].Y != 0.3 {
		t.Errorf("Unexpected frame %+v", f)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	b := MarshalFrame(Frame{Keypoints: []pose.Keypoint{{Name: pose.RightWrist}}})
	if _, err := UnmarshalFrame(b[:len(b)-3]); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Expected ErrMalformedFrame for a truncated frame, got %v", err)
	}
	if _, err := UnmarshalFrame([]byte{0xff}); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Expected ErrMalformedFrame for a bad tag, got %v", err)
	}
}

func TestFrameRightWrist(t *testing.T) {
	f := Frame{
		Keypoints: []pose.Keypoint{{Name: pose.RightWrist, X: 320, Y: 360, Score: 0.8}},
		Width:     640,
		Height:    480,
	}
	kp, ok := f.RightWrist()
	if !ok || kp.X != 0.5 || kp.Y != 0.75 {
		t.Errorf("Expected normalized wrist (0.5, 0.75), got %+v ok=%v", kp, ok)
	}

	f.Keypoints[0].Score = math.NaN()
	if _, ok := f.RightWrist(); ok {
		t.Error("Expected a wrist without confidence to be unusable")
	}
	if _, ok := (Frame{}).RightWrist(); ok {
		t.Error("Expected an empty frame to have no wrist")
	}
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + PosePath
}

func waitFor(t *testing.T, feed *Feed) (pose.Keypoint, bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		kp, ok, err := feed.EstimateOnce(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			return kp, true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return pose.Keypoint{}, false
}

func TestFeedDeliversEachSampleOnce(t *testing.T) {
	feed := NewFeed()
	server := httptest.NewServer(feed)
	defer server.Close()

	ctx := context.Background()
	client, err := Dial(ctx, wsURL(server))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, ok, _ := feed.EstimateOnce(ctx); ok {
		t.Fatal("Expected no sample before any frame arrived")
	}

	err = client.Send(Frame{Keypoints: []pose.Keypoint{{Name: pose.RightWrist, X: 0.2, Y: 0.7, Score: 0.9}}})
	if err != nil {
		t.Fatal(err)
	}
	kp, ok := waitFor(t, feed)
	if !ok || kp.Y != 0.7 {
		t.Fatalf("Expected wrist y 0.7, got %+v ok=%v", kp, ok)
	}
	if _, ok, _ := feed.EstimateOnce(ctx); ok {
		t.Error("Expected the same sample not to be handed out twice")
	}
	if feed.Clients() != 1 {
		t.Errorf("Expected 1 connected client, got %d", feed.Clients())
	}
}

func TestStreamForwardsSource(t *testing.T) {
	feed := NewFeed()
	server := httptest.NewServer(feed)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client, err := Dial(ctx, wsURL(server))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	go Stream(ctx, client, pose.NewSynthetic(3), time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for feed.Frames() < 10 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if feed.Frames() < 10 {
		t.Fatalf("Expected streamed frames, got %d", feed.Frames())
	}
	kp, ok := waitFor(t, feed)
	if !ok || kp.Name != pose.RightWrist {
		t.Errorf("Expected a streamed wrist sample, got %+v", kp)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, NewFeed()) }()

	client, err := Dial(context.Background(), "ws://"+ln.Addr().String()+PosePath)
	if err != nil {
		t.Fatalf("Expected to reach the feed, got %v", err)
	}
	client.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Expected Serve to return after cancel")
	}
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws://127.0.0.1:1/pose"); err == nil {
		t.Error("Expected dial to a closed port to fail")
	}
}
