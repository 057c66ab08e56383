package netwrk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"motionpong/internal/pose"
)

// Client streams pose frames to a Feed.
type Client struct {
	ID   string
	conn *websocket.Conn
}

func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to pose feed %s: %w", url, err)
	}
	return &Client{ID: uuid.NewString(), conn: conn}, nil
}

func (c *Client) Send(frame Frame) error {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, MarshalFrame(frame)); err != nil {
		return fmt.Errorf("writing pose frame: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}

// Stream polls src every interval and forwards every estimate, including
// empty ones, until ctx is done or the connection fails.
func Stream(ctx context.Context, c *Client, src pose.Source, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame := Frame{TimestampMs: time.Now().UnixMilli()}
		kp, ok, err := src.EstimateOnce(ctx)
		if err != nil {
			slog.Debug("pose source failed", slog.Any("error", err))
		}
		if ok {
			frame.Keypoints = []pose.Keypoint{kp}
		}
		if err := c.Send(frame); err != nil {
			return err
		}
	}
}
