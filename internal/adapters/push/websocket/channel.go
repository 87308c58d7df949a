package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/rocketvote/pollsync/internal/core/ports"
)

// Channel subscribes to the per-poll push endpoint (ws://host/ws/{id}).
// Messages are pure invalidation signals; the reader goroutine closes
// the notification channel on any read error, which is the session's
// cue to fall back to polling.
type Channel struct {
	baseURL string
	dialer  *websocket.Dialer
}

var _ ports.LiveUpdateSource = (*Channel)(nil)

func NewChannel(baseURL string) *Channel {
	return &Channel{
		baseURL: strings.TrimRight(baseURL, "/"),
		dialer:  websocket.DefaultDialer,
	}
}

func (c *Channel) Subscribe(ctx context.Context, pollID string) (<-chan ports.Notification, error) {
	url := c.baseURL + "/" + pollID
	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial push channel %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	notifications := make(chan ports.Notification, 8)

	// close the connection when the view goes inactive so the read
	// loop unblocks and exits
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(notifications)
		for {
			var n ports.Notification
			if err := conn.ReadJSON(&n); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					slog.Warn("push channel read failed", "poll_id", pollID, "error", err)
				}
				return
			}
			select {
			case notifications <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	return notifications, nil
}
