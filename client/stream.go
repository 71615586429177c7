package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// ErrStreamReset is returned by Watch when the server could not replay the
// requested events. Fetch a fresh snapshot and watch again from zero.
var ErrStreamReset = errors.New("algocanvas: event stream reset")

// EventHandler receives each stream event. Returning an error stops Watch.
type EventHandler func(Event) error

// Watch subscribes to a session's event stream and calls fn for every event
// until ctx is cancelled, the session closes, or fn returns an error. Events
// after lastEventID are replayed first when the server still buffers them.
func (c *Client) Watch(ctx context.Context, sessionID string, lastEventID uint64, fn EventHandler) error {
	u := wsURL(c.baseURL) + sessionPath(sessionID, "/ws")

	conn, _, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u, err)
	}
	defer conn.CloseNow() //nolint:errcheck

	conn.SetReadLimit(1 << 22)

	if lastEventID > 0 {
		sub := map[string]any{"type": "subscribe", "last_event_id": lastEventID}
		if err := wsjson.Write(ctx, conn, sub); err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}
	}

	for {
		var ev Event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		switch ev.Type {
		case "reset":
			return ErrStreamReset
		case "closed":
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
			return nil
		}

		if err := fn(ev); err != nil {
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
			return err
		}
	}
}

// DecodeData unmarshals an event's payload into v.
func (e Event) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %q has no data", e.Type)
	}
	return json.Unmarshal(e.Data, v)
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
