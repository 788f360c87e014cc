package wsrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"
)

// Dispatcher accepts WebSocket connections and routes inbound frames to
// the Manager (spec.md §4.5). It is stateless per message — all state
// lives in the Manager.
type Dispatcher struct {
	manager *Manager
	log     *slog.Logger
}

// NewDispatcher builds a Dispatcher bound to manager.
func NewDispatcher(manager *Manager, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = manager.log
	}
	return &Dispatcher{manager: manager, log: log.With(slog.String("component", "dispatcher"))}
}

// ServeHTTP upgrades the request to a WebSocket connection and runs the
// per-connection dispatch loop until the client disconnects.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrade(w, r)
	if err != nil {
		d.log.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	socket := newWSSocket(conn, d.log)
	go socket.writePump()

	ctx := r.Context()
	socket.readPump(ctx, func(ctx context.Context, raw []byte) bool {
		d.Dispatch(ctx, socket, raw)
		return true
	})

	// Transport disconnect: release all subscription state (spec.md §4.5
	// step 5, §5 "on disconnect, all subscription state ... is released
	// before the dispatcher task exits").
	d.manager.UnsubscribeAll(socket)
	socket.Close()
}

// Dispatch implements spec.md §4.5 steps 3-4 for a single inbound frame:
// envelope validation then dispatch on type. It is exported so tests (and
// non-HTTP transports) can drive the dispatcher against a fake Socket
// without going through net/http and gorilla/websocket.
func (d *Dispatcher) Dispatch(ctx context.Context, socket Socket, raw []byte) {
	// Cheap presence check before a full unmarshal (grounds the envelope
	// check in bjaus-dispatch's Discriminator/View pattern: detect a
	// missing field without paying for the full decode).
	if !gjson.GetBytes(raw, "type").Exists() {
		d.manager.errorTo(socket, "Message type is required.")
		return
	}
	if !gjson.GetBytes(raw, "channel").Exists() {
		d.manager.errorTo(socket, "Channel is required.")
		return
	}

	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		d.manager.errorTo(socket, "Message type is required.")
		return
	}

	var data map[string]any
	if len(frame.Data) > 0 {
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			data = map[string]any{}
		}
	}
	if data == nil {
		data = map[string]any{}
	}

	switch frame.Type {
	case FrameSubscribe:
		d.manager.Subscribe(ctx, frame.Channel, socket, data)
	case FrameUnsubscribe:
		d.manager.Unsubscribe(socket, frame.Channel)
	case FrameAction:
		d.manager.Action(ctx, frame.Channel, socket, data)
	default:
		d.manager.errorTo(socket, fmt.Sprintf("Unknown message type: %s.", frame.Type))
	}
}
