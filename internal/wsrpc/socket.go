package wsrpc

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Socket is an opaque connection handle, owned by the transport, that the
// core references only by identity and through SendJSON/Close (spec.md §3).
// Equality (for subscription-set membership) is pointer identity of the
// concrete implementation behind the interface.
type Socket interface {
	// ID returns a stable identifier for logging; it carries no protocol
	// meaning.
	ID() string

	// SendJSON marshals v and writes it to the peer. An error here is the
	// sole trigger for the socket's eviction from every subscription set
	// (spec.md §4.4, sendJsonSafe).
	SendJSON(v any) error

	// Close closes the underlying connection.
	Close() error
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 256
)

// wsSocket wraps a *gorilla/websocket.Conn the way the teacher's Client
// does: a buffered outbound queue drained by one writer goroutine, so a
// socket's own frame ordering is preserved regardless of which goroutine
// queued them (spec.md §5, per-socket ordering).
type wsSocket struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
	log    *slog.Logger
}

func newWSSocket(conn *websocket.Conn, log *slog.Logger) *wsSocket {
	id := uuid.New().String()
	return &wsSocket{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
		log:    log.With(slog.String("socket_id", id)),
	}
}

func (s *wsSocket) ID() string { return s.id }

func (s *wsSocket) SendJSON(v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return err
	}
	select {
	case s.send <- data:
		return nil
	case <-s.closed:
		return errClosedSocket
	}
}

func (s *wsSocket) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return s.conn.Close()
}

// writePump is the socket's single writer goroutine (teacher's
// Client.writePump), draining send in FIFO order and pinging on idle.
func (s *wsSocket) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debug("write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closed:
			return
		}
	}
}

// readPump reads frames off the connection and hands each to handle, until
// the connection errors out or handle asks to stop. It mirrors the
// teacher's Client.readPump, generalized to the core's frame shape.
func (s *wsSocket) readPump(ctx context.Context, handle func(ctx context.Context, raw []byte) bool) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if !handle(ctx, raw) {
			return
		}
	}
}

// upgrader mirrors the teacher's internal/websocket upgrader configuration.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}
