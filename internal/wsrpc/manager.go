package wsrpc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// channelEntry is a channel's handler plus its live subscriber set
// (spec.md §3, "Channel"). Its own mutex is always acquired after the
// Manager's lock has been released for the lookup (spec.md §5 lock
// ordering), and is never held across a user-function invocation.
type channelEntry struct {
	handler channelHandler
	mu      sync.Mutex
	sockets map[Socket]struct{}
}

// Manager owns the set of channels, the set of actions, and the sockets
// subscribed to each channel (spec.md §4.4). It is the sole mutator of
// subscription state; user code never touches it directly.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]*channelEntry
	actions  map[string]actionHandler
	log      *slog.Logger
}

// NewManager creates an empty Manager. log may be nil, in which case a
// discarding logger is used.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		channels: make(map[string]*channelEntry),
		actions:  make(map[string]actionHandler),
		log:      log.With(slog.String("component", "manager")),
	}
}

func (m *Manager) nameTaken(name string) bool {
	if _, ok := m.channels[name]; ok {
		return true
	}
	if _, ok := m.actions[name]; ok {
		return true
	}
	return false
}

// createChannel registers a channel handler. Not callable at runtime —
// only from App.Channel/Router binding, at startup (spec.md §4.4).
func (m *Manager) createChannel(h channelHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(h.Name()) {
		return &RegistrationError{Name: h.Name()}
	}

	h.bindManager(m)
	m.channels[h.Name()] = &channelEntry{handler: h, sockets: make(map[Socket]struct{})}
	m.log.Info("channel registered", slog.String("channel", h.Name()))
	return nil
}

// createAction registers an action handler. Same startup-only contract as
// createChannel.
func (m *Manager) createAction(h actionHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(h.Name()) {
		return &RegistrationError{Name: h.Name()}
	}

	h.bindManager(m)
	m.actions[h.Name()] = h
	m.log.Info("action registered", slog.String("action", h.Name()))
	return nil
}

// Subscribe implements spec.md §4.4's subscribe(channel, socket, data).
func (m *Manager) Subscribe(ctx context.Context, channel string, socket Socket, data map[string]any) {
	m.mu.RLock()
	entry, ok := m.channels[channel]
	m.mu.RUnlock()

	if !ok {
		m.errorTo(socket, fmt.Sprintf("Channel '%s' not found.", channel))
		return
	}

	entry.mu.Lock()
	entry.sockets[socket] = struct{}{}
	entry.mu.Unlock()

	m.sendJSONSafe(socket, subscribedFrame{Type: FrameSubscribed, Channel: channel})
	entry.handler.sendInitialData(ctx, socket, data)
}

// Unsubscribe implements spec.md §4.4's unsubscribe(channel, socket):
// removing a socket that was never subscribed, or unsubscribing from an
// unknown channel, are both silent no-ops on state but the acknowledgement
// is always sent (spec.md §9, Open Question resolved).
func (m *Manager) Unsubscribe(socket Socket, channel string) {
	m.mu.RLock()
	entry, ok := m.channels[channel]
	m.mu.RUnlock()

	if ok {
		entry.mu.Lock()
		delete(entry.sockets, socket)
		entry.mu.Unlock()
	}

	m.sendJSONSafe(socket, unsubscribedFrame{Type: FrameUnsubscribed, Channel: channel})
}

// Action implements spec.md §4.4's action(name, socket, data).
func (m *Manager) Action(ctx context.Context, name string, socket Socket, data map[string]any) {
	m.mu.RLock()
	h, ok := m.actions[name]
	m.mu.RUnlock()

	if !ok {
		m.errorTo(socket, fmt.Sprintf("Action '%s' not found.", name))
		return
	}

	h.invoke(ctx, socket, data)
}

// UnsubscribeAll removes socket from every channel's subscription set. It
// is called on transport disconnect and is the only other caller besides
// sendJSONSafe's send-failure path (spec.md §4.4).
func (m *Manager) UnsubscribeAll(socket Socket) {
	m.mu.RLock()
	entries := make([]*channelEntry, 0, len(m.channels))
	for _, e := range m.channels {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		delete(e.sockets, socket)
		e.mu.Unlock()
	}
}

// fanOut broadcasts payload to every socket currently subscribed to
// channel, over a snapshot of the subscriber set taken under the entry's
// lock (spec.md §5, "snapshot fan-out"); the lock is released before any
// send is attempted, so no lock is held across I/O.
func (m *Manager) fanOut(channel string, payload any) {
	m.mu.RLock()
	entry, ok := m.channels[channel]
	m.mu.RUnlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	snapshot := make([]Socket, 0, len(entry.sockets))
	for s := range entry.sockets {
		snapshot = append(snapshot, s)
	}
	entry.mu.Unlock()

	frame := dataFrame{Type: FrameData, Channel: channel, Data: payload}
	for _, s := range snapshot {
		m.sendJSONSafe(s, frame)
	}
}

// socketsFor returns a snapshot of the sockets subscribed to channel, for
// in-package tests and introspection. It does not mutate state.
func (m *Manager) socketsFor(channel string) []Socket {
	m.mu.RLock()
	entry, ok := m.channels[channel]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	out := make([]Socket, 0, len(entry.sockets))
	for s := range entry.sockets {
		out = append(out, s)
	}
	return out
}

// errorTo composes an error frame and sends it (spec.md §4.4, error()).
func (m *Manager) errorTo(socket Socket, message string) {
	m.sendJSONSafe(socket, errorFrame{Type: FrameError, Message: message})
}

// sendJSONSafe is the sole mechanism by which dead sockets are reaped
// (spec.md §4.4): any send exception evicts the socket from every
// subscription set and is swallowed.
func (m *Manager) sendJSONSafe(socket Socket, obj any) {
	if err := socket.SendJSON(obj); err != nil {
		m.log.Debug("send failed, evicting socket", slog.String("socket_id", socket.ID()), slog.String("error", err.Error()))
		m.UnsubscribeAll(socket)
	}
}
