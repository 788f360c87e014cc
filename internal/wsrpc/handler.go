package wsrpc

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/aumbhatt/wsrpc/internal/wsrpc/validate"
)

// NoReply is the return type for actions that produce no data payload
// (spec.md §4.3, "augmented with data: <return> when the return value is
// not null/undefined"). Use func(ctx, P) (wsrpc.NoReply, error) to signal
// that a completed action should omit the data field entirely.
type NoReply struct{}

var noReplyType = reflect.TypeOf(NoReply{})

// boundHandler is the minimum every registered handler exposes to the
// Manager, regardless of its type-erased params/return types.
type boundHandler interface {
	Name() string
}

// channelHandler is the Manager's type-erased view of a ChannelHandler.
type channelHandler interface {
	boundHandler
	DefaultResponse() bool
	// sendInitialData validates data under onSubscribe=true, invokes the
	// wrapped function, and sends exactly one data frame to socket
	// (spec.md §4.2). A validation failure is reported as an error frame
	// to socket; the caller has already committed the subscribe.
	sendInitialData(ctx context.Context, socket Socket, data map[string]any)
	bindManager(m *Manager)
}

// actionHandler is the Manager's type-erased view of an ActionHandler.
type actionHandler interface {
	boundHandler
	// invoke validates data under onSubscribe=false and either replies
	// with an error frame or calls the wrapped function and replies with
	// the completion frame (spec.md §4.3).
	invoke(ctx context.Context, socket Socket, data map[string]any)
	bindManager(m *Manager)
}

// ChannelHandler wraps a user function as a named pub/sub topic. P is the
// params struct consumed on subscribe (for RequiredOnSubscribe fields); R
// is the broadcast payload type.
type ChannelHandler[P, R any] struct {
	name            string
	defaultResponse bool
	schema          *validate.Schema
	fn              func(ctx context.Context, p P) (R, error)
	manager         *Manager
	log             *slog.Logger
}

func newChannelHandler[P, R any](name string, defaultResponse bool, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) *ChannelHandler[P, R] {
	return &ChannelHandler[P, R]{
		name:            name,
		defaultResponse: defaultResponse,
		schema:          validate.BuildSchema[P](deps),
		fn:              fn,
	}
}

func (h *ChannelHandler[P, R]) Name() string          { return h.name }
func (h *ChannelHandler[P, R]) DefaultResponse() bool { return h.defaultResponse }

func (h *ChannelHandler[P, R]) bindManager(m *Manager) {
	h.manager = m
	h.log = m.log.With(slog.String("channel", h.name))
}

// Broadcast is the user-facing invocation described in spec.md §4.2:
// "invoke(args…) — user-facing broadcast trigger". It runs the wrapped
// function once and fans the result out to every socket currently
// subscribed, over a snapshot of the subscriber set.
func (h *ChannelHandler[P, R]) Broadcast(ctx context.Context, p P) (R, error) {
	result, err := h.fn(ctx, p)
	if err != nil {
		var zero R
		return zero, err
	}
	if h.manager != nil {
		h.manager.fanOut(h.name, result)
	}
	return result, nil
}

func (h *ChannelHandler[P, R]) sendInitialData(ctx context.Context, socket Socket, data map[string]any) {
	if !h.defaultResponse {
		return
	}

	args, err := validate.Validate(ctx, h.name, h.schema, data, true)
	if err != nil {
		h.manager.errorTo(socket, fmt.Sprintf("Invalid parameters for action '%s'", h.name))
		return
	}

	var p P
	if err := validate.DecodeInto(args, &p); err != nil {
		h.manager.errorTo(socket, fmt.Sprintf("Invalid parameters for action '%s'", h.name))
		return
	}

	result, err := h.fn(ctx, p)
	if err != nil {
		h.log.Error("channel handler failed on initial send", slog.String("error", err.Error()))
		return
	}

	h.manager.sendJSONSafe(socket, dataFrame{Type: FrameData, Channel: h.name, Data: result})
}

// ActionHandler wraps a user function as a named RPC procedure. P is the
// params struct validated against the action's request; R is the result
// type (use NoReply for actions with no meaningful return value). A nil
// result (nil interface, pointer, map or slice) also omits data.
type ActionHandler[P, R any] struct {
	name    string
	schema  *validate.Schema
	fn      func(ctx context.Context, p P) (R, error)
	manager *Manager
	log     *slog.Logger
}

func newActionHandler[P, R any](name string, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) *ActionHandler[P, R] {
	return &ActionHandler[P, R]{
		name:   name,
		schema: validate.BuildSchema[P](deps),
		fn:     fn,
	}
}

func (h *ActionHandler[P, R]) Name() string { return h.name }

func (h *ActionHandler[P, R]) bindManager(m *Manager) {
	h.manager = m
	h.log = m.log.With(slog.String("action", h.name))
}

// Call lets server-side code invoke an action directly instead of through
// the dispatcher, without touching any socket.
func (h *ActionHandler[P, R]) Call(ctx context.Context, p P) (R, error) {
	return h.fn(ctx, p)
}

func (h *ActionHandler[P, R]) invoke(ctx context.Context, socket Socket, data map[string]any) {
	args, err := validate.Validate(ctx, h.name, h.schema, data, false)
	if err != nil {
		h.manager.errorTo(socket, fmt.Sprintf("Invalid parameters for action '%s'", h.name))
		return
	}

	var p P
	if err := validate.DecodeInto(args, &p); err != nil {
		h.manager.errorTo(socket, fmt.Sprintf("Invalid parameters for action '%s'", h.name))
		return
	}

	result, err := h.fn(ctx, p)
	if err != nil {
		// User-function error: logged and swallowed, not surfaced as a
		// wire error (spec.md §7, "should log and continue").
		h.log.Error("action handler failed", slog.String("error", err.Error()))
		return
	}

	reply := actionReplyFrame{Type: FrameActionReply, Channel: h.name, Status: "completed"}
	rv := reflect.ValueOf(any(result))
	omit := !rv.IsValid() || rv.Type() == noReplyType
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		omit = omit || rv.IsNil()
	}
	if !omit {
		reply.Data = result
	}
	h.manager.sendJSONSafe(socket, reply)
}
