package wsrpc

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aumbhatt/wsrpc/internal/wsrpc/validate"
)

// App is the declarative registration surface described in spec.md §4.6:
// channel(name, defaultResponse) and action(name) register directly
// against the app's Manager.
type App struct {
	Manager    *Manager
	Dispatcher *Dispatcher
	log        *slog.Logger
}

// NewApp creates an App with a fresh Manager and Dispatcher. log may be
// nil.
func NewApp(log *slog.Logger) *App {
	m := NewManager(log)
	return &App{
		Manager:    m,
		Dispatcher: NewDispatcher(m, log),
		log:        m.log,
	}
}

// ServeHTTP exposes the app's single WebSocket endpoint.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Dispatcher.ServeHTTP(w, r)
}

// Channel registers a channel handler directly against app (spec.md §4.6,
// "channel(name, defaultResponse=true)"). Go's lack of generic methods on
// a fixed receiver means this is a package-level generic function taking
// the App first, the same shape bjaus-dispatch's Register[T](r, key, h)
// uses for the same reason.
func Channel[P, R any](app *App, name string, defaultResponse bool, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) (*ChannelHandler[P, R], error) {
	h := newChannelHandler[P, R](name, defaultResponse, deps, fn)
	if err := app.Manager.createChannel(h); err != nil {
		return nil, err
	}
	return h, nil
}

// MustChannel is Channel but panics on a registration error, matching
// spec.md §7: "Registration error: duplicate name. Fatal at startup."
func MustChannel[P, R any](app *App, name string, defaultResponse bool, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) *ChannelHandler[P, R] {
	h, err := Channel(app, name, defaultResponse, deps, fn)
	if err != nil {
		panic(err)
	}
	return h
}

// Action registers an action handler directly against app (spec.md §4.6,
// "action(name)").
func Action[P, R any](app *App, name string, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) (*ActionHandler[P, R], error) {
	h := newActionHandler[P, R](name, deps, fn)
	if err := app.Manager.createAction(h); err != nil {
		return nil, err
	}
	return h, nil
}

// MustAction is Action but panics on a registration error.
func MustAction[P, R any](app *App, name string, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) *ActionHandler[P, R] {
	h, err := Action(app, name, deps, fn)
	if err != nil {
		panic(err)
	}
	return h
}
