package wsrpc

import (
	"context"
	"sync/atomic"

	"github.com/aumbhatt/wsrpc/internal/wsrpc/validate"
)

// routerEntry is bound into a concrete App at IncludeRouter time.
type routerEntry interface {
	bindToApp(app *App) error
}

// Router is a detached registration surface (spec.md §4.6): handlers
// declared on a Router exist before any App does, and are bound to a real
// Manager only when the App includes the router.
type Router struct {
	entries []routerEntry
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{}
}

// ChannelRef is the "handler reference" of design note §9: a forwarder
// whose target is rebound from the bare user function to the real bound
// handler at include time, while preserving the identity returned from
// RouterChannel at declaration time.
type ChannelRef[P, R any] struct {
	name            string
	defaultResponse bool
	deps            *validate.DependencySet
	bare            func(context.Context, P) (R, error)
	bound           atomic.Pointer[ChannelHandler[P, R]]
}

// RouterChannel declares a channel on router, returning a reference usable
// immediately (as a bare function call) and, after the owning App includes
// router, as a full broadcasting handler.
func RouterChannel[P, R any](router *Router, name string, defaultResponse bool, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) *ChannelRef[P, R] {
	ref := &ChannelRef[P, R]{name: name, defaultResponse: defaultResponse, deps: deps, bare: fn}
	router.entries = append(router.entries, ref)
	return ref
}

// Broadcast calls through to the bound handler once the router has been
// included; before inclusion it invokes the bare user function with no
// broadcast side effect (design note §9).
func (r *ChannelRef[P, R]) Broadcast(ctx context.Context, p P) (R, error) {
	if h := r.bound.Load(); h != nil {
		return h.Broadcast(ctx, p)
	}
	return r.bare(ctx, p)
}

func (r *ChannelRef[P, R]) bindToApp(app *App) error {
	h, err := Channel(app, r.name, r.defaultResponse, r.deps, r.bare)
	if err != nil {
		return err
	}
	r.bound.Store(h)
	return nil
}

// ActionRef is the action-handler counterpart of ChannelRef.
type ActionRef[P, R any] struct {
	name  string
	deps  *validate.DependencySet
	bare  func(context.Context, P) (R, error)
	bound atomic.Pointer[ActionHandler[P, R]]
}

// RouterAction declares an action on router.
func RouterAction[P, R any](router *Router, name string, deps *validate.DependencySet, fn func(context.Context, P) (R, error)) *ActionRef[P, R] {
	ref := &ActionRef[P, R]{name: name, deps: deps, bare: fn}
	router.entries = append(router.entries, ref)
	return ref
}

// Call invokes the bound handler once included, or the bare function
// before that.
func (r *ActionRef[P, R]) Call(ctx context.Context, p P) (R, error) {
	if h := r.bound.Load(); h != nil {
		return h.Call(ctx, p)
	}
	return r.bare(ctx, p)
}

func (r *ActionRef[P, R]) bindToApp(app *App) error {
	h, err := Action(app, r.name, r.deps, r.bare)
	if err != nil {
		return err
	}
	r.bound.Store(h)
	return nil
}

// IncludeRouter binds every entry collected on router to app's Manager
// (spec.md §4.6, "includeRouter(router)"). It is not safe to include the
// same router into more than one App.
func (a *App) IncludeRouter(router *Router) error {
	for _, e := range router.entries {
		if err := e.bindToApp(a); err != nil {
			return err
		}
	}
	return nil
}
