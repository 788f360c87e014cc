package demo

import (
	"context"

	"github.com/aumbhatt/wsrpc/internal/wsrpc"
)

// SimpleActionParams is the "Action with coercion" scenario's params: a
// single integer field, exercising the validator's numeric-string
// coercion (spec.md §8 scenario 2, client sends "x":"5").
type SimpleActionParams struct {
	X int `json:"x"`
}

// RegisterSimpleAction registers an action that increments X by one, so a
// successful call with x=5 replies with data: 6.
func RegisterSimpleAction(app *wsrpc.App) *wsrpc.ActionHandler[SimpleActionParams, int] {
	return wsrpc.MustAction(app, "simple_action", nil, func(ctx context.Context, p SimpleActionParams) (int, error) {
		return p.X + 1, nil
	})
}
