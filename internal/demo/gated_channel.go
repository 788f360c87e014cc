package demo

import (
	"context"

	"github.com/aumbhatt/wsrpc/internal/wsrpc"
)

// TokenParams is the "RequiredOnSubscribe gating" scenario's params
// (spec.md §8 scenario 4): a single field that must be present, and must
// be a string, before a subscribe is honored.
type TokenParams struct {
	Token string `json:"token" ws:"required_on_subscribe"`
}

// TokenGreeting is the payload sent back once a subscribe's token passes
// validation.
type TokenGreeting struct {
	Greeting string `json:"greeting"`
}

// RegisterGatedChannel registers the gated channel "c".
func RegisterGatedChannel(app *wsrpc.App) *wsrpc.ChannelHandler[TokenParams, TokenGreeting] {
	return wsrpc.MustChannel(app, "c", true, nil, func(ctx context.Context, p TokenParams) (TokenGreeting, error) {
		return TokenGreeting{Greeting: "hello, holder of " + p.Token}, nil
	})
}
