// Package demo wires a handful of wsrpc channels and actions that exercise
// every corner of the core: a broadcast channel with an initial send, a
// coercing action, a multi-level dependency chain, a RequiredOnSubscribe
// gate, and a channel fed from a background tick source. It exists so
// cmd/server has something real to serve.
package demo

import (
	"context"

	"github.com/aumbhatt/wsrpc/internal/wsrpc"
)

// ChatMessage is both the channel's broadcast payload and the shape its fn
// is called with.
type ChatMessage struct {
	Message string `json:"message"`
}

// RegisterChat mirrors the "Simple subscribe+broadcast" scenario: a
// defaultResponse channel that sends "Welcome" on subscribe and whatever
// the caller passes on a later Broadcast.
func RegisterChat(app *wsrpc.App) *wsrpc.ChannelHandler[ChatMessage, ChatMessage] {
	return wsrpc.MustChannel(app, "chat", true, nil, func(ctx context.Context, p ChatMessage) (ChatMessage, error) {
		if p.Message == "" {
			p.Message = "Welcome"
		}
		return p, nil
	})
}
