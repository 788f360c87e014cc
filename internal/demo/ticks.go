package demo

import (
	"context"
	"log/slog"
	"time"

	"github.com/aumbhatt/wsrpc/internal/models"
	"github.com/aumbhatt/wsrpc/internal/source"
	"github.com/aumbhatt/wsrpc/internal/source/mock"
	"github.com/aumbhatt/wsrpc/internal/wsrpc"
)

// TickSubscribeParams is empty: the ticks channel takes no subscribe-time
// arguments, it just starts the stream.
type TickSubscribeParams struct{}

// RegisterTicks wires a channel fed by a background goroutine pulling from
// source.TickSource (the teacher's own tick-generation interface,
// repurposed here as the producer behind a pub/sub channel instead of the
// teacher's bespoke hub broadcast). Supplements spec.md's scenarios with a
// genuinely asynchronous, server-driven channel rather than one only ever
// triggered by an explicit Broadcast call.
func RegisterTicks(ctx context.Context, app *wsrpc.App, src source.TickSource, interval time.Duration, log *slog.Logger) *wsrpc.ChannelHandler[TickSubscribeParams, *models.Tick] {
	h := wsrpc.MustChannel(app, "ticks", false, nil, func(ctx context.Context, p TickSubscribeParams) (*models.Tick, error) {
		return src.GetTick()
	})

	go runTickLoop(ctx, h, interval, log)
	return h
}

func runTickLoop(ctx context.Context, h *wsrpc.ChannelHandler[TickSubscribeParams, *models.Tick], interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := h.Broadcast(ctx, TickSubscribeParams{}); err != nil {
				log.Error("tick broadcast failed", slog.String("error", err.Error()))
			}
		}
	}
}

// NewMockTickSource is a thin re-export so callers outside this package
// don't need to know the mock source lives under internal/source/mock.
func NewMockTickSource() source.TickSource {
	return mock.NewMockTickSource()
}
