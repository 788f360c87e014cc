// Command server runs the wsrpc demo application: a single WebSocket
// endpoint exposing a chat channel, a coercing action, a nested-dependency
// action chain, a RequiredOnSubscribe-gated channel, and a ticks channel
// driven by a background mock tick source.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aumbhatt/wsrpc/internal/config"
	"github.com/aumbhatt/wsrpc/internal/demo"
	"github.com/aumbhatt/wsrpc/internal/httpapi"
	"github.com/aumbhatt/wsrpc/internal/wsrpc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.NewDefaultConfig()
	log := cfg.NewLogger()

	app := wsrpc.NewApp(log)

	demo.RegisterChat(app)
	demo.RegisterSimpleAction(app)
	demo.RegisterGatedChannel(app)
	demo.RegisterTicks(ctx, app, demo.NewMockTickSource(), 2*time.Second, log)

	router, _ := demo.RegisterNestedDependencyChain()
	if err := app.IncludeRouter(router); err != nil {
		log.Error("failed to include router", slog.String("error", err.Error()))
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", app)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpapi.CORSMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("server starting", slog.Int("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", slog.String("error", err.Error()))
	}
}
