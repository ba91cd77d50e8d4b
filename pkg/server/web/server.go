package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/easytempinbox/easytempinbox/pkg/config"
)

// Router is shared with the rest package, which registers its routes on it.
var Router = mux.NewRouter()

var (
	server         *http.Server
	listener       net.Listener
	globalShutdown chan bool
)

// Start begins listening for HTTP requests.
func Start(ctx context.Context, cfg config.Web, shutdownChan chan bool) {
	globalShutdown = shutdownChan
	Router.NotFoundHandler = noMatchHandler(http.StatusNotFound, "No route matches URI")
	Router.MethodNotAllowedHandler = noMatchHandler(http.StatusMethodNotAllowed, "Method not allowed for URI")
	server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      requestLoggingWrapper(Router),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Not using ListenAndServe because it lacks a way to close the listener.
	log.Info().Str("module", "web").Str("addr", cfg.Addr).Msg("HTTP listening")
	var err error
	listener, err = net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Error().Str("module", "web").Err(err).Msg("HTTP failed to start listener")
		emergencyShutdown()
		return
	}
	go serve(ctx)

	<-ctx.Done()
	log.Debug().Str("module", "web").Msg("HTTP server shutting down on request")
	if err := listener.Close(); err != nil {
		log.Error().Str("module", "web").Err(err).Msg("Failed to close HTTP listener")
	}
}

// serve begins serving HTTP requests, blocking until the listener closes.
func serve(ctx context.Context) {
	err := server.Serve(listener)
	select {
	case <-ctx.Done():
		// Nop
	default:
		log.Error().Str("module", "web").Err(err).Msg("HTTP server failed")
		emergencyShutdown()
	}
}

func emergencyShutdown() {
	select {
	case <-globalShutdown:
	default:
		close(globalShutdown)
	}
}
