// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.mau.fi/util/exhttp"
)

const healthBanner = "✅ Telegram Channel Manager Bot is running."

// HealthServer answers liveness probes from the hosting platform.
type HealthServer struct {
	server  *http.Server
	started time.Time
	log     zerolog.Logger
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// NewHealthServer creates a server listening on addr.
func NewHealthServer(addr string, log zerolog.Logger) *HealthServer {
	h := &HealthServer{
		started: time.Now(),
		log:     log.With().Str("component", "health").Logger(),
	}
	h.server = &http.Server{
		Addr:         addr,
		Handler:      h.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return h
}

// Handler returns the health routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleBanner)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return mux
}

func (h *HealthServer) handleBanner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(healthBanner))
}

func (h *HealthServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	exhttp.WriteJSONResponse(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// Start serves in the background until Shutdown.
func (h *HealthServer) Start() {
	go func() {
		h.log.Info().Str("addr", h.server.Addr).Msg("Starting health server")
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Error().Err(err).Msg("Health server error")
		}
	}()
}

// Shutdown stops the server.
func (h *HealthServer) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}
