// Package gateway is the HTTP edge: it accepts inbound message webhooks and
// pushes outbound payloads to a configured sink. It contains no conversation
// logic.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/chat"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Config holds the HTTP edge settings.
type Config struct {
	Addr    string `envconfig:"HTTP_ADDR" default:":8080"`
	SinkURL string `envconfig:"SINK_URL"`
}

// Handler consumes inbound chat messages; the bot engine satisfies it.
type Handler interface {
	Handle(ctx context.Context, msg chat.Message)
}

// Server receives inbound messages over HTTP.
type Server struct {
	handler Handler
	addr    string
}

func NewServer(cfg Config, handler Handler) *Server {
	return &Server{handler: handler, addr: cfg.Addr}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/webhook", s.handleWebhook)

	return r
}

// ListenAndServe blocks serving the router until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logx.Info().Str("addr", s.addr).Msg("gateway listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var msg chat.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid message payload", http.StatusBadRequest)
		return
	}
	if msg.SenderID == "" {
		http.Error(w, "sender_id is required", http.StatusBadRequest)
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	// Handling runs detached from the webhook request; per-user ordering is
	// the engine's concern, not the HTTP layer's.
	go s.handler.Handle(context.Background(), msg)

	w.WriteHeader(http.StatusAccepted)
}
