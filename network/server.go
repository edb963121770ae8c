package network

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/luca-patrignani/sabacc/ledger"
)

// Server exposes a Hub over HTTP.
type Server struct {
	hub       *Hub
	history   *ledger.Blockchain
	log       *slog.Logger
	tlsConfig *tls.Config
	timeout   time.Duration
	upgrader  websocket.Upgrader
	server    *http.Server
}

type ServerOption func(*Server)

// WithTimeout bounds reading request headers and writing plain HTTP
// responses. WebSocket streams are not affected.
func WithTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) { s.timeout = timeout }
}

// WithCertificate serves over TLS with cert.
func WithCertificate(cert tls.Certificate) ServerOption {
	return func(s *Server) {
		if s.tlsConfig == nil {
			s.tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		s.tlsConfig.Certificates = append(s.tlsConfig.Certificates, cert)
	}
}

// WithHistory serves the blocks of bc on /api/history.
func WithHistory(bc *ledger.Blockchain) ServerOption {
	return func(s *Server) { s.history = bc }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// NewServer builds the router for hub.
func NewServer(hub *Hub, opts ...ServerOption) *Server {
	s := &Server{
		hub:     hub,
		log:     slog.Default(),
		timeout: 10 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.timeout,
		TLSConfig:         s.tlsConfig,
	}
	return s
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Get("/health", s.health)
		r.Get("/snapshot", s.snapshot)
		r.Get("/history", s.historyBlocks)
	})
	r.Get("/ws", s.serveWs)
	return r
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	if s.tlsConfig != nil {
		l = tls.NewListener(l, s.tlsConfig)
	}
	s.log.Info("spectator server listening", "addr", l.Addr().String(), "tls", s.tlsConfig != nil)
	err := s.server.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "spectators": s.hub.Clients()})
}

func (s *Server) snapshot(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.hub.Snapshot()
	if !ok {
		http.Error(w, "no hand yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) historyBlocks(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	if hand := r.URL.Query().Get("hand"); hand != "" {
		entries := s.history.Hand(hand)
		if len(entries) == 0 {
			http.Error(w, "unknown hand", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}
	writeJSON(w, http.StatusOK, s.history.Blocks())
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := newClient(s.hub, conn)
	if !s.hub.join(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
