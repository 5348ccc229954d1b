// ABOUTME: HTTP transport for the dialogue boundary
// ABOUTME: Accepts (conversation_id, message) turns and returns the bot's reply

package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// Responder is the slice of the dialogue engine the transport needs.
type Responder interface {
	Respond(ctx context.Context, conversationID, message string) string
}

// Server exposes the dialogue boundary over HTTP.
type Server struct {
	engine  Responder
	logger  *slog.Logger
	httpSrv *http.Server
}

// NewServer creates the bot HTTP server listening on addr.
func NewServer(engine Responder, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: engine,
		logger: logger.With("component", "botapi"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /messages", s.handleMessage)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run starts the server and blocks until the context is canceled or the
// server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpSrv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("bot API listening", "addr", ln.Addr().String())
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, shutting down")
	case err := <-errCh:
		return err
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutCtx)
}

type messageRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type messageResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
	ResponseHTML   string `json:"response_html,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if strings.TrimSpace(req.ConversationID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "conversation_id is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	s.logger.Debug("message received",
		"conversation_id", req.ConversationID,
		"message", req.Message)

	text := s.engine.Respond(r.Context(), req.ConversationID, req.Message)

	writeJSON(w, http.StatusOK, messageResponse{
		ConversationID: req.ConversationID,
		Response:       text,
		ResponseHTML:   s.renderHTML(text),
	})
}

// renderHTML converts the bot's markdown-flavoured reply to HTML for web
// frontends. Rendering failures fall back to omitting the HTML field.
func (s *Server) renderHTML(text string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		s.logger.Error("failed to convert markdown", "error", err)
		return ""
	}
	return buf.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
