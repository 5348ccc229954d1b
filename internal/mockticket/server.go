// ABOUTME: HTTP surface of the mock ticket service
// ABOUTME: OAuth2 token endpoint plus bearer-authed ticket create/status routes

package mockticket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Server exposes the mock ticket service over HTTP.
type Server struct {
	store   *TicketStore
	tokens  *TokenService
	logger  *slog.Logger
	httpSrv *http.Server
}

// NewServer wires the token service and ticket store into an HTTP server
// listening on addr.
func NewServer(store *TicketStore, tokens *TokenService, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:  store,
		tokens: tokens,
		logger: logger.With("component", "mockticket"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /oauth/token", s.handleToken)
	mux.HandleFunc("POST /tickets", s.requireAuth(s.handleCreateTicket))
	mux.HandleFunc("GET /tickets/{id}", s.requireAuth(s.handleGetTicket))

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
		s.logger.Info("mock ticket service listening", "addr", ln.Addr().String())
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

// --- Middleware ---

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")
		if err := s.tokens.Validate(token); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
			return
		}
		next(w, r)
	}
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	if r.PostFormValue("grant_type") != "client_credentials" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}

	token, expiresIn, err := s.tokens.Issue(r.PostFormValue("client_id"), r.PostFormValue("client_secret"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
}

type createTicketRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "missing_fields",
			"message": "Todos los campos son requeridos",
		})
		return
	}

	ticket, err := s.store.Create(r.Context(), req.Name, req.Email, req.Description)
	if err != nil {
		s.logger.Error("ticket creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}

	s.logger.Info("ticket created", "ticket_id", ticket.ID)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":      ticket.ID,
		"message": "Ticket creado exitosamente",
	})
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ticket, err := s.store.Get(r.Context(), id)
	if err == ErrTicketNotFound {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "ticket_not_found",
			"message": fmt.Sprintf("No se encontró el ticket %s", id),
		})
		return
	}
	if err != nil {
		s.logger.Error("ticket lookup failed", "ticket_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":          ticket.ID,
		"status":      ticket.Status,
		"name":        ticket.Name,
		"description": ticket.Description,
		"createdAt":   ticket.CreatedAt,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
