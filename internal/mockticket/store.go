// ABOUTME: SQLite-backed ticket storage for the mock ticket service
// ABOUTME: Auto-creates the schema and seeds two example tickets

package mockticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrTicketNotFound is returned by Get for unknown ticket ids.
var ErrTicketNotFound = errors.New("ticket not found")

// Ticket is a stored support ticket.
type Ticket struct {
	ID          string
	Name        string
	Email       string
	Description string
	Status      string
	CreatedAt   time.Time
}

// TicketStore persists tickets in SQLite.
type TicketStore struct {
	db     *sql.DB
	logger *slog.Logger

	// mu serializes id allocation; nextID holds the highest numeric suffix
	// seen so far.
	mu     sync.Mutex
	nextID int
}

// NewTicketStore opens (or creates) the ticket database at path. Pass
// ":memory:" for an ephemeral store. The schema is created automatically and
// two example tickets are seeded into an empty database.
func NewTicketStore(path string) (*TicketStore, error) {
	logger := slog.Default().With("component", "ticket-store")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &TicketStore{
		db:     db,
		logger: logger,
		nextID: 101,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := s.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding tickets: %w", err)
	}
	if err := s.loadCounter(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading ticket counter: %w", err)
	}

	logger.Info("ticket store initialized", "path", path)
	return s, nil
}

func (s *TicketStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// seed inserts the example tickets into an empty database so status lookups
// have something to find out of the box.
func (s *TicketStore) seed() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tickets").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []Ticket{
		{
			ID:          "TCK-100",
			Name:        "Usuario Ejemplo",
			Email:       "ejemplo@test.com",
			Description: "Problema de ejemplo para pruebas",
			Status:      "Abierto",
			CreatedAt:   time.Now().UTC().Add(-48 * time.Hour),
		},
		{
			ID:          "TCK-101",
			Name:        "Juan Pérez",
			Email:       "juan@test.com",
			Description: "No puedo acceder a mi cuenta",
			Status:      "En Progreso",
			CreatedAt:   time.Now().UTC().Add(-24 * time.Hour),
		},
	}
	for _, t := range seeds {
		if _, err := s.db.Exec(
			"INSERT INTO tickets (id, name, email, description, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			t.ID, t.Name, t.Email, t.Description, t.Status, t.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

// loadCounter advances nextID past the highest id already in the database so
// restarts never reissue an id.
func (s *TicketStore) loadCounter() error {
	var maxSuffix sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(CAST(SUBSTR(id, 5) AS INTEGER)) FROM tickets WHERE id LIKE 'TCK-%'").Scan(&maxSuffix)
	if err != nil {
		return err
	}
	if maxSuffix.Valid && int(maxSuffix.Int64) > s.nextID {
		s.nextID = int(maxSuffix.Int64)
	}
	return nil
}

// Create stores a new ticket with a freshly allocated TCK-<n> id.
func (s *TicketStore) Create(ctx context.Context, name, email, description string) (*Ticket, error) {
	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("TCK-%d", s.nextID)
	s.mu.Unlock()

	ticket := &Ticket{
		ID:          id,
		Name:        name,
		Email:       email,
		Description: description,
		Status:      "Abierto",
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tickets (id, name, email, description, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		ticket.ID, ticket.Name, ticket.Email, ticket.Description, ticket.Status, ticket.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting ticket: %w", err)
	}
	return ticket, nil
}

// Get returns the ticket with the given id, or ErrTicketNotFound.
func (s *TicketStore) Get(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, description, status, created_at FROM tickets WHERE id = ?", id,
	).Scan(&t.ID, &t.Name, &t.Email, &t.Description, &t.Status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying ticket: %w", err)
	}
	return &t, nil
}

// Close releases the underlying database handle.
func (s *TicketStore) Close() error {
	return s.db.Close()
}
