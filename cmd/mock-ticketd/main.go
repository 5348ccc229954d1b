// ABOUTME: Entry point for the mock ticket service daemon
// ABOUTME: Serves the OAuth2 token endpoint and the ticket API backed by SQLite

package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/soporte-bot/internal/mockticket"
)

var version = "dev"

// getConfigPath returns the default path to the mock-ticketd config file.
func getConfigPath() string {
	if envPath := os.Getenv("MOCK_TICKETD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "mock-ticketd.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "soporte-bot", "mock-ticketd.toml")
}

func main() {
	configPath := flag.String("config", getConfigPath(), "path to config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cyan := color.New(color.FgCyan)
	cyan.Println("mock-ticketd")
	gray := color.New(color.FgHiBlack)
	gray.Printf("version: %s\n\n", version)

	cfg, err := Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	signingKey, err := resolveSigningKey(cfg.OAuth.SigningKey, logger)
	if err != nil {
		return err
	}

	tokens, err := mockticket.NewTokenService(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, signingKey)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	store, err := mockticket.NewTicketStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening ticket store: %w", err)
	}
	defer store.Close()

	logger.Info("starting mock-ticketd",
		"config", configPath,
		"addr", cfg.Server.Addr,
		"database", cfg.Database.Path,
	)

	server := mockticket.NewServer(store, tokens, cfg.Server.Addr, logger)
	return server.Run(ctx)
}

// resolveSigningKey returns the configured signing key, or a random
// per-process key when none is configured. Tokens signed with a random key do
// not survive a restart, which is acceptable for a mock.
func resolveSigningKey(configured string, logger *slog.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}
	logger.Warn("oauth.signing_key not configured, using a random per-process key")
	return key, nil
}

func setupLogger(cfg LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
