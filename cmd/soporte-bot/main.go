// ABOUTME: Entry point for the soporte-bot server
// ABOUTME: Wires config, dialogue engine, ticket service client and HTTP API

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/soporte-bot/internal/botapi"
	"github.com/2389/soporte-bot/internal/config"
	"github.com/2389/soporte-bot/internal/conversation"
	"github.com/2389/soporte-bot/internal/dialogue"
	"github.com/2389/soporte-bot/internal/ticketapi"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                                _           _           _
 ___  ___  _ __   ___  _ __ ___| |_ ___    | |__   ___ | |_
/ __|/ _ \| '_ \ / _ \| '__/ __| __/ _ \===| '_ \ / _ \| __|
\__ \ (_) | |_) | (_) | |  | (__| ||  __/===| |_) | (_) | |_
|___/\___/| .__/ \___/|_|   \___|\__\___|  |_.__/ \___/ \__|
          |_|
`

// getConfigPath returns the path to the bot config file.
// Priority: SOPORTE_CONFIG env var > XDG_CONFIG_HOME/soporte-bot/config.yaml >
// ~/.config/soporte-bot/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("SOPORTE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "soporte-bot", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: soporte-bot <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the bot server")
		fmt.Println("  health    Check bot server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:         %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:           %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Ticket service: %s\n", cfg.TicketService.BaseURL)
	fmt.Println()

	logger.Info("starting soporte-bot",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"ticket_service", cfg.TicketService.BaseURL,
	)

	states := conversation.NewStore()
	tickets := ticketapi.New(ticketapi.Config{
		BaseURL:      cfg.TicketService.BaseURL,
		ClientID:     cfg.TicketService.ClientID,
		ClientSecret: cfg.TicketService.ClientSecret,
		Timeout:      cfg.TicketService.Timeout,
	}, logger)
	engine := dialogue.New(states, tickets, logger)

	server := botapi.NewServer(engine, cfg.Server.HTTPAddr, logger)
	return server.Run(ctx)
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, "http://"+cfg.Server.HTTPAddr+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: %d %s", resp.StatusCode, string(body))
	}
	fmt.Printf("healthy: %s\n", string(body))
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
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
