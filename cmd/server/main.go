package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmdesk/internal/auth"
	"github.com/rpggio/crmdesk/internal/config"
	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/domain/user"
	"github.com/rpggio/crmdesk/internal/mcp"
	"github.com/rpggio/crmdesk/internal/sqlite"
	"github.com/rpggio/crmdesk/internal/transport"
)

var version = "dev"

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "env file error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := sqlite.NewUserRepository(db)
	clientRepo := sqlite.NewClientRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	interactionRepo := sqlite.NewInteractionRepository(db)
	reminderRepo := sqlite.NewReminderRepository(db)

	userSvc := user.NewService(userRepo, auth.BcryptHasher{}, logger)
	clientSvc := client.NewService(clientRepo, sqlite.NewClientTransactor(db), logger)
	projectSvc := project.NewService(projectRepo, clientRepo, sqlite.NewProjectTransactor(db), logger)
	interactionSvc := interaction.NewService(interactionRepo, clientRepo, projectRepo, logger)
	reminderSvc := reminder.NewService(reminderRepo, projectRepo, clientRepo, sqlite.NewReminderTransactor(db), logger)

	mcpConfig := mcp.Config{
		Services: mcp.Services{
			Clients:      clientSvc,
			Projects:     projectSvc,
			Interactions: interactionSvc,
			Reminders:    reminderSvc,
		},
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	}

	if cfg.Transport.Mode == "stdio" {
		u, err := userSvc.GetByEmail(context.Background(), cfg.MCP.UserEmail)
		if err != nil {
			logger.Error("failed to resolve stdio user", "email", cfg.MCP.UserEmail, "error", err)
			os.Exit(1)
		}
		mcpConfig.StdioUserID = u.ID
		runStdioMode(logger, mcp.NewServer(mcpConfig), u.ID)
		return
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Error("failed to configure tokens", "error", err)
		os.Exit(1)
	}
	mcpConfig.Resolver = tokens
	mcpServer := mcp.NewServer(mcpConfig)

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := transport.NewServer(transport.Config{
		Services: transport.Services{
			Users:        userSvc,
			Clients:      clientSvc,
			Projects:     projectSvc,
			Interactions: interactionSvc,
			Reminders:    reminderSvc,
		},
		Tokens:             tokens,
		Resolver:           tokens,
		MCPHandler:         mcpHandler,
		CORSOrigins:        cfg.CORS.Origins,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
		TrustProxy:         cfg.Server.TrustProxy,
		Logger:             logger,
	})

	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, userID string) {
	logger.Info("starting stdio transport", "user_id", userID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// parseLogLevel maps a config level to slog, falling back to info.
func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
