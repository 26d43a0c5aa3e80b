package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/planetcare/server/internal/api"
	"github.com/planetcare/server/internal/auth"
	"github.com/planetcare/server/internal/config"
	"github.com/planetcare/server/internal/domain/donations"
	"github.com/planetcare/server/internal/domain/events"
	"github.com/planetcare/server/internal/domain/users"
	"github.com/planetcare/server/internal/metrics"
	"github.com/planetcare/server/internal/payments"
	"github.com/planetcare/server/internal/storage/postgres"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PlanetCare HTTP server",
	Long: `Start the PlanetCare HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables
- Bootstrap an admin user if ADMIN_EMAIL is set
- Start the HTTP API with graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 5000)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting PlanetCare server")

	metrics.Init(Version, GitCommit, BuildDate)

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := postgres.NewPool(poolCtx, cfg.Database)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init failed: %w", err)
	}

	usersService := users.NewService(repo.Users())
	eventsService := events.NewService(repo.Events())
	donationsService := donations.NewService(repo.Donations())

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrapAdminUser(bootstrapCtx, cfg, usersService, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	bootstrapCancel()

	deps := api.Dependencies{
		Config:    cfg,
		Logger:    logger,
		DB:        pool,
		JWT:       auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, "planetcare"),
		Users:     usersService,
		Events:    eventsService,
		Donations: donationsService,
		Intents:   payments.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.Currency),
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(deps),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

// bootstrapAdminUser ensures a usable admin record exists. There is no
// password flow; admin access rides on the email in the signed token
// plus the stored role.
func bootstrapAdminUser(ctx context.Context, cfg config.Config, usersService *users.Service, logger zerolog.Logger) error {
	bootstrap := cfg.AdminBootstrap
	if bootstrap.Email == "" {
		logger.Warn().Msg("ADMIN_EMAIL not set; skipping admin bootstrap")
		return nil
	}

	if _, _, err := usersService.Register(ctx, bootstrap.Email, bootstrap.Name); err != nil {
		return fmt.Errorf("register admin user: %w", err)
	}
	user, err := usersService.AssignRole(ctx, bootstrap.Email, users.RoleAdmin)
	if err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}

	// Redact email in production to avoid PII leaks
	if cfg.Environment == "production" {
		logger.Info().Msg("bootstrapped admin user")
	} else {
		logger.Info().Str("email", user.Email).Msg("bootstrapped admin user")
	}
	return nil
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
