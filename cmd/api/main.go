package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/auth"
	"github.com/MrJamesThe3rd/findash/internal/backend"
	"github.com/MrJamesThe3rd/findash/internal/config"
	"github.com/MrJamesThe3rd/findash/internal/database"
	"github.com/MrJamesThe3rd/findash/internal/export"
	findashHttp "github.com/MrJamesThe3rd/findash/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/findash/internal/http/analytics"
	authHandler "github.com/MrJamesThe3rd/findash/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/findash/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/findash/internal/http/importfile"
	profileHandler "github.com/MrJamesThe3rd/findash/internal/http/profile"
	txHandler "github.com/MrJamesThe3rd/findash/internal/http/transaction"
	"github.com/MrJamesThe3rd/findash/internal/importer"
	"github.com/MrJamesThe3rd/findash/internal/mail"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
	"github.com/MrJamesThe3rd/findash/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.App.LogLevel, cfg.App.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", cfg.DB.Driver, err)
	}

	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("failed to close backend", "error", err)
		}
	}()

	revoker, closeRevoker, err := newRevoker(cfg)
	if err != nil {
		return err
	}
	defer closeRevoker()

	var (
		issuer             = auth.NewIssuer(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.TokenTTL)
		authService        = auth.NewService(store.Users, issuer, revoker, newMailer(cfg))
		userService        = user.NewService(store.Users)
		transactionService = transaction.NewService(store.Transactions, cfg.Server.QueryTimeout)
		analyticsService   = analytics.NewService(store.Transactions, cfg.Server.QueryTimeout)
		importService      = importer.NewService()
		exportService      = export.NewService(transactionService)
	)

	router := findashHttp.New(findashHttp.Handlers{
		Auth:         authHandler.NewHandler(authService, cfg.Auth.CookieSecure),
		Profile:      profileHandler.NewHandler(userService),
		Transactions: txHandler.NewHandler(transactionService),
		Export:       exportHandler.NewHandler(exportService),
		Import:       importHandler.NewHandler(importService, transactionService),
		Analytics:    analyticsHandler.NewHandler(analyticsService),
	}, authService, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", cfg.App.Port, "driver", store.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}

func newRevoker(cfg *config.Config) (auth.Revoker, func(), error) {
	if cfg.Redis.Addr == "" {
		slog.Warn("REDIS_ADDR not set, logged out tokens are tracked in memory")
		return auth.NewMemoryRevoker(), func() {}, nil
	}

	client, err := database.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return auth.NewRedisRevoker(client), func() { _ = client.Close() }, nil
}

func newMailer(cfg *config.Config) mail.Mailer {
	if cfg.Mail.ResendAPIKey == "" {
		slog.Info("RESEND_API_KEY not set, welcome emails are disabled")
		return mail.Noop{}
	}

	return mail.NewResendClient(cfg.Mail.BaseURL, cfg.Mail.ResendAPIKey, cfg.Mail.From)
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
