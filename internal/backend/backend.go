// Package backend opens the storage selected by DB_DRIVER and exposes it
// through the repository interfaces the services depend on.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/config"
	"github.com/MrJamesThe3rd/findash/internal/database"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
	txStore "github.com/MrJamesThe3rd/findash/internal/transaction/store"
	"github.com/MrJamesThe3rd/findash/internal/user"
	userStore "github.com/MrJamesThe3rd/findash/internal/user/store"
)

// TransactionStore serves both listings and analytics from one collection.
type TransactionStore interface {
	transaction.Repository
	analytics.Repository
}

type Backend struct {
	Driver       string
	Transactions TransactionStore
	Users        user.Repository

	closers []func(context.Context) error
}

// Open connects to the configured driver and prepares its schema or indexes.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverMemory:
		slog.Warn("using in-memory storage, data is lost on exit")

		return &Backend{
			Driver:       config.DriverMemory,
			Transactions: txStore.NewMemory(),
			Users:        userStore.NewMemory(),
		}, nil
	}

	return nil, fmt.Errorf("unsupported driver %q", cfg.DB.Driver)
}

func openMongo(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, db, err := database.NewMongo(ctx, cfg.DB.MongoURI, cfg.DB.MongoDatabase)
	if err != nil {
		return nil, err
	}

	var (
		txs   = txStore.NewMongo(db)
		users = userStore.NewMongo(db)
	)

	if err := txs.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("creating transaction indexes: %w", err)
	}

	if err := users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("creating user indexes: %w", err)
	}

	return &Backend{
		Driver:       config.DriverMongo,
		Transactions: txs,
		Users:        users,
		closers:      []func(context.Context) error{client.Disconnect},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Backend{
		Driver:       config.DriverPostgres,
		Transactions: txStore.NewPostgres(db),
		Users:        userStore.NewPostgres(db),
		closers: []func(context.Context) error{
			func(context.Context) error { return db.Close() },
		},
	}, nil
}

// Close releases every connection Open made.
func (b *Backend) Close(ctx context.Context) error {
	var errs []error

	for _, c := range b.closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
