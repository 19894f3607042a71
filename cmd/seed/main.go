package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MrJamesThe3rd/findash/internal/backend"
	"github.com/MrJamesThe3rd/findash/internal/config"
	"github.com/MrJamesThe3rd/findash/internal/importer"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

const seedTimeout = 5 * time.Minute

func main() {
	var (
		file   = flag.String("file", "transactions.json", "seed file to import")
		format = flag.String("format", "", "file format: json or csv (default: from the file extension)")
	)

	flag.Parse()

	if err := run(*file, *format); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(path, formatName string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.DB.Driver == config.DriverMemory {
		return fmt.Errorf("refusing to seed the in-memory backend")
	}

	if formatName == "" {
		formatName = path
	}

	format, ok := importer.ParseFormat(formatName)
	if !ok {
		return fmt.Errorf("unknown format %q", formatName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", cfg.DB.Driver, err)
	}
	defer store.Close(context.Background())

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	params, err := importer.NewService().Import(format, f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	txs, err := transaction.NewService(store.Transactions, seedTimeout).ImportBatch(ctx, params)
	if err != nil {
		return fmt.Errorf("inserting transactions: %w", err)
	}

	slog.Info("seeded transactions", "count", len(txs), "file", path, "driver", store.Driver)

	return nil
}
