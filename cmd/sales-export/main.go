// Command sales-export archives the transaction log as gzipped JSON, for
// bookkeeping outside the POS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	appkg "github.com/arunika/kasir-pos/internal/app"
	"github.com/arunika/kasir-pos/internal/domain/report"
)

func main() {
	var (
		backend     string
		dataDir     string
		databaseURL string
		outFile     string
	)

	flag.StringVar(&backend, "storage", "pebble", "storage backend: memory, pebble, or postgres")
	flag.StringVar(&dataDir, "data-dir", "data", "Pebble data directory")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&outFile, "out", "sales-export.json.gz", "output archive path")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, backend, dataDir, databaseURL, outFile); err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, backend, dataDir, databaseURL, outFile string) error {
	store, err := appkg.OpenStorage(ctx, appkg.StorageConfig{
		Backend:     backend,
		DataDir:     dataDir,
		DatabaseURL: databaseURL,
	})
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer func() { _ = store.Close() }()

	txs, err := store.Transactions().List(ctx)
	if err != nil {
		return errors.Wrap(err, "list transactions")
	}

	f, err := os.Create(outFile)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() { _ = f.Close() }()

	zw := pgzip.NewWriter(f)
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txs); err != nil {
		return errors.Wrap(err, "encode transactions")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "close gzip writer")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close output file")
	}

	s := report.Summarize(txs)
	slog.Info("export completed",
		slog.String("file", outFile),
		slog.Int("transactions", s.Transactions),
		slog.Int("items_sold", s.ItemsSold),
		slog.String("revenue", s.Revenue.String()),
	)
	return nil
}
