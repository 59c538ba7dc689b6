// Command seed-catalog loads an initial product catalog into the configured
// storage backend from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appkg "github.com/arunika/kasir-pos/internal/app"
	"github.com/arunika/kasir-pos/internal/domain/product"
)

type productJSON struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

func main() {
	var (
		backend      string
		dataDir      string
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&backend, "storage", "pebble", "storage backend: memory, pebble, or postgres")
	flag.StringVar(&dataDir, "data-dir", "data", "Pebble data directory")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, backend, dataDir, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, backend, dataDir, databaseURL, productsFile string) error {
	store, err := appkg.OpenStorage(ctx, appkg.StorageConfig{
		Backend:     backend,
		DataDir:     dataDir,
		DatabaseURL: databaseURL,
	})
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer func() { _ = store.Close() }()

	raw, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var entries []productJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return errors.Wrap(err, "decode products file")
	}

	products := store.Products()
	for _, e := range entries {
		p := product.Product{
			ID:          uuid.New().String(),
			Name:        e.Name,
			Price:       e.Price,
			Stock:       e.Stock,
			Category:    e.Category,
			Description: e.Description,
			CreatedAt:   time.Now(),
		}
		if err := products.Save(ctx, p); err != nil {
			return errors.Wrapf(err, "save product %q", e.Name)
		}
		slog.Info("seeded product", slog.String("name", e.Name), slog.Int("stock", e.Stock))
	}

	return nil
}
