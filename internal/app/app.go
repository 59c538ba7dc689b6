package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/arunika/kasir-pos/internal/domain/cart"
	"github.com/arunika/kasir-pos/internal/domain/product"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
	"github.com/arunika/kasir-pos/internal/handler"
	"github.com/arunika/kasir-pos/internal/identity"
	"github.com/arunika/kasir-pos/internal/receipt"
	"github.com/arunika/kasir-pos/internal/storage/memory"
	"github.com/arunika/kasir-pos/internal/storage/pebblekv"
	"github.com/arunika/kasir-pos/internal/storage/postgres"
	"github.com/arunika/kasir-pos/internal/whatsapp"
	"github.com/arunika/kasir-pos/pkg/health"
	"github.com/arunika/kasir-pos/pkg/httpmiddleware"
)

// Storage is the backend lifecycle shared by all storage implementations.
type Storage interface {
	Products() product.Repository
	Transactions() transaction.Repository
	Ping(ctx context.Context) error
	Close() error
}

// OpenStorage creates the storage backend selected by cfg.
func OpenStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "pebble":
		return pebblekv.Open(cfg.DataDir)
	case "postgres":
		return postgres.Open(ctx, cfg.DatabaseURL)
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage.Backend),
	)

	store, err := OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer func() { _ = store.Close() }()

	loc, err := time.LoadLocation(cfg.Store.Timezone)
	if err != nil {
		return errors.Wrapf(err, "load timezone %q", cfg.Store.Timezone)
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("storage", 5*time.Second, store.Ping)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain services.
	products := store.Products()
	transactions := store.Transactions()
	carts := cart.NewRegistry()
	cartService := cart.NewService(products)
	recorder := transaction.NewRecorder(transactions, products, lg.Named("recorder"), transaction.RecorderConfig{
		DecrementStock: cfg.Checkout.DecrementStock,
	})
	formatter := receipt.NewFormatter(receipt.Config{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Location:  loc,
	})
	dispatcher := whatsapp.NewDispatcher(whatsapp.Config{
		CountryCode: cfg.WhatsApp.CountryCode,
		OpenBrowser: cfg.WhatsApp.OpenBrowser,
	})
	idp := identity.NewStubProvider([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// HTTP routes: health endpoints + API on one server.
	h := handler.New(products, transactions, carts, cartService, recorder, formatter, dispatcher, idp)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/", h.Routes())

	instrumented := otelhttp.NewHandler(mux, "kasir-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
