package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appkg "github.com/arunika/kasir-pos/internal/app"
)

func main() {
	// Local development keeps secrets in a .env file; absence is fine.
	_ = godotenv.Load()

	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}
		return appkg.Run(ctx, lg, m, cfg)
	})
}
