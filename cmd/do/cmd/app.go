package cmd

import (
	"context"
	"fmt"

	"github.com/templui/objectives/internal/app"
	"github.com/templui/objectives/internal/config"
	"github.com/templui/objectives/internal/logger"
)

// loadApp wires the same services the server uses, against the configured database.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return app.New(ctx, cfg)
}
