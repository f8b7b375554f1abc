package generation

import (
	"context"
	"log/slog"

	"github.com/templui/objectives/internal/config"
)

// NewProvider creates the generation provider from configuration. Without
// an API key it returns a provider that always fails with
// ErrMissingCredential, so callers never need a nil check.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	if !cfg.GenerationEnabled() {
		slog.Warn("GEMINI_API_KEY not set, milestone generation disabled")
		return Unavailable{}, nil
	}

	slog.Info("initializing generation provider", "provider", "gemini", "model", cfg.GeminiModel)
	return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
}

// Unavailable is the provider used when no credential is configured.
type Unavailable struct{}

func (Unavailable) Name() string {
	return "unavailable"
}

func (Unavailable) Generate(context.Context, Request) ([]Milestone, error) {
	return nil, ErrMissingCredential
}
