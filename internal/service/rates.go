package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/ledger"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
)

// Quote keys returned by the quote source for tourism rates against BRL.
const (
	quoteUSD = "USDBRLT"
	quoteEUR = "EURBRLT"
)

// RateService owns the authoritative exchange rate snapshot.
type RateService struct {
	rateRepository repository.ExchangeRateRepository
	httpClient     *http.Client
	sourceURL      string
}

func NewRateService(rateRepository repository.ExchangeRateRepository, httpClient *http.Client, sourceURL string) *RateService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &RateService{
		rateRepository: rateRepository,
		httpClient:     httpClient,
		sourceURL:      sourceURL,
	}
}

// Latest returns the authoritative snapshot. Before any snapshot exists
// the built-in factors are returned.
func (s *RateService) Latest() (*model.ExchangeRateSnapshot, error) {
	snapshot, err := s.rateRepository.Latest()
	if errors.Is(err, repository.ErrRateSnapshotNotFound) {
		slog.Warn("no exchange rate snapshot stored, using defaults")
		defaults := model.DefaultRates()
		return &model.ExchangeRateSnapshot{
			BRL: defaults[model.CurrencyBRL],
			USD: defaults[model.CurrencyUSD],
			EUR: defaults[model.CurrencyEUR],
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rates: %w", err)
	}

	return snapshot, nil
}

// Set validates and stores the given factors as the new latest snapshot.
func (s *RateService) Set(usd, eur decimal.Decimal) (*model.ExchangeRateSnapshot, error) {
	snapshot := &model.ExchangeRateSnapshot{
		BRL: decimal.NewFromInt(1),
		USD: usd,
		EUR: eur,
	}

	err := ledger.RatesFrom(snapshot).Validate()
	if err != nil {
		return nil, err
	}

	err = s.rateRepository.Upsert(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to store exchange rates: %w", err)
	}

	slog.Info("exchange rates updated", "usd", usd.String(), "eur", eur.String())
	return snapshot, nil
}

type quote struct {
	Bid string `json:"bid"`
}

// Refresh pulls current quotes from the quote source and stores them. On
// failure the previous snapshot stays authoritative.
func (s *RateService) Refresh(ctx context.Context) (*model.ExchangeRateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quote source returned %d: %s", resp.StatusCode, body)
	}

	var quotes map[string]quote
	err = json.NewDecoder(resp.Body).Decode(&quotes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}

	usd, err := bid(quotes, quoteUSD)
	if err != nil {
		return nil, err
	}
	eur, err := bid(quotes, quoteEUR)
	if err != nil {
		return nil, err
	}

	return s.Set(usd, eur)
}

func bid(quotes map[string]quote, key string) (decimal.Decimal, error) {
	q, ok := quotes[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("quote %s missing from response", key)
	}

	value, err := decimal.NewFromString(q.Bid)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote %s has invalid bid %q: %w", key, q.Bid, err)
	}

	return value, nil
}

// Start refreshes rates now and then every interval until ctx is done.
// A non-positive interval disables the loop.
func (s *RateService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		slog.Info("exchange rate refresh disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			_, err := s.Refresh(ctx)
			if err != nil && ctx.Err() == nil {
				slog.Warn("exchange rate refresh failed, keeping previous rates", "error", err)
			}

			select {
			case <-ctx.Done():
				slog.Info("exchange rate refresh stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}
