package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateSnapshot holds the value of one unit of each supported
// currency expressed in BaseCurrency. The latest snapshot is authoritative.
type ExchangeRateSnapshot struct {
	ID        string          `db:"id" json:"id"`
	BRL       decimal.Decimal `db:"brl" json:"brl"`
	USD       decimal.Decimal `db:"usd" json:"usd"`
	EUR       decimal.Decimal `db:"eur" json:"eur"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Rates returns the snapshot as a lookup table keyed by currency.
func (s *ExchangeRateSnapshot) Rates() map[Currency]decimal.Decimal {
	if s == nil {
		return nil
	}
	return map[Currency]decimal.Decimal{
		CurrencyBRL: s.BRL,
		CurrencyUSD: s.USD,
		CurrencyEUR: s.EUR,
	}
}

// DefaultRates are the factors seeded before the first refresh.
func DefaultRates() map[Currency]decimal.Decimal {
	return map[Currency]decimal.Decimal{
		CurrencyBRL: decimal.NewFromInt(1),
		CurrencyUSD: decimal.RequireFromString("5.45"),
		CurrencyEUR: decimal.RequireFromString("6.05"),
	}
}
