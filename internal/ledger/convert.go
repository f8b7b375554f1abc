// Package ledger turns currency-tagged ledger entries into totals and
// progress figures in a caller-selected display currency.
//
// Every function here is a pure projection: inputs are never mutated and
// nothing computed is meant to be persisted. Rates are passed in as a
// value on each call instead of being read from shared state.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/model"
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidRateSnapshot = errors.New("invalid rate snapshot")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrMissingGoal         = errors.New("missing goal")
)

// Rates maps each supported currency to the value of one unit in the base currency.
type Rates map[model.Currency]decimal.Decimal

// RatesFrom builds Rates from a stored snapshot.
func RatesFrom(snapshot *model.ExchangeRateSnapshot) Rates {
	return Rates(snapshot.Rates())
}

// Validate checks that every supported currency has a strictly positive factor.
func (r Rates) Validate() error {
	for _, c := range model.Currencies {
		factor, ok := r[c]
		if !ok {
			return fmt.Errorf("%w: missing factor for %s", ErrInvalidRateSnapshot, c)
		}
		if !factor.IsPositive() {
			return fmt.Errorf("%w: factor for %s must be positive, got %s", ErrInvalidRateSnapshot, c, factor)
		}
	}
	return nil
}

// Convert converts amount from one currency to another through the base
// currency. Converting a currency to itself returns amount unchanged and
// does not consult rates.
func Convert(amount decimal.Decimal, from, to model.Currency, rates Rates) (decimal.Decimal, error) {
	if !from.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, from)
	}
	if !to.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, to)
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if from == to {
		return amount, nil
	}

	err := rates.Validate()
	if err != nil {
		return decimal.Zero, err
	}

	inBase := amount.Mul(rates[from])
	return inBase.Div(rates[to]), nil
}
