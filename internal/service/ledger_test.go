package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/objectives/internal/ledger"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
)

func TestRecordEntry(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyBRL)

	entry, err := env.ledger.Record(user.ID, goal.ID, EntryInput{
		Amount:          decimal.RequireFromString("42.50"),
		Direction:       " Expense ",
		Currency:        "eur",
		Category:        "LAZER",
		Description:     " Museu ",
		TransactionDate: "2026-03-14",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DirectionExpense, entry.Direction)
	assert.Equal(t, model.CurrencyEUR, entry.Currency)
	assert.Equal(t, "Lazer", entry.Category)
	assert.Equal(t, "Museu", entry.Description)
	assert.True(t, entry.ExchangeRate.Equal(decimal.RequireFromString("6.05")))
	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), entry.TransactionDate)

	entries, err := env.ledger.Entries(user.ID, goal.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("42.5")))
}

func TestRecordEntryDefaults(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyBRL)

	entry, err := env.ledger.Record(user.ID, goal.ID, EntryInput{
		Amount:    decimal.NewFromInt(10),
		Direction: "income",
		Currency:  "BRL",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DefaultCategory, entry.Category)
	assert.True(t, entry.ExchangeRate.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, time.Now().UTC().Format(dateLayout), entry.TransactionDate.Format(dateLayout))
}

func TestRecordEntryUsesLatestRates(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyBRL)

	_, err := env.rates.Set(decimal.RequireFromString("5.10"), decimal.RequireFromString("5.90"))
	require.NoError(t, err)

	entry, err := env.ledger.Record(user.ID, goal.ID, EntryInput{
		Amount:    decimal.NewFromInt(10),
		Direction: "income",
		Currency:  "USD",
	})
	require.NoError(t, err)
	assert.True(t, entry.ExchangeRate.Equal(decimal.RequireFromString("5.10")))
}

func TestRecordEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyBRL)

	valid := func() EntryInput {
		return EntryInput{Amount: decimal.NewFromInt(10), Direction: "income", Currency: "BRL"}
	}

	tests := []struct {
		name   string
		modify func(*EntryInput)
		want   error
	}{
		{"zero amount", func(in *EntryInput) { in.Amount = decimal.Zero }, ErrInvalidInput},
		{"negative amount", func(in *EntryInput) { in.Amount = decimal.NewFromInt(-1) }, ErrInvalidInput},
		{"unknown direction", func(in *EntryInput) { in.Direction = "transfer" }, ErrInvalidInput},
		{"unsupported currency", func(in *EntryInput) { in.Currency = "GBP" }, ledger.ErrUnsupportedCurrency},
		{"bad date", func(in *EntryInput) { in.TransactionDate = "yesterday" }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.modify(&input)
			_, err := env.ledger.Record(user.ID, goal.ID, input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	other := env.createUser(t, "bia@example.com", "viagem-2027", model.RoleEditor)
	_, err := env.ledger.Record(other.ID, goal.ID, valid())
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
	_, err = env.ledger.Entries(other.ID, goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	entries, err := env.ledger.Entries(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"":              model.DefaultCategory,
		"   ":           model.DefaultCategory,
		"transporte":    "Transporte",
		" ALIMENTAÇÃO ": "Alimentação",
		"acomodação":    "Acomodação",
		"Presentes":     "Presentes",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeCategory(in), "input %q", in)
	}
}
