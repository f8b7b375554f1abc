package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

const DefaultCategory = "Outros"

// Categories is the suggested set offered to clients. Entries may carry any label.
var Categories = []string{
	"Transporte",
	"Alimentação",
	"Acomodação",
	"Documentação",
	"Lazer",
	DefaultCategory,
}

// LedgerEntry is one income or expense against a goal. The amount is always
// positive; the direction carries the sign. ExchangeRate is the factor of
// Currency at recording time, kept for audit and never used to recompute.
type LedgerEntry struct {
	ID              string          `db:"id" json:"id"`
	GoalID          string          `db:"goal_id" json:"goal_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Direction       Direction       `db:"direction" json:"direction"`
	Currency        Currency        `db:"currency" json:"currency"`
	Category        string          `db:"category" json:"category"`
	Description     string          `db:"description" json:"description"`
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"`
	ExchangeRate    decimal.Decimal `db:"exchange_rate" json:"exchange_rate"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
