package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
)

const (
	GoalKindTrip     = "trip"
	GoalKindPurchase = "purchase"
	GoalKindSavings  = "savings"
	GoalKindOther    = "other"
)

type Goal struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"user_id"`
	Title          string          `db:"title" json:"title"`
	Description    string          `db:"description" json:"description"`
	Kind           string          `db:"kind" json:"kind"`
	TargetAmount   decimal.Decimal `db:"target_amount" json:"target_amount"`
	TargetCurrency Currency        `db:"target_currency" json:"target_currency"`
	TargetDate     *time.Time      `db:"target_date" json:"target_date,omitempty"`
	Status         string          `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

func ValidGoalStatus(status string) bool {
	return status == GoalStatusActive || status == GoalStatusCompleted
}

func ValidGoalKind(kind string) bool {
	switch kind {
	case GoalKindTrip, GoalKindPurchase, GoalKindSavings, GoalKindOther:
		return true
	}
	return false
}
