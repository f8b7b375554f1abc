package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Totals is the aggregated view of a goal's entries in one display currency.
type Totals struct {
	Currency        model.Currency  `json:"currency"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	Balance         decimal.Decimal `json:"balance"`
	Target          decimal.Decimal `json:"target"`
	Remaining       decimal.Decimal `json:"remaining"`
	ProgressPercent int             `json:"progress_percent"`
}

// Aggregate sums entries into income, expense and balance in the display
// currency and measures the balance against the goal's converted target.
// Only Balance may be negative. ProgressPercent is always within [0, 100].
func Aggregate(entries []*model.LedgerEntry, goal *model.Goal, display model.Currency, rates Rates) (Totals, error) {
	if goal == nil {
		return Totals{}, ErrMissingGoal
	}
	if !display.Valid() {
		return Totals{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, display)
	}
	err := rates.Validate()
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{
		Currency:     display,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, entry := range entries {
		converted, err := Convert(entry.Amount, entry.Currency, display, rates)
		if err != nil {
			return Totals{}, err
		}
		switch entry.Direction {
		case model.DirectionIncome:
			totals.TotalIncome = totals.TotalIncome.Add(converted)
		case model.DirectionExpense:
			totals.TotalExpense = totals.TotalExpense.Add(converted)
		}
	}
	totals.Balance = totals.TotalIncome.Sub(totals.TotalExpense)

	target, err := Convert(goal.TargetAmount, goal.TargetCurrency, display, rates)
	if err != nil {
		return Totals{}, err
	}
	totals.Target = target
	totals.Remaining = decimal.Max(target.Sub(totals.Balance), decimal.Zero)
	totals.ProgressPercent = Progress(totals.Balance, target)

	return totals, nil
}

// Progress returns round(balance/target*100) clamped to [0, 100].
// A non-positive target yields 0.
func Progress(balance, target decimal.Decimal) int {
	if !target.IsPositive() {
		return 0
	}
	pct := balance.Div(target).Mul(hundred).Round(0)
	if pct.IsNegative() {
		return 0
	}
	if pct.GreaterThan(hundred) {
		return 100
	}
	return int(pct.IntPart())
}

// CategoryTotal is the converted expense total of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// Breakdown groups expenses by category, largest first. Ties sort by name.
func Breakdown(entries []*model.LedgerEntry, display model.Currency, rates Rates) ([]CategoryTotal, error) {
	byCategory := make(map[string]*CategoryTotal)
	for _, entry := range entries {
		if entry.Direction != model.DirectionExpense {
			continue
		}
		converted, err := Convert(entry.Amount, entry.Currency, display, rates)
		if err != nil {
			return nil, err
		}
		ct, ok := byCategory[entry.Category]
		if !ok {
			ct = &CategoryTotal{Category: entry.Category, Amount: decimal.Zero}
			byCategory[entry.Category] = ct
		}
		ct.Amount = ct.Amount.Add(converted)
		ct.Count++
	}

	result := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		result = append(result, *ct)
	}
	sort.Slice(result, func(i, j int) bool {
		cmp := result[i].Amount.Cmp(result[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// HistoryPoint is the running balance at the end of one transaction date.
type HistoryPoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// History returns the running balance per transaction date, oldest first.
// Entries sharing a date are applied in creation order.
func History(entries []*model.LedgerEntry, display model.Currency, rates Rates) ([]HistoryPoint, error) {
	ordered := make([]*model.LedgerEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.Before(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	points := []HistoryPoint{}
	running := decimal.Zero
	for _, entry := range ordered {
		converted, err := Convert(entry.Amount, entry.Currency, display, rates)
		if err != nil {
			return nil, err
		}
		if entry.Direction == model.DirectionExpense {
			running = running.Sub(converted)
		} else {
			running = running.Add(converted)
		}

		day := truncateDay(entry.TransactionDate)
		if n := len(points); n > 0 && points[n-1].Date.Equal(day) {
			points[n-1].Balance = running
			continue
		}
		points = append(points, HistoryPoint{Date: day, Balance: running})
	}
	return points, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
