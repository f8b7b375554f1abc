package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/objectives/internal/ledger"
	"github.com/templui/objectives/internal/model"
	"golang.org/x/sync/errgroup"
)

// GoalSummary is a goal merged with its aggregated progress in one display
// currency. It is computed on every request and never stored.
type GoalSummary struct {
	Goal                *model.Goal            `json:"goal"`
	DescriptionHTML     string                 `json:"description_html"`
	Totals              ledger.Totals          `json:"totals"`
	Formatted           FormattedTotals        `json:"formatted"`
	Breakdown           []ledger.CategoryTotal `json:"breakdown"`
	History             []ledger.HistoryPoint  `json:"history"`
	MilestonesTotal     int                    `json:"milestones_total"`
	MilestonesCompleted int                    `json:"milestones_completed"`
	RatesUpdatedAt      time.Time              `json:"rates_updated_at"`
}

// FormattedTotals holds display strings such as "R$ 1.234,50".
type FormattedTotals struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Balance      string `json:"balance"`
	Target       string `json:"target"`
	Remaining    string `json:"remaining"`
}

// DisplayCurrency resolves the currency to aggregate in: the requested
// code, else the user's default, else the base currency.
func (s *GoalService) DisplayCurrency(userID, requested string) (model.Currency, error) {
	if strings.TrimSpace(requested) != "" {
		c := model.ParseCurrency(requested)
		if !c.Valid() {
			return "", fmt.Errorf("%w: %q", ledger.ErrUnsupportedCurrency, requested)
		}
		return c, nil
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err == nil && profile.DefaultCurrency.Valid() {
		return profile.DefaultCurrency, nil
	}

	return model.BaseCurrency, nil
}

// Summary loads the goal, its ledger, its checklist and the current rates
// concurrently and aggregates them in the display currency.
func (s *GoalService) Summary(userID, goalID, requestedCurrency string) (*GoalSummary, error) {
	display, err := s.DisplayCurrency(userID, requestedCurrency)
	if err != nil {
		return nil, err
	}

	var (
		goal       *model.Goal
		entries    []*model.LedgerEntry
		milestones []*model.Milestone
		snapshot   *model.ExchangeRateSnapshot
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		goal, err = s.repo.ByID(userID, goalID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.Entries(goalID)
		if err != nil {
			return fmt.Errorf("failed to get entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		milestones, err = s.milestoneRepo.Milestones(goalID)
		if err != nil {
			return fmt.Errorf("failed to get milestones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snapshot, err = s.rateService.Latest()
		return err
	})

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	rates := ledger.RatesFrom(snapshot)

	totals, err := ledger.Aggregate(entries, goal, display, rates)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate goal %s: %w", goalID, err)
	}

	breakdown, err := ledger.Breakdown(entries, display, rates)
	if err != nil {
		return nil, fmt.Errorf("failed to break down goal %s: %w", goalID, err)
	}

	history, err := ledger.History(entries, display, rates)
	if err != nil {
		return nil, fmt.Errorf("failed to build history for goal %s: %w", goalID, err)
	}

	completed := 0
	for _, m := range milestones {
		if m.Completed {
			completed++
		}
	}

	descriptionHTML, err := s.markdown.Render(goal.Description)
	if err != nil {
		// The raw description is still returned
		slog.Warn("failed to render goal description", "error", err, "goal_id", goal.ID)
	}

	return &GoalSummary{
		Goal:            goal,
		DescriptionHTML: descriptionHTML,
		Totals:          totals,
		Formatted: FormattedTotals{
			TotalIncome:  ledger.Format(totals.TotalIncome, display),
			TotalExpense: ledger.Format(totals.TotalExpense, display),
			Balance:      ledger.Format(totals.Balance, display),
			Target:       ledger.Format(totals.Target, display),
			Remaining:    ledger.Format(totals.Remaining, display),
		},
		Breakdown:           breakdown,
		History:             history,
		MilestonesTotal:     len(milestones),
		MilestonesCompleted: completed,
		RatesUpdatedAt:      snapshot.UpdatedAt,
	}, nil
}
