package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/ledger"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
	"golang.org/x/text/cases"
)

const dateLayout = "2006-01-02"

type LedgerService struct {
	goalRepository  repository.GoalRepository
	entryRepository repository.LedgerEntryRepository
	rateService     *RateService
}

func NewLedgerService(
	goalRepository repository.GoalRepository,
	entryRepository repository.LedgerEntryRepository,
	rateService *RateService,
) *LedgerService {
	return &LedgerService{
		goalRepository:  goalRepository,
		entryRepository: entryRepository,
		rateService:     rateService,
	}
}

// EntryInput is a new ledger entry as submitted by a client.
type EntryInput struct {
	Amount          decimal.Decimal `json:"amount"`
	Direction       string          `json:"direction"`
	Currency        string          `json:"currency"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transaction_date"` // YYYY-MM-DD, defaults to today
}

// Record appends an entry to the goal's ledger. The current factor of the
// entry's currency is stored with it for audit.
func (s *LedgerService) Record(userID, goalID string, input EntryInput) (*model.LedgerEntry, error) {
	// Verify ownership
	_, err := s.goalRepository.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}

	direction := model.Direction(strings.ToLower(strings.TrimSpace(input.Direction)))
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: direction must be income or expense", ErrInvalidInput)
	}

	currency := model.ParseCurrency(input.Currency)
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: %q", ledger.ErrUnsupportedCurrency, input.Currency)
	}

	date, err := parseDate(input.TransactionDate)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.rateService.Latest()
	if err != nil {
		return nil, err
	}

	entry := &model.LedgerEntry{
		ID:              uuid.New().String(),
		GoalID:          goalID,
		Amount:          input.Amount,
		Direction:       direction,
		Currency:        currency,
		Category:        NormalizeCategory(input.Category),
		Description:     strings.TrimSpace(input.Description),
		TransactionDate: date,
		ExchangeRate:    snapshot.Rates()[currency],
		CreatedAt:       time.Now(),
	}

	err = s.entryRepository.Create(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to record entry: %w", err)
	}

	return entry, nil
}

// Entries lists the goal's ledger, most recent transaction first.
func (s *LedgerService) Entries(userID, goalID string) ([]*model.LedgerEntry, error) {
	// Verify ownership
	_, err := s.goalRepository.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepository.Entries(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	return entries, nil
}

// NormalizeCategory trims the label, maps case variants of a suggested
// category to its canonical spelling and falls back to the default.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return model.DefaultCategory
	}

	// A Caser is stateful, so each call gets its own
	fold := cases.Fold()
	folded := fold.String(category)
	for _, known := range model.Categories {
		if fold.String(known) == folded {
			return known
		}
	}

	return category
}

// parseDate reads a YYYY-MM-DD date; empty means today.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	return date, nil
}
