package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/objectives/internal/model"
)

// LedgerEntryRepository is append-only. Entries are never updated or
// deleted individually; they go away with their goal.
type LedgerEntryRepository interface {
	Create(entry *model.LedgerEntry) error
	Entries(goalID string) ([]*model.LedgerEntry, error)
}

type ledgerEntryRepository struct {
	db *sqlx.DB
}

func NewLedgerEntryRepository(db *sqlx.DB) LedgerEntryRepository {
	return &ledgerEntryRepository{db: db}
}

func (r *ledgerEntryRepository) Create(entry *model.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, goal_id, amount, direction, currency, category, description, transaction_date, exchange_rate, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.GoalID,
		entry.Amount,
		entry.Direction,
		entry.Currency,
		entry.Category,
		entry.Description,
		entry.TransactionDate,
		entry.ExchangeRate,
		entry.CreatedAt,
	)

	return err
}

// Entries returns the goal's entries, most recent transaction first.
func (r *ledgerEntryRepository) Entries(goalID string) ([]*model.LedgerEntry, error) {
	var entries []*model.LedgerEntry
	query := `SELECT * FROM ledger_entries WHERE goal_id = $1 ORDER BY transaction_date DESC, created_at DESC`

	err := r.db.Select(&entries, query, goalID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
