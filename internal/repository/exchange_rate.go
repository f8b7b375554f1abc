package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/objectives/internal/model"
)

var (
	ErrRateSnapshotNotFound = errors.New("exchange rate snapshot not found")
)

type ExchangeRateRepository interface {
	Latest() (*model.ExchangeRateSnapshot, error)
	Upsert(snapshot *model.ExchangeRateSnapshot) error
}

type exchangeRateRepository struct {
	db *sqlx.DB
}

func NewExchangeRateRepository(db *sqlx.DB) ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

const latestSnapshot = `SELECT * FROM exchange_rate_snapshots ORDER BY updated_at DESC, id DESC LIMIT 1`

func (r *exchangeRateRepository) Latest() (*model.ExchangeRateSnapshot, error) {
	snapshot := &model.ExchangeRateSnapshot{}
	err := r.db.Get(snapshot, latestSnapshot)
	if err == sql.ErrNoRows {
		return nil, ErrRateSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Upsert overwrites the latest snapshot, or inserts one when the table is
// empty. The snapshot's ID and UpdatedAt are set from the stored row.
func (r *exchangeRateRepository) Upsert(snapshot *model.ExchangeRateSnapshot) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	snapshot.UpdatedAt = time.Now()

	var current model.ExchangeRateSnapshot
	err = tx.Get(&current, latestSnapshot)
	switch {
	case err == sql.ErrNoRows:
		snapshot.ID = uuid.New().String()
		_, err = tx.Exec(`INSERT INTO exchange_rate_snapshots (id, brl, usd, eur, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			snapshot.ID, snapshot.BRL, snapshot.USD, snapshot.EUR, snapshot.UpdatedAt)
	case err != nil:
		return err
	default:
		snapshot.ID = current.ID
		_, err = tx.Exec(`UPDATE exchange_rate_snapshots SET brl = $1, usd = $2, eur = $3, updated_at = $4 WHERE id = $5`,
			snapshot.BRL, snapshot.USD, snapshot.EUR, snapshot.UpdatedAt, snapshot.ID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}
