package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/objectives/internal/model"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
)

type MilestoneRepository interface {
	Create(milestone *model.Milestone) error
	CreateMany(milestones []*model.Milestone) error
	ByID(milestoneID string) (*model.Milestone, error)
	Milestones(goalID string) ([]*model.Milestone, error)
	Count(goalID string) (int, error)
	SetCompleted(milestoneID string, completed bool) error
	Delete(milestoneID string) error
}

type milestoneRepository struct {
	db *sqlx.DB
}

func NewMilestoneRepository(db *sqlx.DB) MilestoneRepository {
	return &milestoneRepository{db: db}
}

const insertMilestone = `INSERT INTO milestones (id, goal_id, title, description, completed, order_index, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *milestoneRepository) Create(m *model.Milestone) error {
	_, err := r.db.Exec(insertMilestone, m.ID, m.GoalID, m.Title, m.Description, m.Completed, m.OrderIndex, m.CreatedAt)
	return err
}

// CreateMany inserts all milestones or none.
func (r *milestoneRepository) CreateMany(milestones []*model.Milestone) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, m := range milestones {
		_, err := tx.Exec(insertMilestone, m.ID, m.GoalID, m.Title, m.Description, m.Completed, m.OrderIndex, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create milestone %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *milestoneRepository) ByID(milestoneID string) (*model.Milestone, error) {
	m := &model.Milestone{}
	err := r.db.Get(m, `SELECT * FROM milestones WHERE id = $1`, milestoneID)
	if err == sql.ErrNoRows {
		return nil, ErrMilestoneNotFound
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Milestones returns the checklist ordered by order_index. Equal indexes
// fall back to creation order.
func (r *milestoneRepository) Milestones(goalID string) ([]*model.Milestone, error) {
	var milestones []*model.Milestone
	query := `SELECT * FROM milestones WHERE goal_id = $1 ORDER BY order_index ASC, created_at ASC, id ASC`

	err := r.db.Select(&milestones, query, goalID)
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

func (r *milestoneRepository) Count(goalID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM milestones WHERE goal_id = $1`, goalID).Scan(&count)
	return count, err
}

func (r *milestoneRepository) SetCompleted(milestoneID string, completed bool) error {
	result, err := r.db.Exec(`UPDATE milestones SET completed = $1 WHERE id = $2`, completed, milestoneID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMilestoneNotFound)
}

func (r *milestoneRepository) Delete(milestoneID string) error {
	result, err := r.db.Exec(`DELETE FROM milestones WHERE id = $1`, milestoneID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMilestoneNotFound)
}
