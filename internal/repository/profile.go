package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/objectives/internal/model"
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Profiles() ([]*model.Profile, error)
	Create(profile *model.Profile) error
	Update(profile *model.Profile) error
	UpdateRole(userID, role string) error
	SetActiveGoal(userID string, goalID *string) error
	DeleteByUserID(userID string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Profiles() ([]*model.Profile, error) {
	var profiles []*model.Profile
	err := r.db.Select(&profiles, `SELECT * FROM profiles`)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = profile.CreatedAt
	}
	if profile.Role == "" {
		profile.Role = model.RoleViewer
	}
	if profile.DefaultCurrency == "" {
		profile.DefaultCurrency = model.BaseCurrency
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, name, role, default_currency, active_goal_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, profile.ID, profile.UserID, profile.Name, profile.Role, profile.DefaultCurrency, profile.ActiveGoalID, profile.CreatedAt, profile.UpdatedAt)

	return err
}

// Update replaces the name and default currency of the user's profile.
func (r *profileRepository) Update(profile *model.Profile) error {
	profile.UpdatedAt = time.Now()

	result, err := r.db.Exec(`
		UPDATE profiles
		SET name = $1, default_currency = $2, updated_at = $3
		WHERE user_id = $4
	`, profile.Name, profile.DefaultCurrency, profile.UpdatedAt, profile.UserID)

	if err != nil {
		return err
	}

	return expectRows(result, ErrProfileNotFound)
}

func (r *profileRepository) UpdateRole(userID, role string) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET role = $1, updated_at = $2
		WHERE user_id = $3
	`, role, time.Now(), userID)

	if err != nil {
		return err
	}

	return expectRows(result, ErrProfileNotFound)
}

// SetActiveGoal stores the selected goal, or clears it when goalID is nil.
func (r *profileRepository) SetActiveGoal(userID string, goalID *string) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET active_goal_id = $1, updated_at = $2
		WHERE user_id = $3
	`, goalID, time.Now(), userID)

	if err != nil {
		return err
	}

	return expectRows(result, ErrProfileNotFound)
}

func (r *profileRepository) DeleteByUserID(userID string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrProfileNotFound)
}
