package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type Profile struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Name            string    `db:"name" json:"name"`
	Role            string    `db:"role" json:"role"`
	DefaultCurrency Currency  `db:"default_currency" json:"default_currency"`
	ActiveGoalID    *string   `db:"active_goal_id" json:"active_goal_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor || role == RoleViewer
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanEdit reports whether the profile may create or change data.
func (p *Profile) CanEdit() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleEditor)
}
