package model

import (
	"time"
)

const (
	DocumentKindChecklist = "checklist"
	DocumentKindPDF       = "pdf"
	DocumentKindImage     = "image"
)

const (
	DocumentStatusPending = "pending"
	DocumentStatusDone    = "done"
)

// Document is a named item attached to a goal. A checklist document has no
// stored object until a file is attached.
type Document struct {
	ID          string    `db:"id" json:"id"`
	GoalID      string    `db:"goal_id" json:"goal_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Kind        string    `db:"kind" json:"kind"`
	Status      string    `db:"status" json:"status"`
	StoragePath *string   `db:"storage_path" json:"-"`
	MimeType    string    `db:"mime_type" json:"mime_type"`
	Size        int64     `db:"size" json:"size"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Computed fields (not in database)
	URL string `db:"-" json:"url,omitempty"`
}

func (d *Document) HasFile() bool {
	return d.StoragePath != nil && *d.StoragePath != ""
}
