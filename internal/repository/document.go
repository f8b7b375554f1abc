package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/objectives/internal/model"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

type DocumentRepository interface {
	Create(doc *model.Document) error
	ByID(userID, documentID string) (*model.Document, error)
	Documents(goalID string) ([]*model.Document, error)
	UserDocuments(userID string) ([]*model.Document, error)
	Update(doc *model.Document) error
	Delete(documentID string) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *model.Document) error {
	query := `INSERT INTO documents (id, goal_id, user_id, name, category, kind, status, storage_path, mime_type, size, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		doc.ID,
		doc.GoalID,
		doc.UserID,
		doc.Name,
		doc.Category,
		doc.Kind,
		doc.Status,
		doc.StoragePath,
		doc.MimeType,
		doc.Size,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

func (r *documentRepository) ByID(userID, documentID string) (*model.Document, error) {
	doc := &model.Document{}
	query := `SELECT * FROM documents WHERE id = $1 AND user_id = $2`

	err := r.db.Get(doc, query, documentID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}

	return doc, err
}

func (r *documentRepository) Documents(goalID string) ([]*model.Document, error) {
	var docs []*model.Document
	query := `SELECT * FROM documents WHERE goal_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&docs, query, goalID)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) UserDocuments(userID string) ([]*model.Document, error) {
	var docs []*model.Document
	query := `SELECT * FROM documents WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&docs, query, userID)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) Update(doc *model.Document) error {
	doc.UpdatedAt = time.Now()

	query := `UPDATE documents
	          SET name = $1, category = $2, kind = $3, status = $4, storage_path = $5, mime_type = $6, size = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.db.Exec(query,
		doc.Name,
		doc.Category,
		doc.Kind,
		doc.Status,
		doc.StoragePath,
		doc.MimeType,
		doc.Size,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrDocumentNotFound)
}

func (r *documentRepository) Delete(documentID string) error {
	result, err := r.db.Exec(`DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrDocumentNotFound)
}
