package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/storage"
)

// DocumentService keeps the per-goal document checklist and the files
// attached to it. A nil storage disables uploads but not the checklist.
type DocumentService struct {
	documentRepo repository.DocumentRepository
	goalRepo     repository.GoalRepository
	storage      storage.Storage
}

func NewDocumentService(documentRepo repository.DocumentRepository, goalRepo repository.GoalRepository, storage storage.Storage) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		goalRepo:     goalRepo,
		storage:      storage,
	}
}

// Upload is a file sent by a client. MimeType must already be validated.
type Upload struct {
	Body     io.Reader
	Filename string
	MimeType string
	Size     int64
}

// Create adds a pending checklist item without a file.
func (s *DocumentService) Create(userID, goalID, name, category string) (*model.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	// Verify ownership
	_, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &model.Document{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		UserID:    userID,
		Name:      name,
		Category:  strings.TrimSpace(category),
		Kind:      model.DocumentKindChecklist,
		Status:    model.DocumentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.documentRepo.Create(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return doc, nil
}

// Attach stores a file for the document and marks it done. A previously
// attached file is replaced.
func (s *DocumentService) Attach(ctx context.Context, userID, documentID string, upload Upload) (*model.Document, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	doc, err := s.documentRepo.ByID(userID, documentID)
	if err != nil {
		return nil, err
	}

	key := path.Join("documents", userID, doc.GoalID, uuid.New().String()+strings.ToLower(filepath.Ext(upload.Filename)))
	err = s.storage.Save(ctx, key, upload.Body, upload.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	previous := doc.StoragePath
	doc.StoragePath = &key
	doc.MimeType = upload.MimeType
	doc.Size = upload.Size
	doc.Kind = kindFor(upload.MimeType)
	doc.Status = model.DocumentStatusDone

	err = s.documentRepo.Update(doc)
	if err != nil {
		// If DB update fails, try to cleanup the uploaded file
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", key)
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	if previous != nil && *previous != "" {
		delErr := s.storage.Delete(ctx, *previous)
		if delErr != nil {
			slog.Warn("failed to delete replaced file", "error", delErr, "path", *previous)
		}
	}

	return doc, nil
}

// ToggleStatus flips a document between pending and done.
func (s *DocumentService) ToggleStatus(userID, documentID string) (*model.Document, error) {
	doc, err := s.documentRepo.ByID(userID, documentID)
	if err != nil {
		return nil, err
	}

	if doc.Status == model.DocumentStatusDone {
		doc.Status = model.DocumentStatusPending
	} else {
		doc.Status = model.DocumentStatusDone
	}

	err = s.documentRepo.Update(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	return doc, nil
}

// List returns the goal's documents, newest first, with download links.
func (s *DocumentService) List(ctx context.Context, userID, goalID string) ([]*model.Document, error) {
	// Verify ownership
	_, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.Documents(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}

	for _, doc := range docs {
		if !doc.HasFile() || s.storage == nil {
			continue
		}
		url, err := s.storage.URL(ctx, *doc.StoragePath)
		if err != nil {
			slog.Warn("failed to presign document url", "error", err, "document_id", doc.ID)
			continue
		}
		doc.URL = url
	}

	return docs, nil
}

// URL returns a time-limited download link for the document's file.
func (s *DocumentService) URL(ctx context.Context, userID, documentID string) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}

	doc, err := s.documentRepo.ByID(userID, documentID)
	if err != nil {
		return "", err
	}

	if !doc.HasFile() {
		return "", ErrNoFile
	}

	return s.storage.URL(ctx, *doc.StoragePath)
}

// Delete removes the stored file (best effort) and then the document.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.documentRepo.ByID(userID, documentID)
	if err != nil {
		return err
	}

	s.deleteObject(ctx, doc)

	err = s.documentRepo.Delete(doc.ID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

// DeleteAllUserFiles removes every stored file of a user. Rows are left
// for the database cascade.
func (s *DocumentService) DeleteAllUserFiles(ctx context.Context, userID string) error {
	docs, err := s.documentRepo.UserDocuments(userID)
	if err != nil {
		return fmt.Errorf("failed to get user documents: %w", err)
	}

	for _, doc := range docs {
		s.deleteObject(ctx, doc)
	}

	return nil
}

func (s *DocumentService) deleteObject(ctx context.Context, doc *model.Document) {
	if !doc.HasFile() || s.storage == nil {
		return
	}

	err := s.storage.Delete(ctx, *doc.StoragePath)
	if err != nil {
		slog.Error("failed to delete file from storage", "error", err, "path", *doc.StoragePath)
	}
}

func kindFor(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return model.DocumentKindImage
	}
	return model.DocumentKindPDF
}
