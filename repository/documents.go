package repository

import (
	"context"
	"log/slog"

	"github.com/careerloop/backend/models"
	"gorm.io/gorm"
)

// Document operations
func (r *GORMRepository) CreateDocument(ctx context.Context, document *models.Document) error {
	if err := r.db.WithContext(ctx).Create(document).Error; err != nil {
		slog.Error("Failed to create document", "error", err)
		return err
	}
	slog.Info("Document created", "document_id", document.ID, "kind", document.Kind, "file_name", document.FileName)
	r.publish("documents", "create", document.ID, document.UserID, "")
	return nil
}

func (r *GORMRepository) GetDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&documents).Error
	if err != nil {
		slog.Error("Failed to get documents", "error", err, "user_id", userID)
		return nil, err
	}
	return documents, nil
}

func (r *GORMRepository) GetDocumentByID(ctx context.Context, documentID string, userID string) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", documentID, userID).First(&document).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get document by ID", "error", err, "document_id", documentID)
		return nil, err
	}
	return &document, nil
}

func (r *GORMRepository) DeleteDocument(ctx context.Context, documentID string, userID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", documentID, userID).Delete(&models.Document{}).Error; err != nil {
		slog.Error("Failed to delete document", "error", err, "document_id", documentID)
		return err
	}
	r.publish("documents", "delete", documentID, userID, "")
	return nil
}
