package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FormVault/formvault/pkg/domain"
	"github.com/FormVault/formvault/pkg/domain/document"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Save(ctx context.Context, doc *document.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*document.Document, error) {
	var entity document.Document
	err := r.db.WithContext(ctx).
		Preload("BlindIndexes").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("document", id)
		}
		return nil, err
	}
	return &entity, nil
}

func (r *documentRepository) FindByBlindIndex(ctx context.Context, tenantID, fieldName, indexHash string) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.WithContext(ctx).
		Joins("JOIN blind_indexes ON blind_indexes.document_id = documents.id").
		Where("documents.tenant_id = ? AND blind_indexes.field_name = ? AND blind_indexes.index_hash = ?",
			tenantID, fieldName, indexHash).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("blind index lookup failed: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) ListLegacy(ctx context.Context, tenantID string, cursor *uuid.UUID, limit int) ([]*document.Document, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("legacy_plaintext <> ''").
		Where("ciphertext IS NULL OR length(ciphertext) = 0").
		Order("id").
		Limit(limit)
	if cursor != nil {
		query = query.Where("id > ?", *cursor)
	}

	var docs []*document.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("legacy scan failed: %w", err)
	}
	return docs, nil
}

// ReplaceEncrypted commits the whole re-encryption of one record in a single
// transaction: blind indexes are replaced wholesale, never patched in place,
// and the legacy plaintext is cleared only alongside the new ciphertext.
func (r *documentRepository) ReplaceEncrypted(ctx context.Context, doc *document.Document, indexes []document.BlindIndex) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", doc.ID).Delete(&document.BlindIndex{}).Error; err != nil {
			return fmt.Errorf("failed to clear blind indexes: %w", err)
		}
		updates := map[string]interface{}{
			"ciphertext":       doc.Ciphertext,
			"nonce":            doc.Nonce,
			"key_version":      doc.KeyVersion,
			"document_type":    doc.DocumentType,
			"legacy_plaintext": "",
		}
		if err := tx.Model(&document.Document{}).Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}
		for i := range indexes {
			indexes[i].DocumentID = doc.ID
		}
		if len(indexes) > 0 {
			if err := tx.Create(&indexes).Error; err != nil {
				return fmt.Errorf("failed to write blind indexes: %w", err)
			}
		}
		return nil
	})
}
