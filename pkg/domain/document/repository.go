package document

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Save(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Document, error)
	// FindByBlindIndex returns the documents of a tenant whose stored index
	// hash for fieldName equals indexHash.
	FindByBlindIndex(ctx context.Context, tenantID, fieldName, indexHash string) ([]*Document, error)
	// ListLegacy returns up to limit records that still carry legacy
	// plaintext and no ciphertext, ordered by ID and strictly after cursor.
	// A nil cursor starts from the beginning.
	ListLegacy(ctx context.Context, tenantID string, cursor *uuid.UUID, limit int) ([]*Document, error)
	// ReplaceEncrypted atomically clears the legacy plaintext and writes
	// ciphertext plus a wholesale replacement of the blind index rows.
	ReplaceEncrypted(ctx context.Context, doc *Document, indexes []BlindIndex) error
}
