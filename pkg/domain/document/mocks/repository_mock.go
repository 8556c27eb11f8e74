package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FormVault/formvault/pkg/domain/document"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, tenantID, id)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}

func (m *Repository) FindByBlindIndex(ctx context.Context, tenantID, fieldName, indexHash string) ([]*document.Document, error) {
	args := m.Called(ctx, tenantID, fieldName, indexHash)
	docs, _ := args.Get(0).([]*document.Document)
	return docs, args.Error(1)
}

func (m *Repository) ListLegacy(ctx context.Context, tenantID string, cursor *uuid.UUID, limit int) ([]*document.Document, error) {
	args := m.Called(ctx, tenantID, cursor, limit)
	docs, _ := args.Get(0).([]*document.Document)
	return docs, args.Error(1)
}

func (m *Repository) ReplaceEncrypted(ctx context.Context, doc *document.Document, indexes []document.BlindIndex) error {
	args := m.Called(ctx, doc, indexes)
	return args.Error(0)
}
