package document

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/crypto"
	"github.com/FormVault/formvault/pkg/domain/document"
	"github.com/google/uuid"
)

// SearchResult carries only record metadata. Callers that need the payload
// follow up with Processor.Load so decryption stays on one code path.
type SearchResult struct {
	DocumentID   uuid.UUID     `json:"document_id"`
	DocumentType document.Type `json:"document_type"`
	KeyVersion   int           `json:"key_version"`
}

// Searcher answers exact-match queries over encrypted fields. The query value
// goes through the same normalization and keyed hash as at write time, so a
// hit means byte equality of the normalized plaintext.
type Searcher struct {
	cryptoSvc *crypto.Service
	repo      document.Repository
	logger    logrus.FieldLogger
}

func NewSearcher(cryptoSvc *crypto.Service, repo document.Repository, logger logrus.FieldLogger) *Searcher {
	return &Searcher{
		cryptoSvc: cryptoSvc,
		repo:      repo,
		logger:    logger,
	}
}

func (s *Searcher) Search(ctx context.Context, tenantID, fieldName, value string) ([]SearchResult, error) {
	hash, err := s.cryptoSvc.BlindIndex(value, tenantID)
	if err != nil {
		return nil, err
	}

	docs, err := s.repo.FindByBlindIndex(ctx, tenantID, fieldName, hash)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, SearchResult{
			DocumentID:   doc.ID,
			DocumentType: doc.DocumentType,
			KeyVersion:   doc.KeyVersion,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"field":     fieldName,
		"hits":      len(results),
	}).Debug("blind index search")

	return results, nil
}
