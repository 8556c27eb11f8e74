// Package document orchestrates the pipeline: extraction, document type
// detection, classification, encryption and blind indexing on the write path;
// decryption and field mapping on the read path.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/classification"
	"github.com/FormVault/formvault/pkg/crypto"
	"github.com/FormVault/formvault/pkg/doctype"
	domainclass "github.com/FormVault/formvault/pkg/domain/classification"
	"github.com/FormVault/formvault/pkg/domain/document"
	"github.com/FormVault/formvault/pkg/extraction"
	"github.com/FormVault/formvault/pkg/infra/prometheus"
	"github.com/google/uuid"
)

// ProcessResult is what the ingest path reports back to the caller: the
// persisted record ID plus the audit trail of the classification pass.
type ProcessResult struct {
	DocumentID   uuid.UUID                     `json:"document_id"`
	DocumentType document.Type                 `json:"document_type"`
	KeyVersion   int                           `json:"key_version"`
	Fields       []domainclass.ClassifiedField `json:"fields"`
	Indexed      []string                      `json:"indexed_fields"`
}

type Processor struct {
	extractor  *extraction.Extractor
	detector   *doctype.Detector
	classifier *classification.Classifier
	cryptoSvc  *crypto.Service
	repo       document.Repository
	logger     logrus.FieldLogger
}

func NewProcessor(
	extractor *extraction.Extractor,
	detector *doctype.Detector,
	classifier *classification.Classifier,
	cryptoSvc *crypto.Service,
	repo document.Repository,
	logger logrus.FieldLogger,
) *Processor {
	return &Processor{
		extractor:  extractor,
		detector:   detector,
		classifier: classifier,
		cryptoSvc:  cryptoSvc,
		repo:       repo,
		logger:     logger,
	}
}

// Process runs one document through the full write path. The payload is
// encrypted wholesale regardless of per-field classification; classification
// only decides which fields additionally get a blind index. Blind indexes are
// computed from the same plaintext values that go into the ciphertext, before
// anything is persisted.
func (p *Processor) Process(ctx context.Context, tenantID, rawText string) (*ProcessResult, error) {
	start := time.Now()

	fields, entities := p.extractor.Extract(rawText)
	docType := p.detector.Detect(rawText)
	classified := p.classifier.Classify(fields, docType)

	for _, cf := range classified {
		prometheus.ClassificationsTotal.WithLabelValues(string(cf.Classification), string(cf.Reason)).Inc()
	}

	payload := document.ExtractedPayload{
		Fields:   fields,
		Entities: entities,
		RawText:  rawText,
	}

	keyVersion := p.cryptoSvc.CurrentKeyVersion(tenantID)
	encrypted, err := p.cryptoSvc.Encrypt(&payload, tenantID, keyVersion)
	if err != nil {
		prometheus.CryptoOperationsTotal.WithLabelValues("encrypt", "error").Inc()
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}
	prometheus.CryptoOperationsTotal.WithLabelValues("encrypt", "ok").Inc()

	indexes, indexed, err := p.buildBlindIndexes(tenantID, classified)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{
		TenantID:     tenantID,
		DocumentType: docType,
		Ciphertext:   encrypted.Ciphertext,
		Nonce:        encrypted.Nonce,
		KeyVersion:   encrypted.KeyVersion,
		BlindIndexes: indexes,
	}
	if err := p.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist document: %w", err)
	}

	prometheus.DocumentsProcessedTotal.WithLabelValues(tenantID, string(docType)).Inc()
	prometheus.PipelineLatency.WithLabelValues(tenantID).Observe(float64(time.Since(start).Milliseconds()))

	p.logger.WithFields(logrus.Fields{
		"tenant_id":     tenantID,
		"document_id":   doc.ID,
		"document_type": docType,
		"fields":        len(classified),
		"indexed":       len(indexed),
	}).Info("document processed")

	return &ProcessResult{
		DocumentID:   doc.ID,
		DocumentType: docType,
		KeyVersion:   encrypted.KeyVersion,
		Fields:       classified,
		Indexed:      indexed,
	}, nil
}

// Load decrypts a stored record. When the record's key version lags the
// tenant's current one it is re-encrypted opportunistically; a failure there
// is logged and swallowed since the read itself succeeded.
func (p *Processor) Load(ctx context.Context, tenantID string, id uuid.UUID) (*document.ExtractedPayload, error) {
	doc, err := p.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var payload document.ExtractedPayload
	encrypted := &crypto.EncryptedPayload{
		Ciphertext: doc.Ciphertext,
		Nonce:      doc.Nonce,
		KeyVersion: doc.KeyVersion,
	}
	if err := p.cryptoSvc.Decrypt(encrypted, tenantID, &payload); err != nil {
		prometheus.CryptoOperationsTotal.WithLabelValues("decrypt", "error").Inc()
		return nil, err
	}
	prometheus.CryptoOperationsTotal.WithLabelValues("decrypt", "ok").Inc()

	if current := p.cryptoSvc.CurrentKeyVersion(tenantID); doc.KeyVersion < current {
		if err := p.reencrypt(ctx, doc, &payload, current); err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"tenant_id":   tenantID,
				"document_id": doc.ID,
			}).Warn("opportunistic re-encryption failed")
		}
	}

	return &payload, nil
}

func (p *Processor) reencrypt(ctx context.Context, doc *document.Document, payload *document.ExtractedPayload, version int) error {
	encrypted, err := p.cryptoSvc.Encrypt(payload, doc.TenantID, version)
	if err != nil {
		return err
	}
	classified := p.classifier.Classify(payload.Fields, doc.DocumentType)
	indexes, _, err := p.buildBlindIndexes(doc.TenantID, classified)
	if err != nil {
		return err
	}
	updated := *doc
	updated.Ciphertext = encrypted.Ciphertext
	updated.Nonce = encrypted.Nonce
	updated.KeyVersion = encrypted.KeyVersion
	return p.repo.ReplaceEncrypted(ctx, &updated, indexes)
}

// buildBlindIndexes computes one index per searchable classified field.
func (p *Processor) buildBlindIndexes(tenantID string, classified []domainclass.ClassifiedField) ([]document.BlindIndex, []string, error) {
	var indexes []document.BlindIndex
	var indexed []string
	for _, cf := range classified {
		if !cf.Classification.Searchable() {
			continue
		}
		hash, err := p.cryptoSvc.BlindIndex(cf.Value, tenantID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compute blind index for '%s': %w", cf.Key, err)
		}
		indexes = append(indexes, document.BlindIndex{
			FieldName: cf.Key,
			IndexHash: hash,
		})
		indexed = append(indexed, cf.Key)
	}
	return indexes, indexed, nil
}
