// Package migration encrypts legacy plaintext records in the background.
// Sweeps are batched, cursor-paginated and safe to interrupt: every record
// migrates in its own transaction, so a crash mid-batch leaves no partial
// record and the next sweep simply resumes where the data says it should.
package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/classification"
	"github.com/FormVault/formvault/pkg/crypto"
	"github.com/FormVault/formvault/pkg/doctype"
	"github.com/FormVault/formvault/pkg/domain/document"
	"github.com/FormVault/formvault/pkg/extraction"
	"github.com/FormVault/formvault/pkg/infra/cache"
	"github.com/FormVault/formvault/pkg/infra/prometheus"
	"github.com/google/uuid"
)

// Result summarizes one batch.
type Result struct {
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

type Worker struct {
	extractor  *extraction.Extractor
	detector   *doctype.Detector
	classifier *classification.Classifier
	cryptoSvc  *crypto.Service
	repo       document.Repository
	lock       *cache.MigrationLock
	batchSize  int
	interval   time.Duration
	tenants    []string
	logger     logrus.FieldLogger
}

func NewWorker(
	extractor *extraction.Extractor,
	detector *doctype.Detector,
	classifier *classification.Classifier,
	cryptoSvc *crypto.Service,
	repo document.Repository,
	lock *cache.MigrationLock,
	batchSize int,
	interval time.Duration,
	tenants []string,
	logger logrus.FieldLogger,
) *Worker {
	return &Worker{
		extractor:  extractor,
		detector:   detector,
		classifier: classifier,
		cryptoSvc:  cryptoSvc,
		repo:       repo,
		lock:       lock,
		batchSize:  batchSize,
		interval:   interval,
		tenants:    tenants,
		logger:     logger,
	}
}

// Run loops until the context is cancelled, sweeping every configured tenant
// once per interval. Cancellation is honoured between batches, never inside a
// record.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweepAll(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("migration worker stopped")
			return
		case <-ticker.C:
			w.sweepAll(ctx)
		}
	}
}

func (w *Worker) sweepAll(ctx context.Context) {
	for _, tenantID := range w.tenants {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.Sweep(ctx, tenantID); err != nil {
			w.logger.WithError(err).WithField("tenant_id", tenantID).Error("migration sweep failed")
		}
	}
}

// Sweep drains a tenant's legacy backlog under the distributed lock, batch by
// batch, until no legacy records remain or the context is cancelled. Returns
// the totals across all batches.
func (w *Worker) Sweep(ctx context.Context, tenantID string) (Result, error) {
	acquired, err := w.lock.Acquire(ctx, tenantID)
	if err != nil {
		return Result{}, err
	}
	if !acquired {
		w.logger.WithField("tenant_id", tenantID).Debug("migration lock held elsewhere, skipping sweep")
		return Result{}, nil
	}
	defer func() {
		if err := w.lock.Release(context.Background(), tenantID); err != nil {
			w.logger.WithError(err).WithField("tenant_id", tenantID).Warn("failed to release migration lock")
		}
	}()

	var total Result
	var cursor *uuid.UUID
	for {
		if ctx.Err() != nil {
			return total, nil
		}
		res, next, err := w.MigrateBatch(ctx, tenantID, cursor)
		total.Migrated += res.Migrated
		total.Failed += res.Failed
		if err != nil {
			return total, err
		}
		if next == nil {
			return total, nil
		}
		cursor = next
		if err := w.lock.Refresh(ctx, tenantID); err != nil {
			w.logger.WithError(err).WithField("tenant_id", tenantID).Warn("failed to refresh migration lock")
		}
	}
}

// MigrateBatch migrates up to batchSize legacy records after cursor. A
// failing record is counted, logged and left for the next sweep; the returned
// cursor moves past it so one bad record cannot wedge the current sweep. A nil
// cursor on return means the backlog is drained.
func (w *Worker) MigrateBatch(ctx context.Context, tenantID string, cursor *uuid.UUID) (Result, *uuid.UUID, error) {
	var res Result

	docs, err := w.repo.ListLegacy(ctx, tenantID, cursor, w.batchSize)
	if err != nil {
		return res, nil, fmt.Errorf("failed to list legacy records: %w", err)
	}

	for _, doc := range docs {
		// a record encrypted since the listing is neither migrated nor failed
		if doc.Encrypted() {
			continue
		}
		if err := w.migrateRecord(ctx, doc); err != nil {
			res.Failed++
			prometheus.MigrationRecordsTotal.WithLabelValues(tenantID, "error").Inc()
			w.logger.WithError(err).WithFields(logrus.Fields{
				"tenant_id":   tenantID,
				"document_id": doc.ID,
			}).Error("failed to migrate record")
			continue
		}
		res.Migrated++
		prometheus.MigrationRecordsTotal.WithLabelValues(tenantID, "ok").Inc()
	}

	if res.Migrated+res.Failed > 0 {
		w.logger.WithFields(logrus.Fields{
			"tenant_id": tenantID,
			"migrated":  res.Migrated,
			"failed":    res.Failed,
		}).Info("migration batch complete")
	}

	if len(docs) < w.batchSize {
		return res, nil, nil
	}
	next := docs[len(docs)-1].ID
	return res, &next, nil
}

func (w *Worker) migrateRecord(ctx context.Context, doc *document.Document) error {
	fields, entities := w.extractor.Extract(doc.LegacyPlaintext)
	docType := doc.DocumentType
	if docType == document.TypeUnknown {
		docType = w.detector.Detect(doc.LegacyPlaintext)
	}
	classified := w.classifier.Classify(fields, docType)

	payload := document.ExtractedPayload{
		Fields:   fields,
		Entities: entities,
		RawText:  doc.LegacyPlaintext,
	}
	keyVersion := w.cryptoSvc.CurrentKeyVersion(doc.TenantID)
	encrypted, err := w.cryptoSvc.Encrypt(&payload, doc.TenantID, keyVersion)
	if err != nil {
		return fmt.Errorf("failed to encrypt legacy record: %w", err)
	}

	var indexes []document.BlindIndex
	for _, cf := range classified {
		if !cf.Classification.Searchable() {
			continue
		}
		hash, err := w.cryptoSvc.BlindIndex(cf.Value, doc.TenantID)
		if err != nil {
			return fmt.Errorf("failed to compute blind index for '%s': %w", cf.Key, err)
		}
		indexes = append(indexes, document.BlindIndex{FieldName: cf.Key, IndexHash: hash})
	}

	updated := *doc
	updated.DocumentType = docType
	updated.Ciphertext = encrypted.Ciphertext
	updated.Nonce = encrypted.Nonce
	updated.KeyVersion = encrypted.KeyVersion
	return w.repo.ReplaceEncrypted(ctx, &updated, indexes)
}
