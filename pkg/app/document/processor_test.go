package document

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FormVault/formvault/pkg/classification"
	"github.com/FormVault/formvault/pkg/crypto"
	"github.com/FormVault/formvault/pkg/doctype"
	"github.com/FormVault/formvault/pkg/domain"
	"github.com/FormVault/formvault/pkg/domain/document"
	"github.com/FormVault/formvault/pkg/domain/document/mocks"
	"github.com/FormVault/formvault/pkg/extraction"
	"github.com/FormVault/formvault/pkg/mapping"
	"github.com/google/uuid"
)

const passportText = "United Arab Emirates\nPassport\n" +
	"Passport No: A1234567\n" +
	"Name: John Smith\n" +
	"Date of Birth: 15/08/1990\n" +
	"Nationality: British\n"

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestCryptoService(t *testing.T, versions map[string]int) *crypto.Service {
	t.Helper()
	key := make([]byte, crypto.KeySize)
	for i := range key {
		key[i] = byte(i + 1)
	}
	keyring, err := crypto.NewKeyring(base64.StdEncoding.EncodeToString(key), nil)
	require.NoError(t, err)
	return crypto.NewService(keyring, versions, 1, testLogger())
}

func newTestProcessor(t *testing.T, repo document.Repository, versions map[string]int) *Processor {
	t.Helper()
	logger := testLogger()
	return NewProcessor(
		extraction.NewExtractor(logger),
		doctype.NewDetector(),
		classification.NewClassifier(classification.DefaultConfig(), logger),
		newTestCryptoService(t, versions),
		repo,
		logger,
	)
}

func TestProcess_PassportDocument(t *testing.T) {
	repo := new(mocks.Repository)
	var saved *document.Document
	repo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*document.Document)
		}).
		Return(nil)

	processor := newTestProcessor(t, repo, nil)
	result, err := processor.Process(context.Background(), "tenant-a", passportText)
	require.NoError(t, err)

	assert.Equal(t, document.TypePassport, result.DocumentType)
	assert.Equal(t, 1, result.KeyVersion)
	assert.Contains(t, result.Indexed, "passport_no")
	assert.Contains(t, result.Indexed, "name")
	assert.NotEmpty(t, result.Fields)

	require.NotNil(t, saved)
	assert.Equal(t, "tenant-a", saved.TenantID)
	assert.NotEmpty(t, saved.Ciphertext)
	assert.Len(t, saved.Nonce, crypto.NonceSize)
	assert.NotContains(t, string(saved.Ciphertext), "A1234567")
	assert.Len(t, saved.BlindIndexes, len(result.Indexed))
	repo.AssertExpectations(t)
}

func TestProcess_PublicFieldsNotIndexed(t *testing.T) {
	repo := new(mocks.Repository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	processor := newTestProcessor(t, repo, nil)
	result, err := processor.Process(context.Background(), "tenant-a", "Remarks: approved\n")
	require.NoError(t, err)

	assert.NotContains(t, result.Indexed, "remarks")
	assert.Empty(t, result.Indexed)
}

func TestLoad_RoundTrip(t *testing.T) {
	repo := new(mocks.Repository)
	var saved *document.Document
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*document.Document)
		}).
		Return(nil)

	processor := newTestProcessor(t, repo, nil)
	result, err := processor.Process(context.Background(), "tenant-a", passportText)
	require.NoError(t, err)

	saved.ID = result.DocumentID
	repo.On("GetByID", mock.Anything, "tenant-a", result.DocumentID).Return(saved, nil)

	payload, err := processor.Load(context.Background(), "tenant-a", result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "A1234567", payload.Fields["passport_no"])
	assert.Equal(t, passportText, payload.RawText)
}

func TestLoad_ReencryptsOldKeyVersion(t *testing.T) {
	repo := new(mocks.Repository)
	var saved *document.Document
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*document.Document)
		}).
		Return(nil)

	// write at version 1, then read with the tenant rotated to version 2
	writer := newTestProcessor(t, repo, nil)
	result, err := writer.Process(context.Background(), "tenant-a", passportText)
	require.NoError(t, err)
	require.Equal(t, 1, saved.KeyVersion)

	saved.ID = result.DocumentID
	repo.On("GetByID", mock.Anything, "tenant-a", result.DocumentID).Return(saved, nil)
	repo.On("ReplaceEncrypted", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(*document.Document)
			assert.Equal(t, 2, updated.KeyVersion)
		}).
		Return(nil)

	reader := newTestProcessor(t, repo, map[string]int{"tenant-a": 2})
	payload, err := reader.Load(context.Background(), "tenant-a", result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "A1234567", payload.Fields["passport_no"])
	repo.AssertCalled(t, "ReplaceEncrypted", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoad_NotFound(t *testing.T) {
	repo := new(mocks.Repository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, "tenant-a", id).
		Return(nil, domain.NewNotFoundError("document", id))

	processor := newTestProcessor(t, repo, nil)
	_, err := processor.Load(context.Background(), "tenant-a", id)
	require.Error(t, err)
	assert.True(t, domain.IsNotFoundError(err))
}

func TestSearch_MatchesStoredIndex(t *testing.T) {
	repo := new(mocks.Repository)
	var saved *document.Document
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*document.Document)
		}).
		Return(nil)

	processor := newTestProcessor(t, repo, nil)
	cryptoSvc := newTestCryptoService(t, nil)
	_, err := processor.Process(context.Background(), "tenant-a", passportText)
	require.NoError(t, err)

	var storedHash string
	for _, idx := range saved.BlindIndexes {
		if idx.FieldName == "passport_no" {
			storedHash = idx.IndexHash
		}
	}
	require.NotEmpty(t, storedHash)

	// the query goes through the same normalization, so case differences
	// still hit the stored index
	repo.On("FindByBlindIndex", mock.Anything, "tenant-a", "passport_no", storedHash).
		Return([]*document.Document{saved}, nil)

	searcher := NewSearcher(cryptoSvc, repo, testLogger())
	results, err := searcher.Search(context.Background(), "tenant-a", "passport_no", "a1234567")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, document.TypePassport, results[0].DocumentType)
}

func TestFill_MapsDecryptedFields(t *testing.T) {
	repo := new(mocks.Repository)
	var saved *document.Document
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*document.Document)
		}).
		Return(nil)

	processor := newTestProcessor(t, repo, nil)
	result, err := processor.Process(context.Background(), "tenant-a", passportText)
	require.NoError(t, err)

	saved.ID = result.DocumentID
	repo.On("GetByID", mock.Anything, "tenant-a", result.DocumentID).Return(saved, nil)

	filler := NewFiller(processor, mapping.NewMapper(mapping.DefaultConfig(), testLogger()), testLogger())
	fill, err := filler.Fill(context.Background(), "tenant-a", result.DocumentID,
		[]string{"Passport Number", "Date of Birth", "favorite_color"})
	require.NoError(t, err)

	passport, ok := findMapping(fill.Mappings, "Passport Number")
	require.True(t, ok)
	assert.Equal(t, "A1234567", passport.Value)

	assert.Contains(t, fill.Unmapped, "favorite_color")
	assert.NotContains(t, fill.Unmapped, "Passport Number")
}

func findMapping(mappings []mapping.FieldMapping, target string) (mapping.FieldMapping, bool) {
	for _, m := range mappings {
		if m.TargetField == target {
			return m, true
		}
	}
	return mapping.FieldMapping{}, false
}
