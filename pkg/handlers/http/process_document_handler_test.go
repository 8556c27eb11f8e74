package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appdocument "github.com/FormVault/formvault/pkg/app/document"
	"github.com/FormVault/formvault/pkg/classification"
	"github.com/FormVault/formvault/pkg/crypto"
	"github.com/FormVault/formvault/pkg/doctype"
	"github.com/FormVault/formvault/pkg/domain"
	"github.com/FormVault/formvault/pkg/domain/document"
	"github.com/FormVault/formvault/pkg/domain/document/mocks"
	"github.com/FormVault/formvault/pkg/extraction"
)

func newTestProcessor(t *testing.T, repo document.Repository) *appdocument.Processor {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	key := make([]byte, crypto.KeySize)
	for i := range key {
		key[i] = byte(i + 3)
	}
	keyring, err := crypto.NewKeyring(base64.StdEncoding.EncodeToString(key), nil)
	require.NoError(t, err)

	return appdocument.NewProcessor(
		extraction.NewExtractor(logger),
		doctype.NewDetector(),
		classification.NewClassifier(classification.DefaultConfig(), logger),
		crypto.NewService(keyring, nil, 1, logger),
		repo,
		logger,
	)
}

func TestProcessDocumentHandler_Success(t *testing.T) {
	repo := new(mocks.Repository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	handler := NewProcessDocumentHandler(logrus.New(), newTestProcessor(t, repo))

	app := fiber.New()
	app.Post("/api/v1/tenants/:tenant_id/documents", handler.Handle)

	body, err := json.Marshal(map[string]string{
		"text": "United Arab Emirates\nPassport\nPassport No: A1234567\nName: John Smith\n",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/tenants/tenant-a/documents", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result appdocument.ProcessResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, document.TypePassport, result.DocumentType)
	assert.Contains(t, result.Indexed, "passport_no")
	repo.AssertExpectations(t)
}

func TestProcessDocumentHandler_EmptyText(t *testing.T) {
	repo := new(mocks.Repository)
	handler := NewProcessDocumentHandler(logrus.New(), newTestProcessor(t, repo))

	app := fiber.New()
	app.Post("/api/v1/tenants/:tenant_id/documents", handler.Handle)

	body, _ := json.Marshal(map[string]string{"text": ""})
	req := httptest.NewRequest("POST", "/api/v1/tenants/tenant-a/documents", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetDocumentHandler_NotFound(t *testing.T) {
	repo := new(mocks.Repository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, "tenant-a", id).
		Return(nil, domain.NewNotFoundError("document", id))

	handler := NewGetDocumentHandler(logrus.New(), newTestProcessor(t, repo))

	app := fiber.New()
	app.Get("/api/v1/tenants/:tenant_id/documents/:document_id", handler.Handle)

	req := httptest.NewRequest("GET", "/api/v1/tenants/tenant-a/documents/"+id.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetDocumentHandler_InvalidID(t *testing.T) {
	repo := new(mocks.Repository)
	handler := NewGetDocumentHandler(logrus.New(), newTestProcessor(t, repo))

	app := fiber.New()
	app.Get("/api/v1/tenants/:tenant_id/documents/:document_id", handler.Handle)

	req := httptest.NewRequest("GET", "/api/v1/tenants/tenant-a/documents/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
