package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appdocument "github.com/FormVault/formvault/pkg/app/document"
	"github.com/FormVault/formvault/pkg/domain"
)

type getDocumentHandler struct {
	logger    *logrus.Logger
	processor *appdocument.Processor
}

func NewGetDocumentHandler(logger *logrus.Logger, processor *appdocument.Processor) Handler {
	return &getDocumentHandler{
		logger:    logger,
		processor: processor,
	}
}

func (h *getDocumentHandler) Handle(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	id, err := uuid.Parse(c.Params("document_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document ID"})
	}

	payload, err := h.processor.Load(c.Context(), tenantID, id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}
		if domain.IsAuthenticationError(err) {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"tenant_id":   tenantID,
				"document_id": id,
			}).Error("decryption failed")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "stored record failed integrity verification"})
		}
		h.logger.WithError(err).Error("failed to load document")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load document"})
	}

	return c.Status(fiber.StatusOK).JSON(payload)
}
