package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	appdocument "github.com/FormVault/formvault/pkg/app/document"
)

type processDocumentHandler struct {
	logger    *logrus.Logger
	processor *appdocument.Processor
}

type processDocumentRequest struct {
	Text string `json:"text"`
}

func NewProcessDocumentHandler(logger *logrus.Logger, processor *appdocument.Processor) Handler {
	return &processDocumentHandler{
		logger:    logger,
		processor: processor,
	}
}

func (h *processDocumentHandler) Handle(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	if tenantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tenant ID is required"})
	}

	var req processDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}

	result, err := h.processor.Process(c.Context(), tenantID, req.Text)
	if err != nil {
		h.logger.WithError(err).Error("failed to process document")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to process document"})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
