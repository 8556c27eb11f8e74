package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appdocument "github.com/FormVault/formvault/pkg/app/document"
	"github.com/FormVault/formvault/pkg/domain"
)

type fillFormHandler struct {
	logger *logrus.Logger
	filler *appdocument.Filler
}

type fillFormRequest struct {
	TargetFields []string `json:"target_fields"`
}

func NewFillFormHandler(logger *logrus.Logger, filler *appdocument.Filler) Handler {
	return &fillFormHandler{
		logger: logger,
		filler: filler,
	}
}

func (h *fillFormHandler) Handle(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	id, err := uuid.Parse(c.Params("document_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document ID"})
	}

	var req fillFormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if len(req.TargetFields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target_fields is required"})
	}

	result, err := h.filler.Fill(c.Context(), tenantID, id, req.TargetFields)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}
		h.logger.WithError(err).Error("failed to fill form")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fill form"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
