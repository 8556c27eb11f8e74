package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appdocument "github.com/FormVault/formvault/pkg/app/document"
	"github.com/FormVault/formvault/pkg/domain"
)

const defaultSuggestionLimit = 5

type suggestMappingsHandler struct {
	logger *logrus.Logger
	filler *appdocument.Filler
}

func NewSuggestMappingsHandler(logger *logrus.Logger, filler *appdocument.Filler) Handler {
	return &suggestMappingsHandler{
		logger: logger,
		filler: filler,
	}
}

func (h *suggestMappingsHandler) Handle(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	id, err := uuid.Parse(c.Params("document_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document ID"})
	}

	target := c.Query("target")
	if target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target query parameter is required"})
	}
	limit := c.QueryInt("limit", defaultSuggestionLimit)

	suggestions, err := h.filler.Suggest(c.Context(), tenantID, id, target, limit)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}
		h.logger.WithError(err).Error("failed to compute mapping suggestions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute mapping suggestions"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"suggestions": suggestions})
}
