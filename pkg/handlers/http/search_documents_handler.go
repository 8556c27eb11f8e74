package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	appdocument "github.com/FormVault/formvault/pkg/app/document"
)

type searchDocumentsHandler struct {
	logger   *logrus.Logger
	searcher *appdocument.Searcher
}

type searchDocumentsRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func NewSearchDocumentsHandler(logger *logrus.Logger, searcher *appdocument.Searcher) Handler {
	return &searchDocumentsHandler{
		logger:   logger,
		searcher: searcher,
	}
}

func (h *searchDocumentsHandler) Handle(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")

	var req searchDocumentsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.Field == "" || req.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field and value are required"})
	}

	results, err := h.searcher.Search(c.Context(), tenantID, req.Field, req.Value)
	if err != nil {
		h.logger.WithError(err).Error("failed to search documents")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to search documents"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"results": results, "count": len(results)})
}
