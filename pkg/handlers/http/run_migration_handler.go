package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/migration"
)

type runMigrationHandler struct {
	logger *logrus.Logger
	worker *migration.Worker
}

func NewRunMigrationHandler(logger *logrus.Logger, worker *migration.Worker) Handler {
	return &runMigrationHandler{
		logger: logger,
		worker: worker,
	}
}

// Handle triggers one synchronous sweep for the tenant. If another instance
// holds the sweep lock the call still returns 200 with zero counts.
func (h *runMigrationHandler) Handle(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	if tenantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tenant ID is required"})
	}

	result, err := h.worker.Sweep(c.Context(), tenantID)
	if err != nil {
		h.logger.WithError(err).WithField("tenant_id", tenantID).Error("migration sweep failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "migration sweep failed"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
