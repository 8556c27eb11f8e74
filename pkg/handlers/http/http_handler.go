package http

import "github.com/gofiber/fiber/v2"

const ErrInvalidJsonPayload = "invalid JSON payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Documents
	ProcessDocumentHandler Handler
	GetDocumentHandler     Handler
	SearchDocumentsHandler Handler

	// Forms
	FillFormHandler        Handler
	SuggestMappingsHandler Handler

	// Migration
	RunMigrationHandler Handler
}
