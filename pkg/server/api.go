package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/config"
	handlers "github.com/FormVault/formvault/pkg/handlers/http"
)

type (
	APIServerDI struct {
		HandlerTransport handlers.HandlerTransport
		Config           *config.Config
		Logger           *logrus.Logger
	}
	APIServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	return &APIServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
	}
}

func (s *APIServer) Run() error {
	s.Router.Use(recover.New())
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting API server")
	return s.Router.Listen(addr)
}

func (s *APIServer) setupRoutes() {
	v1 := s.Router.Group("/api/v1")
	{
		tenants := v1.Group("/tenants/:tenant_id")
		{
			documents := tenants.Group("/documents")
			{
				documents.Post("", s.handlerTransport.ProcessDocumentHandler.Handle)
				documents.Post("/search", s.handlerTransport.SearchDocumentsHandler.Handle)
				documents.Get("/:document_id", s.handlerTransport.GetDocumentHandler.Handle)
				documents.Post("/:document_id/fill", s.handlerTransport.FillFormHandler.Handle)
				documents.Get("/:document_id/suggestions", s.handlerTransport.SuggestMappingsHandler.Handle)
			}

			tenants.Post("/migration/run", s.handlerTransport.RunMigrationHandler.Handle)
		}
	}
}

func (s *APIServer) Shutdown() error {
	return s.Router.Shutdown()
}
