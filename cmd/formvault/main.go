package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appdocument "github.com/FormVault/formvault/pkg/app/document"
	"github.com/FormVault/formvault/pkg/classification"
	"github.com/FormVault/formvault/pkg/common"
	"github.com/FormVault/formvault/pkg/config"
	"github.com/FormVault/formvault/pkg/crypto"
	"github.com/FormVault/formvault/pkg/doctype"
	"github.com/FormVault/formvault/pkg/extraction"
	handlers "github.com/FormVault/formvault/pkg/handlers/http"
	infraCache "github.com/FormVault/formvault/pkg/infra/cache"
	"github.com/FormVault/formvault/pkg/infra/database"
	infraLogger "github.com/FormVault/formvault/pkg/infra/logger"
	"github.com/FormVault/formvault/pkg/infra/repository"
	"github.com/FormVault/formvault/pkg/mapping"
	"github.com/FormVault/formvault/pkg/migration"
	"github.com/FormVault/formvault/pkg/server"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheInstance, err := infraCache.NewCache(common.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatalf("failed to initialize cache: %v", err)
	}

	masterKey := os.Getenv(common.MasterKeyEnvVar)
	keyCache := cacheInstance.CreateTTLMap(infraCache.KeyMaterialTTLName, infraCache.KeyMaterialCacheTTL)
	keyring, err := crypto.NewKeyring(masterKey, keyCache)
	if err != nil {
		logger.Fatalf("failed to initialize keyring: %v", err)
	}
	cryptoSvc := crypto.NewService(keyring, cfg.Crypto.KeyVersions, cfg.Crypto.DefaultKeyVersion, logger)

	extractor := extraction.NewExtractor(logger)
	detector := doctype.NewDetector()

	classifierCfg := classification.DefaultConfig()
	if len(cfg.Classification) > 0 {
		classifierCfg, err = classifierCfg.WithOverrides(cfg.Classification)
		if err != nil {
			logger.Fatalf("failed to apply classification overrides: %v", err)
		}
	}
	classifier := classification.NewClassifier(classifierCfg, logger)
	mapper := mapping.NewMapper(mapping.DefaultConfig(), logger)

	repo := repository.NewDocumentRepository(db.DB)

	processor := appdocument.NewProcessor(extractor, detector, classifier, cryptoSvc, repo, logger)
	searcher := appdocument.NewSearcher(cryptoSvc, repo, logger)
	filler := appdocument.NewFiller(processor, mapper, logger)

	migrationLock := infraCache.NewMigrationLock(cacheInstance, 5*time.Minute)
	worker := migration.NewWorker(
		extractor,
		detector,
		classifier,
		cryptoSvc,
		repo,
		migrationLock,
		cfg.Migration.BatchSize,
		time.Duration(cfg.Migration.IntervalSeconds)*time.Second,
		cfg.Migration.Tenants,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Migration.Enabled {
		go worker.Run(ctx)
	}

	apiServer := server.NewAPIServer(server.APIServerDI{
		HandlerTransport: handlers.HandlerTransport{
			ProcessDocumentHandler: handlers.NewProcessDocumentHandler(logger, processor),
			GetDocumentHandler:     handlers.NewGetDocumentHandler(logger, processor),
			SearchDocumentsHandler: handlers.NewSearchDocumentsHandler(logger, searcher),
			FillFormHandler:        handlers.NewFillFormHandler(logger, filler),
			SuggestMappingsHandler: handlers.NewSuggestMappingsHandler(logger, filler),
			RunMigrationHandler:    handlers.NewRunMigrationHandler(logger, worker),
		},
		Config: cfg,
		Logger: logger,
	})

	go func() {
		if err := apiServer.Run(); err != nil {
			logger.WithError(err).Fatal("API server exited")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()
	if err := apiServer.Shutdown(); err != nil {
		logger.WithError(err).Error("failed to shut down API server")
	}
}
