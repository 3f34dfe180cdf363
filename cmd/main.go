package main

import (
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/tender-board/internal/db"
	"github.com/senyabanana/tender-board/internal/handlers"
	"github.com/senyabanana/tender-board/internal/logger"
	"github.com/senyabanana/tender-board/internal/notification"
	"github.com/senyabanana/tender-board/internal/repository"
	"github.com/senyabanana/tender-board/internal/router"
	"github.com/senyabanana/tender-board/internal/router/config"
	"github.com/senyabanana/tender-board/internal/services"
	"github.com/senyabanana/tender-board/internal/storage"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	zapLogger := logger.InitLogger()
	defer zapLogger.Sync()

	objectStorage, err := storage.NewMinioStorage(cfg)
	if err != nil {
		log.Fatalf("error initializing object storage: %v", err)
	}

	tenderRepo := repository.NewPostgresTenderRepository(dbPool)
	partyRepo := repository.NewPostgresPartyRepository(dbPool)

	mailer := notification.NewSMTPMailer(cfg)
	dispatcher := notification.NewDispatcher(partyRepo, mailer, zapLogger, cfg.WebAppOrigin)

	tenderService := services.NewTenderService(tenderRepo, partyRepo, dispatcher, zapLogger)
	uploadService := services.NewUploadService(objectStorage, tenderService, dispatcher, zapLogger)

	tenderHandler := handlers.NewTenderHandler(tenderService, uploadService, zapLogger, 30*time.Second)

	routes := router.InitRoutes(tenderHandler)

	zapLogger.Info("server is listening", zap.String("address", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
