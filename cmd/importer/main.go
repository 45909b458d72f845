package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/beyzasenay/mini-crm/internal/etl"
	"github.com/beyzasenay/mini-crm/internal/repository"
	"github.com/beyzasenay/mini-crm/internal/service"
	"github.com/beyzasenay/mini-crm/pkg/config"
)

func main() {
	reportPath := flag.String("report", "etl-report.json", "path for the JSON import report")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: importer [-report report.json] <csv-file>")
		os.Exit(1)
	}
	csvPath := flag.Arg(0)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := repository.Open(cfg.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	customerRepo := repository.NewCustomerRepository(db)
	matcher := service.NewDuplicateMatcher(customerRepo)
	customerService := service.NewCustomerService(customerRepo, matcher, logger)
	importer := etl.NewImporter(customerService, logger)

	report, err := importer.ImportFile(context.Background(), csvPath)
	if err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}
	if err := etl.WriteReport(report, *reportPath); err != nil {
		logger.Fatal("Failed to write report", zap.Error(err))
	}

	logger.Info("Import complete", zap.String("report", *reportPath))
}
