package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"valuerank/adapters/postgres"
	"valuerank/app"
	"valuerank/internal"
	"valuerank/internal/config"
	"valuerank/internal/errors"
	"valuerank/internal/testkit"
	"valuerank/ports"
	"valuerank/ui"
)

// initDatabase opens the PostgreSQL connection pool
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	db.SetMaxOpenConns(appConfig.Database.MaxOpenConns)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	logger := internal.NewDefaultLogger()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Pick the analysis source: postgres when configured, demo data otherwise
	var reader ports.AnalysisReader
	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		reader = postgres.NewAnalysisRepository(db)
		logger.Info("serving analyses from postgres")
	} else {
		kit, err := testkit.NewTestKit()
		if err != nil {
			log.Fatalf("Failed to initialize demo data: %v", err)
		}
		reader = kit.AnalysisReaderAdapter()
		logger.Info("no DATABASE_URL configured, serving generated demo analyses")
	}

	service := app.NewComparisonService(reader)
	httpApp := ui.NewApp(service, reader, logger)

	if err := httpApp.Start(appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
