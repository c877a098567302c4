package cmd

import (
	"fmt"

	"github.com/repolens/ingest/internal/app/ingest"
	"github.com/repolens/ingest/internal/app/secrets"
	"github.com/repolens/ingest/internal/config"
	"github.com/repolens/ingest/internal/infra/postgres"
	"github.com/repolens/ingest/internal/metrics"
	"github.com/repolens/ingest/pkg/logger"
	"github.com/repolens/ingest/pkg/parsers/reports"
)

// application bundles the wired pipeline for one command invocation.
type application struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *postgres.DB
	service *ingest.Service
}

// newApplication loads configuration and wires the full pipeline.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	parser := reports.New(log)
	parser.SetFailureCallback(func(scanner string) {
		metrics.ParseFailures.WithLabelValues(scanner).Inc()
	})

	service := ingest.NewService(
		cfg,
		postgres.NewRepoRepository(db),
		postgres.NewScanRunRepository(db),
		postgres.NewFindingRepository(db),
		postgres.NewIntelRepository(db),
		parser,
		secrets.NewValidator(cfg.Validation, log),
		log,
	)

	return &application{
		cfg:     cfg,
		log:     log,
		db:      db,
		service: service,
	}, nil
}

// Close releases the application's resources.
func (a *application) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Error("failed to close database", "error", err)
	}
}
