package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"drivesync/application"
	"drivesync/database"
	"drivesync/domain/contracts"
	"drivesync/domain/drive"
	"drivesync/export"
	"drivesync/gdauth"
	"drivesync/infrastructure/collector"
	"drivesync/infrastructure/config"
	"drivesync/infrastructure/driveclient"
	"drivesync/infrastructure/repositories"
	"drivesync/interfaces/web/handlers"
	"drivesync/logging"
)

func main() {
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	serve := flag.Bool("serve", false, "run the admin HTTP server instead of a one-shot collection")
	dryRun := flag.Bool("dry-run", false, "discover and fetch content without writing to the persisted store")
	exportPath := flag.String("export", "", "write discovered records to a CSV file (dry-run)")
	refreshAttribution := flag.Bool("refresh-attribution", false, "relabel persisted documents from current folder names and exit")
	reingestAfter := flag.String("reingest-after", "", "delete documents created after this date (YYYY-MM-DD) and re-collect the window")
	flag.Parse()

	loadEnvironment()
	cfg, err := config.LoadAppConfigFromEnv()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := initializeLogging(cfg)

	// Remote store client
	authCfg, err := gdauth.FromEnv()
	if err != nil {
		logger.Error("Drive auth configuration failed", "error", err)
		os.Exit(1)
	}
	driveSvc, err := gdauth.NewService(appCtx, authCfg)
	if err != nil {
		logger.Error("Failed to build Drive service", "error", err)
		os.Exit(1)
	}
	client := driveclient.NewClient(driveSvc)

	engine := collector.NewDiscoveryEngine(client)
	fetcher := collector.NewContentFetcher(client)
	resolver := collector.NewAttributionResolver(client)

	if *dryRun {
		runDry(appCtx, engine, fetcher, cfg, *exportPath, logger)
		return
	}

	// Persisted store, explicitly owned and released
	db := initializeDatabase(appCtx, cfg, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error("Failed to close persisted store", "error", err)
		}
	}()

	repoFor := application.RepositoryFactory(func(collection string) contracts.DocumentRepository {
		return repositories.NewMongoDocumentRepository(db.Collection(collection))
	})
	service := application.NewCollectService(engine, fetcher, resolver, repoFor)
	sources := toSources(cfg.Sources)

	switch {
	case *reingestAfter != "":
		runReingest(appCtx, service, sources, cfg.Filter, *reingestAfter, logger)
	case *refreshAttribution:
		runRefreshAttribution(appCtx, service, sources, logger)
	case *serve:
		router := setupRoutes(service, db, sources, cfg, logger)
		startServer(router, cfg.HTTPAddr, logger, appCancel)
	default:
		runOnce(appCtx, service, sources, cfg.Filter, logger)
	}
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Collector starting",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"sources", len(cfg.Sources),
	)
	return logger
}

func initializeDatabase(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(ctx, *cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize persisted store", "error", err)
		os.Exit(1)
	}
	return db
}

func toSources(configured []config.Source) []application.Source {
	sources := make([]application.Source, 0, len(configured))
	for _, s := range configured {
		sources = append(sources, application.Source{
			Name:       s.Name,
			FolderID:   s.FolderID,
			Collection: s.Collection,
			Attribute:  s.Attribute,
		})
	}
	return sources
}

// runOnce performs one collection run and exits non-zero if any source
// failed.
func runOnce(ctx context.Context, service *application.CollectService, sources []application.Source, filter drive.FilterRequest, logger *logging.Logger) {
	summary, err := service.Run(ctx, sources, filter)
	if err != nil {
		logger.Error("Collection run failed", "error", err)
		os.Exit(1)
	}
	if summary.Failed() {
		logger.Error("Collection run finished with failed sources", "run_id", summary.RunID)
		os.Exit(1)
	}
}

// runRefreshAttribution relabels persisted documents for every source that
// carries attribution.
func runRefreshAttribution(ctx context.Context, service *application.CollectService, sources []application.Source, logger *logging.Logger) {
	failed := false
	for _, source := range sources {
		if !source.Attribute {
			continue
		}
		if _, err := service.RefreshAttribution(ctx, source); err != nil {
			logger.CollectError("Attribution refresh failed", err, source.Name)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// runReingest deletes documents created after the cutoff and replays
// collection from that date for every source.
func runReingest(ctx context.Context, service *application.CollectService, sources []application.Source, filter drive.FilterRequest, cutoffDate string, logger *logging.Logger) {
	cutoff, err := time.Parse(drive.DateLayout, cutoffDate)
	if err != nil {
		logger.Error("Invalid re-ingest cutoff date", "value", cutoffDate, "error", err)
		os.Exit(1)
	}
	filter.StartDate = cutoffDate

	failed := false
	for _, source := range sources {
		summary, err := service.ReingestAfter(ctx, source, cutoff, filter)
		if err != nil {
			logger.CollectError("Re-ingest failed", err, source.Name)
			failed = true
			continue
		}
		if summary.Error != "" {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// runDry discovers and fetches content without touching the persisted
// store, optionally exporting the records and fetch outcomes to CSV.
func runDry(ctx context.Context, engine *collector.DiscoveryEngine, fetcher *collector.ContentFetcher, cfg *config.AppConfig, exportPath string, logger *logging.Logger) {
	var all []*drive.FileRecord
	var outcomes []collector.FetchResult
	for _, source := range cfg.Sources {
		filter := cfg.Filter
		filter.FolderID = source.FolderID

		records, err := engine.Discover(ctx, filter)
		if err != nil {
			logger.CollectError("Dry-run discovery failed", err, source.Name)
			os.Exit(1)
		}

		ids := make([]string, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
		fetched := fetcher.FetchContents(ctx, ids)
		byID := collector.ContentByID(fetched)
		for _, rec := range records {
			if content, ok := byID[rec.ID]; ok {
				rec.Content = content
			}
		}

		logger.Collect("Dry-run source complete", source.Name, "files_found", len(records))
		all = append(all, records...)
		outcomes = append(outcomes, fetched...)
	}

	if exportPath == "" {
		return
	}
	writeCSV(exportPath, logger, func(f *os.File) error {
		return export.WriteRecords(f, all)
	})
	contentPath := export.ContentPath(exportPath)
	writeCSV(contentPath, logger, func(f *os.File) error {
		return export.WriteFetchResults(f, outcomes, false)
	})
	logger.Info("Dry-run results exported",
		"records_path", exportPath, "content_path", contentPath, "records", len(all))
}

func writeCSV(path string, logger *logging.Logger, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		logger.Error("Failed to create export file", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := write(f); err != nil {
		logger.Error("Failed to write export file", "path", path, "error", err)
		os.Exit(1)
	}
}

func setupRoutes(service *application.CollectService, db *database.Database, sources []application.Source, cfg *config.AppConfig, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	setupHTTPLogging(r, cfg, logger)
	r.Use(middleware.Recoverer)

	runHandlers := handlers.NewRunHandlers(service, db, sources, cfg.Filter)
	r.Get("/health", runHandlers.Health)
	r.Post("/collect", runHandlers.TriggerRun)
	r.Get("/runs/latest", runHandlers.LatestRun)

	return r
}

func setupHTTPLogging(r *chi.Mux, cfg *config.AppConfig, logger *logging.Logger) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// logFile stays open for the server lifetime

	httpLogger := httplog.NewLogger("drivesync", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, appCancel context.CancelFunc) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")
		appCancel()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
