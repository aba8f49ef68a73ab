package main

import (
	"fmt"
	"os"

	"spotify-insights/config"
	"spotify-insights/scraper/spotify"
	"spotify-insights/services"
	"spotify-insights/storage"
	"spotify-insights/utils"
)

func main() {
	// ================== Bootstrap ====================
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("Spotify Track Insights Pipeline")
	logger.Info("Data source: %s | Top artists: %d", cfg.DataSource, cfg.TopArtists)

	// =================== PostgreSQL Setup ========================================
	pgWriter, err := storage.NewPostgresWriter(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Cannot connect to PostgreSQL: %v", err)
		logger.Error("Make sure the database is running and DATABASE_URL is set")
		os.Exit(1)
	}
	defer pgWriter.Close()

	if err := pgWriter.CreateTable(); err != nil {
		logger.Error("Failed to create DB table: %v", err)
		os.Exit(1)
	}

	// =============== Data Acquisition ===================================
	var source storage.RawSource
	switch cfg.DataSource {
	case "scrape":
		source = spotify.NewChartScraper(cfg, logger)
	default:
		source = storage.NewCSVReader(cfg.DatasetPath, logger)
	}

	rawTracks, err := source.LoadRaw()
	if err != nil {
		logger.Error("Data acquisition failed: %v", err)
		os.Exit(1)
	}

	if len(rawTracks) == 0 {
		logger.Warn("No tracks acquired — check the dataset path or the chart page structure")
		os.Exit(0)
	}

	// ========= CSV: snapshot raw data ===========================
	csvWriter := storage.NewCSVWriter(cfg.OutputDir, logger)
	if err := csvWriter.WriteRawTracks(rawTracks); err != nil {
		logger.Error("Failed to write raw snapshot CSV: %v", err)
		// Non-fatal: continue with the pipeline
	}

	// =========== Data Cleaning ======================
	cleaner := services.NewDataCleaner(logger)
	tracks, err := cleaner.Clean(rawTracks)
	if err != nil {
		logger.Error("Cleaning failed: %v", err)
		os.Exit(1)
	}

	// =========== Feature Derivation ======================
	deriver := services.NewFeatureDeriver(logger)
	derived, err := deriver.Derive(tracks)
	if err != nil {
		logger.Error("Feature derivation failed: %v", err)
		os.Exit(1)
	}

	// ========= PostgreSQL: store derived data ============
	if err := pgWriter.BatchInsert(derived); err != nil {
		logger.Error("Failed to insert into PostgreSQL: %v", err)
		os.Exit(1)
	}

	// ==== Insights ============================
	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(derived, cfg.TopArtists)
	report.TotalRaw = len(rawTracks)
	services.PrintInsightReport(report)

	// ========= CSV: export summary views ============
	if err := csvWriter.WriteSummaries(report); err != nil {
		logger.Error("Failed to export summary CSVs: %v", err)
		// Non-fatal: the report already printed
	}

	fmt.Println(" Done! Summaries →", cfg.OutputDir)
	fmt.Println(" Derived tracks stored in PostgreSQL table: tracks")
}
