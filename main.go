package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"estate_dumps/config"
	"estate_dumps/fetch"
	"estate_dumps/httputil"
	"estate_dumps/logging"
	"estate_dumps/metrics"
	"estate_dumps/scheduler"
	"estate_dumps/scraper"
	"estate_dumps/storage"
)

var (
	scrapeNow = flag.Bool("scrape", false, "Run scrape once and exit")
	siteOnly  = flag.String("site", "", "With -scrape, only run this site")
	resetData = flag.Bool("reset", false, "Clear SQLite dumps, runs, logs and commands, then exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logFile, err := logging.Setup(cfg.LogFile, cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Warn().Err(err).Msg("could not set up file logging")
	} else {
		defer logFile.Close()
	}

	log.Info().Int("sites", len(cfg.Sites)).Msg("Starting estate_dumps")
	for id, site := range cfg.Sites {
		log.Info().Str("site", id).Str("name", site.Name).Str("fetcher", site.Fetcher).Msg("site loaded")
	}

	metrics.Serve(cfg.MetricsAddr, metrics.InitRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clients := httputil.NewClients(cfg.Scraper.ProxyURL, cfg.Scraper.FetchTimeout)

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open SQLite")
	}
	defer sqliteStore.Close()
	log.Info().Str("path", cfg.DBPath).Msg("SQLite database")

	if *resetData {
		if err := sqliteStore.ResetAllData(); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset data")
		}
		log.Info().Msg("SQLite data cleared")
		return
	}

	repo := storage.NewMultiRepository()
	repo.Add("sqlite", sqliteStore)

	if cfg.Storage.PostgresURL != "" {
		pgStore, err := storage.NewPostgresStore(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Postgres")
		}
		defer pgStore.Close()
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate Postgres")
		}
		repo.Add("postgres", pgStore)
		log.Info().Str("dsn", maskConnectionString(cfg.Storage.PostgresURL)).Msg("Connected to Postgres")
	}

	if s3cfg := cfg.Storage.S3; s3cfg.Enabled() {
		archive, err := storage.NewS3Archive(ctx, storage.S3Config{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		}, clients.API)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to set up S3 archive")
		}
		repo.Add("s3", archive)
		log.Info().Str("bucket", s3cfg.Bucket).Msg("S3 archive enabled")
	}

	if repo.Len() == 1 {
		log.Warn().Msg("Only SQLite is configured; dumps stay local to this machine")
	}

	integrations := make(map[string]scraper.Integration)
	for id, site := range cfg.Sites {
		if *siteOnly != "" && id != *siteOnly {
			continue
		}

		fetcher, err := fetch.New(fetch.Kind(site.Fetcher), fetch.Options{
			Client:            clients.Scraping,
			UserAgent:         httputil.UserAgent,
			Timeout:           site.FetchTimeout,
			RequestsPerSecond: site.RequestsPerSecond(cfg.Scraper.RequestsPerSecond),
			Headless:          true,
		})
		if err != nil {
			log.Fatal().Err(err).Str("site", id).Msg("Failed to build fetcher")
		}
		if closer, ok := fetcher.(io.Closer); ok {
			defer closer.Close()
		}

		integration, err := scraper.NewIntegration(site, fetcher, time.Now)
		if err != nil {
			log.Fatal().Err(err).Str("site", id).Msg("Failed to build integration")
		}
		integrations[id] = integration
	}

	orchestrator := scraper.NewOrchestrator(sqliteStore, repo, integrations)
	sched := scheduler.New(cfg.Scheduler, orchestrator, sqliteStore)

	// Handle one-shot commands
	if *scrapeNow {
		log.Info().Msg("Running scrape...")
		if err := sched.TriggerNow(ctx); err != nil {
			log.Error().Err(err).Msg("Scrape failed")
			return
		}
		log.Info().Msg("Scrape complete!")
		return
	}

	// Daemon mode
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	log.Info().Msg("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("Shutting down...")
	cancel()
	sched.Stop()
	log.Info().Msg("Goodbye!")
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	// Simple mask - find :// and mask until @
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	// Find : after user
	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
