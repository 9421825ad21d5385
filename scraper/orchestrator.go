package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"estate_dumps/identity"
	"estate_dumps/models"
	"estate_dumps/storage"
)

// Orchestrator runs site integrations, records each run in SQLite and hands
// finished dumps to the repository.
type Orchestrator struct {
	store        *storage.SQLiteStore
	repo         storage.DumpRepository
	integrations map[string]Integration
	comparer     *identity.Comparer

	mu     sync.Mutex
	paused bool
}

func NewOrchestrator(store *storage.SQLiteStore, repo storage.DumpRepository, integrations map[string]Integration) *Orchestrator {
	return &Orchestrator{
		store:        store,
		repo:         repo,
		integrations: integrations,
		comparer:     identity.NewComparer(identity.Loose),
	}
}

func (o *Orchestrator) RunAll(ctx context.Context) error {
	if o.IsPaused() {
		log.Info().Msg("Scraper is paused, skipping run")
		return nil
	}

	for _, siteID := range o.GetSiteIDs() {
		if err := o.RunSite(ctx, siteID); err != nil {
			log.Error().Err(err).Str("site", siteID).Msg("site run failed")
		}
	}

	return nil
}

func (o *Orchestrator) RunSite(ctx context.Context, siteID string) error {
	integration, ok := o.integrations[siteID]
	if !ok {
		return fmt.Errorf("unknown site: %s", siteID)
	}

	run := &models.ScrapeRun{
		SiteID:    siteID,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}

	runID, err := o.store.CreateRun(run)
	if err != nil {
		return err
	}
	run.ID = runID

	o.log(run.ID, models.LogLevelInfo, fmt.Sprintf("Starting scrape for %s", integration.WebPage().Name), siteID)

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err := o.store.UpdateRun(run); err != nil {
			log.Error().Err(err).Int64("run", run.ID).Msg("update run failed")
		}
		if err := o.store.UpdateSiteStats(siteID); err != nil {
			log.Error().Err(err).Str("site", siteID).Msg("update site stats failed")
		}
	}()

	dump, err := integration.GenerateDump(ctx)
	if err != nil {
		o.fail(run, fmt.Errorf("generate dump: %w", err))
		return err
	}

	failed := dump.Failures()
	run.DumpID = dump.ID.String()
	run.ListingsFound = len(dump.Entries)
	run.EntriesFailed = failed
	run.EntriesParsed = len(dump.Entries) - failed

	if err := o.repo.StoreDump(ctx, siteID, dump); err != nil {
		o.fail(run, fmt.Errorf("store dump: %w", err))
		return err
	}

	if failed > 0 {
		o.log(run.ID, models.LogLevelWarn, fmt.Sprintf("%d of %d listings could not be extracted", failed, len(dump.Entries)), siteID)
	}

	run.Status = models.RunStatusCompleted
	o.log(run.ID, models.LogLevelInfo,
		fmt.Sprintf("Completed: %d found, %d parsed, %d failed, %d likely duplicates",
			run.ListingsFound, run.EntriesParsed, run.EntriesFailed, o.comparer.Duplicates(dump.Entries)), siteID)

	return nil
}

func (o *Orchestrator) fail(run *models.ScrapeRun, err error) {
	run.Status = models.RunStatusFailed
	run.ErrorMessage = err.Error()
	o.log(run.ID, models.LogLevelError, err.Error(), run.SiteID)
}

func (o *Orchestrator) HandleCommand(ctx context.Context, cmd *models.Command) error {
	params, err := o.store.ParseCommandParams(cmd)
	if err != nil {
		return err
	}

	switch cmd.Command {
	case models.CmdScrapeNow:
		return o.RunAll(ctx)
	case models.CmdScrapeSite:
		if params.Site != "" {
			return o.RunSite(ctx, params.Site)
		}
		return o.RunAll(ctx)
	case models.CmdPause:
		o.setPaused(true)
		o.logStatus("Scraper paused")
	case models.CmdResume:
		o.setPaused(false)
		o.logStatus("Scraper resumed")
	default:
		return fmt.Errorf("unknown command: %s", cmd.Command)
	}

	return nil
}

func (o *Orchestrator) IsPaused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paused
}

func (o *Orchestrator) setPaused(paused bool) {
	o.mu.Lock()
	o.paused = paused
	o.mu.Unlock()
}

func (o *Orchestrator) log(runID int64, level models.LogLevel, message, siteID string) {
	event := log.Info()
	switch level {
	case models.LogLevelWarn:
		event = log.Warn()
	case models.LogLevelError:
		event = log.Error()
	}
	event.Str("site", siteID).Int64("run", runID).Msg(message)

	if err := o.store.Log(&runID, level, message, siteID); err != nil {
		log.Error().Err(err).Msg("persist log failed")
	}
}

// GetSiteIDs returns the configured sites in a stable order
func (o *Orchestrator) GetSiteIDs() []string {
	ids := make([]string, 0, len(o.integrations))
	for id := range o.integrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (o *Orchestrator) logStatus(msg string) {
	status, err := o.MarshalStatus()
	if err != nil {
		log.Error().Err(err).Msg("marshal status failed")
		return
	}
	log.Info().RawJSON("status", status).Msg(msg)
}

// MarshalStatus reports whether scraping is paused and which sites are configured
func (o *Orchestrator) MarshalStatus() ([]byte, error) {
	status := map[string]interface{}{
		"paused": o.IsPaused(),
		"sites":  o.GetSiteIDs(),
	}
	return json.Marshal(status)
}
