package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"estate_dumps/config"
	"estate_dumps/models"
)

// Runner is what the scheduler drives; *scraper.Orchestrator satisfies it.
type Runner interface {
	RunAll(ctx context.Context) error
	HandleCommand(ctx context.Context, cmd *models.Command) error
}

// CommandQueue is the operator command table.
type CommandQueue interface {
	GetPendingCommands() ([]models.Command, error)
	MarkCommandProcessed(id int64) error
}

const commandPollInterval = 2 * time.Second

type Scheduler struct {
	cfg    config.SchedulerConfig
	runner Runner
	queue  CommandQueue
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}

	// A crawl can outlast its schedule slot; overlapping triggers are dropped.
	running sync.Mutex
}

func New(cfg config.SchedulerConfig, runner Runner, queue CommandQueue) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		queue:  queue,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	go s.pollCommands(ctx)

	if s.cfg.Cron != "" {
		log.Info().Str("cron", s.cfg.Cron).Msg("Starting scheduler")
		_, err := s.cron.AddFunc(s.cfg.Cron, func() { s.runScheduled(ctx) })
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Interval > 0 {
		log.Info().Dur("interval", s.cfg.Interval).Msg("Starting scheduler")
		s.ticker = time.NewTicker(s.cfg.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.runScheduled(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Info().Msg("No schedule configured, daemon will only respond to commands")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

func (s *Scheduler) runScheduled(ctx context.Context) {
	if !s.running.TryLock() {
		log.Warn().Msg("Previous run still in progress, skipping scheduled run")
		return
	}
	defer s.running.Unlock()

	if err := s.runner.RunAll(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled run error")
	}
}

// TriggerNow runs every site immediately, waiting for a scheduled run that is
// already in progress to finish first.
func (s *Scheduler) TriggerNow(ctx context.Context) error {
	s.running.Lock()
	defer s.running.Unlock()
	return s.runner.RunAll(ctx)
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	ticker := time.NewTicker(commandPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processCommands(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// processCommands handles every pending command once. A command is marked
// processed even when it fails so a bad command cannot wedge the queue.
func (s *Scheduler) processCommands(ctx context.Context) {
	cmds, err := s.queue.GetPendingCommands()
	if err != nil {
		log.Error().Err(err).Msg("Error getting commands")
		return
	}

	for i := range cmds {
		cmd := &cmds[i]
		log.Info().Str("command", string(cmd.Command)).Int64("id", cmd.ID).Msg("Processing command")
		if err := s.runner.HandleCommand(ctx, cmd); err != nil {
			log.Error().Err(err).Str("command", string(cmd.Command)).Msg("Command error")
		}
		if err := s.queue.MarkCommandProcessed(cmd.ID); err != nil {
			log.Error().Err(err).Int64("id", cmd.ID).Msg("Error marking command processed")
		}
	}
}
