package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate_dumps/config"
	"estate_dumps/models"
)

type fakeRunner struct {
	runs     int
	commands []models.CommandType
	fail     bool
}

func (f *fakeRunner) RunAll(ctx context.Context) error {
	f.runs++
	return nil
}

func (f *fakeRunner) HandleCommand(ctx context.Context, cmd *models.Command) error {
	f.commands = append(f.commands, cmd.Command)
	if f.fail {
		return errors.New("boom")
	}
	return nil
}

type fakeQueue struct {
	pending   []models.Command
	processed []int64
}

func (q *fakeQueue) GetPendingCommands() ([]models.Command, error) {
	return q.pending, nil
}

func (q *fakeQueue) MarkCommandProcessed(id int64) error {
	q.processed = append(q.processed, id)
	return nil
}

func TestProcessCommandsMarksEvenOnFailure(t *testing.T) {
	runner := &fakeRunner{fail: true}
	queue := &fakeQueue{pending: []models.Command{
		{ID: 1, Command: models.CmdPause},
		{ID: 2, Command: models.CmdScrapeNow},
	}}

	s := New(config.SchedulerConfig{}, runner, queue)
	s.processCommands(context.Background())

	if len(runner.commands) != 2 || runner.commands[1] != models.CmdScrapeNow {
		t.Errorf("commands = %v", runner.commands)
	}
	if len(queue.processed) != 2 || queue.processed[0] != 1 || queue.processed[1] != 2 {
		t.Errorf("processed = %v", queue.processed)
	}
}

func TestRunScheduledSkipsOverlap(t *testing.T) {
	runner := &fakeRunner{}
	s := New(config.SchedulerConfig{}, runner, &fakeQueue{})

	s.running.Lock()
	s.runScheduled(context.Background())
	s.running.Unlock()
	if runner.runs != 0 {
		t.Fatal("run should be skipped while another is in progress")
	}

	s.runScheduled(context.Background())
	if runner.runs != 1 {
		t.Errorf("runs = %d, want 1", runner.runs)
	}
}

func TestStartRejectsBadCron(t *testing.T) {
	s := New(config.SchedulerConfig{Cron: "not a cron"}, &fakeRunner{}, &fakeQueue{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestTriggerNowWaitsForScheduledRun(t *testing.T) {
	runner := &fakeRunner{}
	s := New(config.SchedulerConfig{}, runner, &fakeQueue{})

	s.running.Lock()
	done := make(chan error, 1)
	go func() { done <- s.TriggerNow(context.Background()) }()

	select {
	case <-done:
		t.Fatal("TriggerNow should wait for the run in progress")
	case <-time.After(50 * time.Millisecond):
	}

	s.running.Unlock()
	if err := <-done; err != nil {
		t.Fatalf("TriggerNow: %v", err)
	}
	if runner.runs != 1 {
		t.Errorf("runs = %d, want 1", runner.runs)
	}
}
