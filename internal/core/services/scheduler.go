package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
	"github.com/custodia-labs/quotebank/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// DefaultSchedulerTick is how often the scheduler checks for due tasks.
const DefaultSchedulerTick = time.Minute

// Scheduler runs the periodic embedding backfill.
// Task state survives restarts through the SchedulerStore.
type Scheduler struct {
	store    driven.SchedulerStore
	backfill driving.BackfillService
	tick     time.Duration

	mu      sync.Mutex
	config  domain.SchedulerConfig
	running bool
	stopCh  chan struct{}
	active  map[string]bool
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	backfill driving.BackfillService,
) *Scheduler {
	return &Scheduler{
		config:   config,
		store:    store,
		backfill: backfill,
		tick:     DefaultSchedulerTick,
		active:   make(map[string]bool),
	}
}

// SetTickInterval changes how often due tasks are checked. Must be called before Start.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	if d > 0 {
		s.tick = d
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Error("scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler and waits for running tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()

	return nil
}

// ApplyConfig replaces the scheduler configuration and updates stored tasks.
func (s *Scheduler) ApplyConfig(ctx context.Context, config domain.SchedulerConfig) error {
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()

	logger.Info("Scheduler configuration updated (enabled=%t)", config.Enabled)
	return s.initialiseTasks(ctx)
}

// initialiseTasks ensures all built-in tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	s.mu.Lock()
	taskCfg := s.config.GetTaskConfig(domain.TaskIDEmbeddingBackfill)
	s.mu.Unlock()

	return s.ensureTask(ctx, domain.TaskIDEmbeddingBackfill, "Embedding Backfill", taskCfg)
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		if !cfg.Enabled {
			return nil
		}
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  time.Now().Add(cfg.Interval),
		}
	} else {
		if task.Interval != cfg.Interval && cfg.Interval > 0 {
			task.Interval = cfg.Interval
			// Recalculate next run from now
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	// Check for due tasks immediately on startup
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	s.mu.Lock()
	enabled := s.config.Enabled
	s.mu.Unlock()
	if !enabled {
		return
	}

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Error("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		if tasks[i].IsDue(now) {
			s.runTask(ctx, tasks[i])
		}
	}
}

// runTask executes a single task unless a previous run is still in progress.
func (s *Scheduler) runTask(ctx context.Context, task domain.ScheduledTask) {
	s.mu.Lock()
	if s.active[task.ID] {
		s.mu.Unlock()
		logger.Debug("Task %s still running, skipping", task.ID)
		return
	}
	s.active[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.active, task.ID)
			s.mu.Unlock()
		}()

		run := &domain.TaskRun{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDEmbeddingBackfill:
			var result domain.BackfillResult
			result, err = s.runBackfill(ctx)
			run.Embedded = result.Processed
			run.Failed = result.Failed
		default:
			logger.Warn("scheduler: unknown task ID: %s", task.ID)
			return
		}

		run.EndedAt = time.Now()
		if err != nil {
			run.Error = err.Error()
			task.LastError = err.Error()
		} else {
			task.LastError = ""
			task.LastSuccess = run.EndedAt
		}

		task.LastRun = run.StartedAt
		task.NextRun = run.EndedAt.Add(task.Interval)

		// Task state and history outlive a cancelled run
		storeCtx := context.WithoutCancel(ctx)
		if saveErr := s.store.SaveTask(storeCtx, &task); saveErr != nil {
			logger.Error("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordRun(storeCtx, run); recordErr != nil {
			logger.Error("scheduler: failed to record run of %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneRuns(storeCtx, domain.MaxTaskRuns); pruneErr != nil {
			logger.Error("scheduler: failed to prune runs: %v", pruneErr)
		}
	}()
}

// runBackfill embeds any lines added since the last run.
func (s *Scheduler) runBackfill(ctx context.Context) (domain.BackfillResult, error) {
	if s.backfill == nil {
		return domain.BackfillResult{}, nil
	}

	result, err := s.backfill.Backfill(ctx)
	if err != nil {
		return result, err
	}
	logger.Info("Scheduled backfill: %s", result.Message)
	return result, nil
}
