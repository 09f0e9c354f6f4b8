// Package scheduler triggers periodic maintenance through the task queue.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/kaamkrao/kaamkrao/internal/config"
	"github.com/kaamkrao/kaamkrao/internal/tasks"
)

// MaintenanceScheduler enqueues the audit-retention cleanup and the
// orphaned-upload sweep on a cron schedule.
type MaintenanceScheduler struct {
	client *tasks.Client
	cfg    config.Maintenance
	audit  config.Audit

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.Mutex
	isRunning   bool
	cancelFunc  context.CancelFunc
	watcherDone chan struct{}
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(client *tasks.Client, cfg config.Maintenance, auditCfg config.Audit) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		client: client,
		cfg:    cfg,
		audit:  auditCfg,
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if maintenance is enabled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled || s.client == nil {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.enqueue)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.watcherDone = make(chan struct{})

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func(done chan struct{}) {
		defer close(done)
		<-cancelCtx.Done()
		s.Stop()
	}(s.watcherDone)

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running enqueue to
// finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Release the context watcher; a direct Stop would otherwise leave it
	// blocked forever. Its re-entrant Stop call sees isRunning false.
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false

	log.Printf("Maintenance scheduler: stopped")
}

func (s *MaintenanceScheduler) enqueue() {
	_, err := s.client.Add(
		tasks.CleanupAuditEventsTask{RetentionDays: s.audit.RetentionDays},
		tasks.SweepOrphanUploadsTask{},
	).Save()
	if err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue tasks: %v", err)
	}
}
