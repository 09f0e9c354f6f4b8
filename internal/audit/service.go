// Package audit records who did what to which resource. Events are written
// asynchronously so request latency never waits on the audit table.
package audit

import (
	"log"
	"sync"

	auditrepo "github.com/kaamkrao/kaamkrao/internal/database/audit"
	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// Service provides high-level audit logging. Async events go through a
// buffered queue served by a single writer goroutine, so Close can drain
// whatever is still in flight before the process exits.
type Service struct {
	repo      *auditrepo.Repository
	events    chan *entities.AuditEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewService creates a new audit service and starts its writer.
func NewService(repo *auditrepo.Repository) *Service {
	s := &Service{
		repo:   repo,
		events: make(chan *entities.AuditEvent, 256),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Service) run() {
	defer close(s.done)
	for event := range s.events {
		s.write(event)
	}
}

func (s *Service) write(event *entities.AuditEvent) {
	if err := s.repo.LogEvent(event); err != nil {
		log.Printf("Failed to log audit event: %v", err)
	}
}

// Log records an audit event synchronously.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync queues an audit event for the background writer (non-blocking).
// When the queue is full the event is written inline rather than dropped.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	select {
	case s.events <- event:
	default:
		s.write(event)
	}
}

// Close stops accepting async events and blocks until the queue is drained.
// Callers must not log through the service afterwards.
func (s *Service) Close() {
	s.closeOnce.Do(func() { close(s.events) })
	<-s.done
}

// LogAuth records a signup/login/logout event.
func (s *Service) LogAuth(userID uint, action, ip string, err error) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ip,
		Status:    entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogResource records a mutation against a service or booking.
func (s *Service) LogResource(userID uint, eventType entities.AuditEventType, action, entityType string, entityID uint, err error) {
	event := &entities.AuditEvent{
		UserID:     userID,
		EventType:  eventType,
		Action:     action,
		EntityType: entityType,
		EntityID:   &entityID,
		Status:     entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
