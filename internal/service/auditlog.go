package service

import (
	"context"

	"session_auth/internal/models"
	"session_auth/internal/repository"
)

// AuditLogService reads back recorded sign-in attempts.
type AuditLogService struct {
	audit repository.AuditRepo
	feed  *AuditFeed
}

// NewAuditLogService builds the service. feed may be nil, in which case
// subscriptions never deliver.
func NewAuditLogService(audit repository.AuditRepo, feed *AuditFeed) *AuditLogService {
	return &AuditLogService{audit: audit, feed: feed}
}

// List returns audit events matching f, oldest first.
func (s *AuditLogService) List(ctx context.Context, f LogFilter) ([]models.AuthEvent, error) {
	q, err := f.canonical()
	if err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []models.AuthEvent{}, nil
	}
	return s.audit.List(ctx, q.From, q.To, q.Type)
}

// Subscribe streams events recorded after the call until ctx is done.
func (s *AuditLogService) Subscribe(ctx context.Context) <-chan models.AuthEvent {
	if s.feed == nil {
		ch := make(chan models.AuthEvent)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch
	}
	return s.feed.Subscribe(ctx)
}
