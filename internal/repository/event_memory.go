package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"session_auth/internal/models"
)

// AuditMemory keeps auth events in a slice guarded by a mutex.
type AuditMemory struct {
	mu     sync.RWMutex
	events []models.AuthEvent
}

var _ AuditRepo = (*AuditMemory)(nil)

func NewAuditMemory() *AuditMemory { return &AuditMemory{} }

func (r *AuditMemory) Append(_ context.Context, e models.AuthEvent) error {
	e = withEventDefaults(e)
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

// List mirrors AuditSQLite.List: inclusive range, optional type, ordered by time.
func (r *AuditMemory) List(_ context.Context, from, to time.Time, typ string) ([]models.AuthEvent, error) {
	typ = strings.ToUpper(strings.TrimSpace(typ))

	r.mu.RLock()
	out := make([]models.AuthEvent, 0, len(r.events))
	for _, ev := range r.events {
		if !from.IsZero() && ev.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && ev.OccurredAt.After(to) {
			continue
		}
		if typ != "" && ev.Type != typ {
			continue
		}
		out = append(out, ev)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}
