package service

import (
	"context"
	"sync"

	"session_auth/internal/models"
	"session_auth/internal/repository"
)

// feedBuffer is the per-subscriber backlog. Events beyond it are dropped for that subscriber.
const feedBuffer = 32

// AuditFeed fans out newly recorded audit events to live subscribers.
type AuditFeed struct {
	mu   sync.Mutex
	subs map[chan models.AuthEvent]struct{}
}

func NewAuditFeed() *AuditFeed {
	return &AuditFeed{subs: make(map[chan models.AuthEvent]struct{})}
}

// Subscribe returns a channel of events published after the call.
// The channel is closed once ctx is done.
func (f *AuditFeed) Subscribe(ctx context.Context) <-chan models.AuthEvent {
	ch := make(chan models.AuthEvent, feedBuffer)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch
}

// Publish never blocks: a subscriber with a full buffer misses the event.
func (f *AuditFeed) Publish(ev models.AuthEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (f *AuditFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// publishingAudit publishes every event the wrapped repository accepted.
type publishingAudit struct {
	repository.AuditRepo
	feed *AuditFeed
}

func (p publishingAudit) Append(ctx context.Context, ev models.AuthEvent) error {
	if err := p.AuditRepo.Append(ctx, ev); err != nil {
		return err
	}
	p.feed.Publish(ev)
	return nil
}

// withFeed wraps audit so successful appends reach feed. A nil repository stays nil.
func withFeed(audit repository.AuditRepo, feed *AuditFeed) repository.AuditRepo {
	if audit == nil || feed == nil {
		return audit
	}
	return publishingAudit{AuditRepo: audit, feed: feed}
}
