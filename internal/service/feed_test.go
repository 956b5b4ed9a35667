package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"session_auth/internal/models"
	"session_auth/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func recv(t *testing.T, ch <-chan models.AuthEvent) models.AuthEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return models.AuthEvent{}
}

func TestAuditFeed_PublishAndUnsubscribe(t *testing.T) {
	feed := NewAuditFeed()
	ctx, cancel := context.WithCancel(context.Background())
	ch := feed.Subscribe(ctx)

	feed.Publish(models.AuthEvent{EventID: "e1", Type: models.EventSignIn})
	if ev := recv(t, ch); ev.EventID != "e1" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	cancel()
	for range ch {
	}
	if n := feed.Subscribers(); n != 0 {
		t.Fatalf("subscribers after cancel = %d", n)
	}
	// publishing with no subscribers is a no-op
	feed.Publish(models.AuthEvent{EventID: "e2"})
}

func TestAuditFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	feed := NewAuditFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := feed.Subscribe(ctx)

	for i := 0; i < feedBuffer+10; i++ {
		feed.Publish(models.AuthEvent{Type: models.EventSignIn})
	}
	if len(ch) != feedBuffer {
		t.Fatalf("buffered=%d want %d", len(ch), feedBuffer)
	}
}

func TestPublishingAudit_SkipsFailedAppend(t *testing.T) {
	feed := NewAuditFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := feed.Subscribe(ctx)

	failing := withFeed(&mockAuditRepo{appendErr: errors.New("disk full")}, feed)
	if err := failing.Append(ctx, models.AuthEvent{EventID: "lost"}); err == nil {
		t.Fatalf("expected append error")
	}
	ok := withFeed(&mockAuditRepo{}, feed)
	if err := ok.Append(ctx, models.AuthEvent{EventID: "kept"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if ev := recv(t, ch); ev.EventID != "kept" {
		t.Fatalf("expected only the stored event, got %+v", ev)
	}
	if withFeed(nil, feed) != nil {
		t.Fatalf("nil repository must stay nil")
	}
}

func TestNewService_SignInReachesSubscribers(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("test"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repos, err := repository.NewMemoryRepository([]models.User{{ID: 1, Name: "John Doe", Email: "johndoe@gmail.com", PasswordHash: string(hash)}})
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	svc := NewService(repos, TokenConfig{Secret: "feed-secret"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := svc.AuditLog.Subscribe(ctx)

	if _, err := svc.SignIn(ctx, models.Credentials{Email: "johndoe@gmail.com", Password: "nope"}); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	ev := recv(t, ch)
	if ev.Type != models.EventSignInFailed || ev.UserID != 1 || ev.EventID == "" || ev.OccurredAt.IsZero() {
		t.Fatalf("unexpected live event: %+v", ev)
	}

	stored, err := svc.AuditLog.List(ctx, LogFilter{})
	if err != nil || len(stored) != 1 || stored[0].EventID != ev.EventID {
		t.Fatalf("stored=%+v err=%v", stored, err)
	}
}

func TestAuditLogService_SubscribeWithoutFeed(t *testing.T) {
	svc := NewAuditLogService(&fakeAuditRepo{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	ch := svc.Subscribe(ctx)
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}
