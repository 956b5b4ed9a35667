package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"session_auth/internal/models"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrUnknownEventType = errors.New("unknown audit event type")
)

// LogFilter supports audit filtering by time range and event type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "SIGN_IN", "SIGN_IN_FAILED"
}

// canonical returns f with UTC bounds and an upper-case type.
func (f LogFilter) canonical() (LogFilter, error) {
	out := LogFilter{Type: strings.ToUpper(strings.TrimSpace(f.Type))}
	if !f.From.IsZero() {
		out.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		out.To = f.To.UTC()
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.To.Before(out.From) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	switch out.Type {
	case "", models.EventSignIn, models.EventSignInFailed:
	default:
		return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
	}
	return out, nil
}
