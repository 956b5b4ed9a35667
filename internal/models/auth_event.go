package models

import "time"

// Auth event types.
const (
	EventSignIn       = "SIGN_IN"
	EventSignInFailed = "SIGN_IN_FAILED"
)

// AuthEvent is a single audit entry for a sign-in attempt.
type AuthEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       string    `json:"type"`              // SIGN_IN | SIGN_IN_FAILED
	Email      string    `json:"email"`             // as submitted
	UserID     int       `json:"user_id,omitempty"` // 0 when the email is unknown
	Reason     string    `json:"reason,omitempty"`
}
