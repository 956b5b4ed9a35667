package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"session_auth/internal/models"

	"github.com/google/uuid"
)

// sqliteTimeLayout is fixed width down to nanoseconds, so text comparison in
// SQLite orders the same way time.Time does. It is used for writes and range bounds.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// sqliteParseLayout also reads rows without a fractional part.
const sqliteParseLayout = "2006-01-02 15:04:05"

const insertAuthEventSQL = `
		INSERT INTO auth_events (id, occurred_at, type, email, user_id, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`

type AuditSQLite struct {
	db *sql.DB
}

func NewAuditSQLite(db *sql.DB) *AuditSQLite { return &AuditSQLite{db: db} }

var _ AuditRepo = (*AuditSQLite)(nil)

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *AuditSQLite) Append(ctx context.Context, e models.AuthEvent) error {
	e = withEventDefaults(e)

	var userID *int
	if e.UserID != 0 {
		userID = &e.UserID
	}
	var reason *string
	if e.Reason != "" {
		reason = &e.Reason
	}

	_, err := r.db.ExecContext(ctx, insertAuthEventSQL,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimeLayout),
		e.Type,
		e.Email,
		userID,
		reason,
	)
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// List returns events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *AuditSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.AuthEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, email, user_id, reason FROM auth_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query auth events: %w", err)
	}
	defer rows.Close()

	out := make([]models.AuthEvent, 0, 64)
	for rows.Next() {
		var (
			ev       models.AuthEvent
			occurred string
			userID   sql.NullInt64
			reason   sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &occurred, &ev.Type, &ev.Email, &userID, &reason); err != nil {
			return nil, fmt.Errorf("scan auth event: %w", err)
		}
		ev.OccurredAt, err = time.ParseInLocation(sqliteParseLayout, occurred, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", occurred, err)
		}
		ev.UserID = int(userID.Int64)
		ev.Reason = reason.String
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// withEventDefaults fills a missing id and timestamp and normalizes the type.
func withEventDefaults(e models.AuthEvent) models.AuthEvent {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}
	e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
	return e
}
