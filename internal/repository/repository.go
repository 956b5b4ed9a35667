package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"session_auth/internal/models"
)

// UserStore is the read-only credential registry. Lookups return (nil, nil) when
// no record matches.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type AuditRepo interface {
	Append(ctx context.Context, e models.AuthEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AuthEvent, error)
}

type Repository struct {
	Users UserStore
	Audit AuditRepo
}

// NewMemoryRepository keeps users and audit events in process memory.
func NewMemoryRepository(users []models.User) (*Repository, error) {
	store, err := NewMemoryUserStore(users)
	if err != nil {
		return nil, err
	}
	return &Repository{
		Users: store,
		Audit: NewAuditMemory(),
	}, nil
}

// NewSQLiteRepository seeds the users table and serves lookups and audit events from db.
func NewSQLiteRepository(ctx context.Context, db *sql.DB, users []models.User) (*Repository, error) {
	store := NewUserSQLite(db)
	if err := store.Seed(ctx, users); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return &Repository{
		Users: store,
		Audit: NewAuditSQLite(db),
	}, nil
}
