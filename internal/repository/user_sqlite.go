package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"session_auth/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserStore interface at compile time.
var _ UserStore = (*UserSQLite)(nil)

const (
	deleteUsersSQL = `DELETE FROM users`
	insertUserSQL  = `
		INSERT INTO users (id, name, email, avatar_url, password_hash)
		VALUES (?, ?, ?, ?, ?)
	`
	selectUserByEmailSQL = `SELECT id, name, email, avatar_url, password_hash FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, name, email, avatar_url, password_hash FROM users WHERE id = ?`
)

// Seed replaces the users table with the startup list in a single transaction.
// Users missing from the list can no longer be found afterwards.
func (r *UserSQLite) Seed(ctx context.Context, users []models.User) error {
	if err := validateUnique(users); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteUsersSQL); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for _, u := range users {
		if _, err := tx.ExecContext(ctx, insertUserSQL, u.ID, u.Name, u.Email, u.AvatarURL, u.PasswordHash); err != nil {
			return fmt.Errorf("insert user %q: %w", u.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.scanOne(ctx, selectUserByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanOne(ctx, selectUserByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserSQLite) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
