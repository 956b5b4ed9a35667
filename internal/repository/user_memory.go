package repository

import (
	"context"

	"session_auth/internal/models"
)

// MemoryUserStore is a fixed, in-memory user list. It is never mutated after
// construction, so concurrent reads need no locking.
type MemoryUserStore struct {
	users []models.User
}

var _ UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore(users []models.User) (*MemoryUserStore, error) {
	if err := validateUnique(users); err != nil {
		return nil, err
	}
	cp := make([]models.User, len(users))
	copy(cp, users)
	return &MemoryUserStore{users: cp}, nil
}

// GetByEmail does an exact, case-sensitive scan.
func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}
