package repository

import (
	"errors"
	"fmt"
	"strings"

	"session_auth/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail = errors.New("duplicate user email")
	ErrDuplicateID    = errors.New("duplicate user id")
	ErrInvalidSeed    = errors.New("invalid seed user")
)

// DefaultSeed returns the built-in user list used when no users are configured.
func DefaultSeed() []models.SeedUser {
	return []models.SeedUser{
		{
			ID:        1,
			Name:      "John Doe",
			Email:     "johndoe@gmail.com",
			AvatarURL: "https://i.pravatar.cc/150?img=1",
			Password:  "test",
		},
	}
}

// HashSeeds validates seeds and converts them into users with bcrypt password hashes.
func HashSeeds(seeds []models.SeedUser, cost int) ([]models.User, error) {
	users := make([]models.User, 0, len(seeds))
	for _, s := range seeds {
		if s.ID <= 0 || strings.TrimSpace(s.Email) == "" {
			return nil, fmt.Errorf("%w: id=%d email=%q", ErrInvalidSeed, s.ID, s.Email)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", s.Email, err)
		}
		users = append(users, models.User{
			ID:           s.ID,
			Name:         s.Name,
			Email:        s.Email,
			AvatarURL:    s.AvatarURL,
			PasswordHash: string(hash),
		})
	}
	if err := validateUnique(users); err != nil {
		return nil, err
	}
	return users, nil
}

// validateUnique enforces unique ids and emails; lookups by email rely on it.
func validateUnique(users []models.User) error {
	ids := make(map[int]struct{}, len(users))
	emails := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, ok := ids[u.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, u.ID)
		}
		if _, ok := emails[u.Email]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateEmail, u.Email)
		}
		ids[u.ID] = struct{}{}
		emails[u.Email] = struct{}{}
	}
	return nil
}
