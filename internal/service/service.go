package service

import (
	"context"

	"session_auth/internal/logger"
	"session_auth/internal/models"
	"session_auth/internal/repository"
)

// Authorization validates credentials, issues access tokens and resolves token subjects.
type Authorization interface {
	SignIn(ctx context.Context, creds models.Credentials) (SignInResult, error)
	ParseToken(accessToken string) (int, error)
	CurrentUser(ctx context.Context, userID int) (*models.User, error)
}

// AuditLog exposes the recorded sign-in attempts with filtering access.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuthEvent, error)
	Subscribe(ctx context.Context) <-chan models.AuthEvent
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	AuditLog
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, tokens TokenConfig, log *logger.Logger) *Service {
	feed := NewAuditFeed()
	return &Service{
		Authorization: NewAuthService(repos.Users, withFeed(repos.Audit, feed), tokens, log),
		AuditLog:      NewAuditLogService(repos.Audit, feed),
	}
}
