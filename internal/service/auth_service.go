package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"session_auth/internal/logger"
	"session_auth/internal/models"
	"session_auth/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// TokenConfig holds the process-wide signing secret and token lifetime.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignInResult is returned on a successful sign-in.
type SignInResult struct {
	Token     string
	User      models.User
	ExpiresAt time.Time
}

// AuthService checks credentials against a read-only user store and issues HS256 tokens.
type AuthService struct {
	users  repository.UserStore
	audit  repository.AuditRepo
	tokens TokenConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewAuthService builds the service. audit and log may be nil.
func NewAuthService(users repository.UserStore, audit repository.AuditRepo, tokens TokenConfig, log *logger.Logger) *AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = DefaultTokenTTL
	}
	return &AuthService{
		users:  users,
		audit:  audit,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

// SignIn validates credentials and returns a signed token with the matched user.
func (s *AuthService) SignIn(ctx context.Context, creds models.Credentials) (SignInResult, error) {
	u, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		return SignInResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		s.record(ctx, models.AuthEvent{Type: models.EventSignInFailed, Email: creds.Email, Reason: ErrUserNotFound.Error()})
		return SignInResult{}, ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, creds.Password); err != nil {
		s.record(ctx, models.AuthEvent{Type: models.EventSignInFailed, Email: creds.Email, UserID: u.ID, Reason: ErrInvalidPassword.Error()})
		return SignInResult{}, ErrInvalidPassword
	}

	token, expiresAt, err := s.issueToken(u.ID)
	if err != nil {
		return SignInResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.record(ctx, models.AuthEvent{Type: models.EventSignIn, Email: u.Email, UserID: u.ID})
	return SignInResult{Token: token, User: *u, ExpiresAt: expiresAt}, nil
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.tokens.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// CurrentUser resolves a token subject. Returns ErrUserNotFound when the id is unknown.
func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", userID, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// record appends an audit event. Failures never change the sign-in outcome.
func (s *AuthService) record(ctx context.Context, ev models.AuthEvent) {
	if s.audit == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.OccurredAt = s.now().UTC()
	if err := s.audit.Append(ctx, ev); err != nil && s.log != nil {
		s.log.Errorw("auth_audit_append_failed", "type", ev.Type, "email", ev.Email, "err", err)
	}
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int) (string, time.Time, error) {
	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(s.tokens.TTL))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ExpiresAt: expiresAt,
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	signed, err := token.SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.Time, nil
}
