package handlers

import (
	"context"
	"net/http"
	"time"

	"session_auth/internal/models"
	"session_auth/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signInResult service.SignInResult
	signInErr    error
	parseID      int
	parseErr     error
	currentUser  *models.User
	currentErr   error

	lastCreds      models.Credentials
	lastParseToken string
	lastCurrentID  int
}

func (m *mockAuth) SignIn(_ context.Context, creds models.Credentials) (service.SignInResult, error) {
	m.lastCreds = creds
	return m.signInResult, m.signInErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

func (m *mockAuth) CurrentUser(_ context.Context, userID int) (*models.User, error) {
	m.lastCurrentID = userID
	return m.currentUser, m.currentErr
}

type mockAuditLog struct {
	resp     []models.AuthEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	events   chan models.AuthEvent
}

func (m *mockAuditLog) List(_ context.Context, f service.LogFilter) ([]models.AuthEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// Subscribe hands out m.events, or a channel that only closes with ctx.
func (m *mockAuditLog) Subscribe(ctx context.Context) <-chan models.AuthEvent {
	if m.events != nil {
		return m.events
	}
	ch := make(chan models.AuthEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts...)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
