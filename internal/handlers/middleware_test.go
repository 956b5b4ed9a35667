package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"session_auth/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/secure", h.userIdMiddleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "userId": c.GetInt(ctxUserID)})
	})
	return r
}

func TestUserIDMiddleware_Errors(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantMsg  string
	}{
		{name: "missing header", header: "", wantMsg: "missing Authorization header"},
		{name: "invalid scheme", header: "Token abc", wantMsg: "invalid Authorization header format"},
		{name: "bearer without token", header: "Bearer", wantMsg: "invalid Authorization header format"},
		{name: "bearer with blank token", header: "Bearer   ", wantMsg: "invalid Authorization header format"},
		{name: "expired/invalid token", header: "Bearer expired", parseErr: errors.New("expired"), wantMsg: "invalid or expired token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseErr: tc.parseErr}
			r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401 (body=%s)", w.Code, w.Body.String())
			}

			var out errorResponse
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Message != tc.wantMsg {
				t.Fatalf("message: got %q, want %q", out.Message, tc.wantMsg)
			}
		})
	}
}

func TestUserIDMiddleware_SuccessSetsUserIDAndProceeds(t *testing.T) {
	auth := &mockAuth{parseID: 123}
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

	for _, scheme := range []string{"Bearer", "bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", scheme+" good-token")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp struct {
			OK     bool `json:"ok"`
			UserID int  `json:"userId"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !resp.OK || resp.UserID != 123 {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if auth.lastParseToken != "good-token" {
			t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "good-token")
		}
	}
}
