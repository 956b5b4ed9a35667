// Package session holds client-side authentication state and the HTTP client that
// fills it. A Context starts unauthenticated and is updated on each successful sign-in.
package session

import (
	"sync"

	"session_auth/internal/models"
)

// Context is the authentication state shared with UI consumers.
type Context struct {
	mu   sync.RWMutex
	user *models.User
}

func NewContext() *Context {
	return &Context{}
}

// User returns a copy of the signed-in user, or nil.
func (c *Context) User() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

func (c *Context) set(u models.User) {
	c.mu.Lock()
	c.user = &u
	c.mu.Unlock()
}
