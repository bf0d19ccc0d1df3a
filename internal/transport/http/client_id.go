package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ClientIdentity issues and reads the anonymous client cookie that theme
// preferences are keyed by
type ClientIdentity struct {
	cookieName string
	lifetime   time.Duration
}

// NewClientIdentity creates an identity using cookieName
func NewClientIdentity(cookieName string, lifetime time.Duration) *ClientIdentity {
	return &ClientIdentity{cookieName: cookieName, lifetime: lifetime}
}

// Lookup returns the client ID carried by r, if it is a valid UUID
func (c *ClientIdentity) Lookup(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Ensure returns the client ID of r, issuing a new cookie when there is none
func (c *ClientIdentity) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := c.Lookup(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
