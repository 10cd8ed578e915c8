// Package session moves session tokens between the server and the browser
// in an HttpOnly cookie.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const DefaultCookieName = "jwt"

// Transport reads and writes the session cookie.
type Transport struct {
	name   string
	ttl    time.Duration
	secure bool
}

// NewTransport builds a Transport. An empty name falls back to
// DefaultCookieName.
func NewTransport(name string, ttl time.Duration, secure bool) *Transport {
	if name == "" {
		name = DefaultCookieName
	}
	return &Transport{name: name, ttl: ttl, secure: secure}
}

// Attach sets the session cookie carrying token.
func (t *Transport) Attach(c echo.Context, token string) {
	c.SetCookie(t.cookie(token, int(t.ttl/time.Second)))
}

// Extract returns the token presented by the client, or "" when the cookie
// is absent or empty.
func (t *Transport) Extract(c echo.Context) string {
	ck, err := c.Cookie(t.name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// Clear instructs the client to drop the session cookie.
func (t *Transport) Clear(c echo.Context) {
	c.SetCookie(t.cookie("", -1))
}

func (t *Transport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     t.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
