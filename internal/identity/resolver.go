// Package identity resolves the opaque voter token that enforces
// one-vote-per-voter. Two deployment strategies exist: a long-lived cookie for
// direct embedding, or a caller-supplied token for cross-origin embeds where
// third-party cookies are unusable. A deployment picks exactly one so that
// hasVoted is computed from the same identity that guarded the vote.
package identity

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
)

// CookieName is the voter token cookie issued in cookie mode.
const CookieName = "poll_token"

// cookieMaxAge keeps the voter identity stable for a year.
const cookieMaxAge = 365 * 24 * 60 * 60

// Resolver produces the voter token for a request.
type Resolver interface {
	// Identify returns the voter token for a vote request. It may mint a new
	// identity as a side effect (cookie mode sets the cookie on the response).
	Identify(c echo.Context, supplied string) (string, error)

	// Peek returns the voter token for a read-only request without ever
	// minting one. Empty means the reader is anonymous and hasVoted is false.
	Peek(c echo.Context, supplied string) string
}

// New returns the resolver for the configured mode ("cookie" or "token").
func New(mode string) Resolver {
	if mode == "token" {
		return TokenResolver{}
	}
	return CookieResolver{}
}

// CookieResolver issues and reuses an HTTP-only poll_token cookie.
// SameSite=None + Secure so the cookie survives cross-site embedding.
type CookieResolver struct{}

func (CookieResolver) Identify(c echo.Context, _ string) (string, error) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	token := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return token, nil
}

func (CookieResolver) Peek(c echo.Context, _ string) string {
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// TokenResolver trusts the token the embedding application passes explicitly.
type TokenResolver struct{}

func (TokenResolver) Identify(_ echo.Context, supplied string) (string, error) {
	if supplied == "" {
		return "", domain.ErrNoVoterIdentity
	}
	return supplied, nil
}

func (TokenResolver) Peek(_ echo.Context, supplied string) string {
	return supplied
}
