package domain

import (
	"strings"
	"time"
)

const TokenTypeBearer = "Bearer"

type AuthParams struct {
	TokenType   string
	AccessToken string
	// RefreshToken is empty when the login flow did not issue one.
	RefreshToken string
	Scope        string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

func (p AuthParams) Valid() bool {
	return strings.TrimSpace(p.AccessToken) != ""
}

func (p AuthParams) Expired(now time.Time) bool {
	if p.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(p.ExpiresAt)
}

func (p AuthParams) CanRefresh() bool {
	return strings.TrimSpace(p.RefreshToken) != ""
}

// AuthorizationValue renders the Authorization header value, canonicalising the
// bearer scheme name.
func (p AuthParams) AuthorizationValue() string {
	tokenType := strings.TrimSpace(p.TokenType)
	if tokenType == "" || strings.EqualFold(tokenType, TokenTypeBearer) {
		tokenType = TokenTypeBearer
	}
	return tokenType + " " + p.AccessToken
}

// APIHandle is what backend collaborators need to act for the active account.
type APIHandle struct {
	BackendURL string
	HubURL     string
	Headers    map[string]string
}
