package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var loginNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func signedToken(t *testing.T, issuedAt, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1-1",
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func newHubServer(t *testing.T, tokenBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/hub/api/rest/oauth2/device/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"device_code":"dev-1","user_code":"WXYZ-1234","verification_uri":"https://hub.example/verify","interval":1}`))
	})
	mux.HandleFunc("/hub/api/rest/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tokenBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoginFlowUsesJWTClaimsForLifetime(t *testing.T) {
	t.Parallel()

	issued := loginNow.Add(-time.Minute)
	expires := loginNow.Add(time.Hour)
	access := signedToken(t, issued, expires)
	server := newHubServer(t, `{"access_token":"`+access+`","token_type":"bearer","refresh_token":"refresh-1","scope":"0-0-0-0-0 mobile"}`)

	var prompted DeviceCodeResult
	flow := &LoginFlow{
		HTTPClient: server.Client(),
		Clock:      fixedClock{now: loginNow},
		Prompt:     func(code DeviceCodeResult) { prompted = code },
	}

	params, err := flow.LogIn(context.Background(), domain.ServerConfig{BackendURL: server.URL + "/youtrack", ClientID: "mobile"})
	require.NoError(t, err)
	assert.Equal(t, "WXYZ-1234", prompted.UserCode)
	assert.Equal(t, access, params.AccessToken)
	assert.Equal(t, "bearer", params.TokenType)
	assert.Equal(t, "refresh-1", params.RefreshToken)
	assert.Equal(t, "0-0-0-0-0 mobile", params.Scope)
	assert.True(t, issued.Equal(params.IssuedAt))
	assert.True(t, expires.Equal(params.ExpiresAt))
}

func TestLoginFlowFallsBackToExpiresInForOpaqueTokens(t *testing.T) {
	t.Parallel()

	server := newHubServer(t, `{"access_token":"opaque","expires_in":3600}`)
	flow := &LoginFlow{HTTPClient: server.Client(), Clock: fixedClock{now: loginNow}}

	params, err := flow.LogIn(context.Background(), domain.ServerConfig{BackendURL: server.URL, ClientID: "mobile"})
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeBearer, params.TokenType)
	assert.Equal(t, loginNow, params.IssuedAt)
	assert.Equal(t, loginNow.Add(time.Hour), params.ExpiresAt)
}

func TestLoginFlowRequiresClientID(t *testing.T) {
	t.Parallel()

	flow := &LoginFlow{}
	_, err := flow.LogIn(context.Background(), domain.ServerConfig{BackendURL: "https://tracker.example"})
	require.ErrorIs(t, err, domain.ErrConfig)
}

func TestLoginFlowCanceledContextMapsToCanceled(t *testing.T) {
	t.Parallel()

	server := newHubServer(t, `{"error":"authorization_pending"}`)
	flow := &LoginFlow{HTTPClient: server.Client()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := flow.LogIn(ctx, domain.ServerConfig{BackendURL: server.URL, ClientID: "mobile"})
	require.ErrorIs(t, err, domain.ErrCanceled)
}

func TestLoginFlowRefreshKeepsRefreshTokenWhenOmitted(t *testing.T) {
	t.Parallel()

	server := newHubServer(t, `{"access_token":"fresh","expires_in":60}`)
	flow := &LoginFlow{HTTPClient: server.Client(), Clock: fixedClock{now: loginNow}}

	params, err := flow.Refresh(context.Background(),
		domain.ServerConfig{BackendURL: server.URL, ClientID: "mobile"},
		domain.AuthParams{AccessToken: "stale", RefreshToken: "refresh-1", Scope: "mobile"},
	)
	require.NoError(t, err)
	assert.Equal(t, "fresh", params.AccessToken)
	assert.Equal(t, "refresh-1", params.RefreshToken)
	assert.Equal(t, "mobile", params.Scope)
	assert.Equal(t, loginNow.Add(time.Minute), params.ExpiresAt)
}

func TestLoginFlowRefreshWithoutRefreshTokenFails(t *testing.T) {
	t.Parallel()

	flow := &LoginFlow{}
	_, err := flow.Refresh(context.Background(), domain.ServerConfig{ClientID: "mobile"}, domain.AuthParams{AccessToken: "stale"})
	require.ErrorIs(t, err, domain.ErrAuth)
}

func TestTokenLifetimeIgnoresOpaqueTokens(t *testing.T) {
	t.Parallel()

	issued, expires := tokenLifetime("not-a-jwt")
	assert.True(t, issued.IsZero())
	assert.True(t, expires.IsZero())
}
