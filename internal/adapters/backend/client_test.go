package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithHTTPClient(server.Client()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return NewClient(opts...), server
}

func apiHandle(serverURL string) domain.APIHandle {
	return domain.APIHandle{
		BackendURL: serverURL,
		HubURL:     serverURL + "/hub",
		Headers:    map[string]string{"Authorization": "Bearer token-1"},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestLoadConfigParsesServerConfig(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/config", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "fields=")
		_, _ = w.Write([]byte(`{"version":"2026.2","build":"2026.2.1234","features":[{"id":"push","enabled":true},{"id":"beta","enabled":false}],"ring":{"url":"/hub"},"mobile":{"serviceId":"mobile-client"}}`))
	}))

	config, err := client.LoadConfig(context.Background(), server.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, domain.ServerConfig{
		BackendURL: server.URL,
		Version:    "2026.2",
		Build:      "2026.2.1234",
		HubURL:     server.URL + "/hub",
		ClientID:   "mobile-client",
		Features:   []string{"push"},
	}, config)
}

func TestLoadConfigRetriesUnderYouTrackPath(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtrack/api/config" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"version":"2026.1","ring":{"url":"https://hub.example.com/hub"},"mobile":{"serviceId":"m"}}`))
	}))

	config, err := client.LoadConfig(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/youtrack", config.BackendURL)
	assert.Equal(t, "https://hub.example.com/hub", config.HubURL)
}

func TestLoadConfigFailureWrapsErrConfig(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.LoadConfig(context.Background(), server.URL)
	require.ErrorIs(t, err, domain.ErrConfig)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestLoadConfigRejectsInvalidURL(t *testing.T) {
	t.Parallel()

	client := NewClient()

	testCases := []struct {
		name string
		url  string
	}{
		{name: "empty", url: "  "},
		{name: "unsupported scheme", url: "ftp://tracker.example.com"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.LoadConfig(context.Background(), tc.url)
			require.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestNormalizeServerURLAddsScheme(t *testing.T) {
	t.Parallel()

	got, err := normalizeServerURL("tracker.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.example.com", got)
}

func TestFetchCurrentUserMapsProfilesAndConsent(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"1-1","login":"jdoe","name":"J. Doe","profiles":{"general":{"searchContext":null},"appearance":{"naturalCommentsOrder":false}},"endUserAgreementConsent":{"accepted":true,"majorVersion":2,"minorVersion":1}}`))
	}))

	user, err := client.FetchCurrentUser(context.Background(), apiHandle(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Login)
	require.NotNil(t, user.Profiles)
	assert.Empty(t, user.Profiles.General.SearchContext)
	assert.False(t, user.Profiles.Appearance.NaturalCommentsOrder)
	assert.True(t, user.HasAcceptedAgreement())
	assert.Equal(t, 2, user.AgreementConsent.MajorVersion)
}

func TestFetchCurrentUserUnauthorizedWrapsErrAuth(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_token","error_description":"token expired"}`))
	}))

	_, err := client.FetchCurrentUser(context.Background(), apiHandle(server.URL))
	require.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorContains(t, err, "token expired")
}

func TestFetchAgreement(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		status  int
		body    string
		want    *domain.Agreement
		wantErr error
	}{
		{
			name:   "enabled",
			status: http.StatusOK,
			body:   `{"endUserAgreement":{"enabled":true,"text":"Be nice","majorVersion":3,"minorVersion":0}}`,
			want:   &domain.Agreement{Enabled: true, Text: "Be nice", MajorVersion: 3},
		},
		{name: "not configured", status: http.StatusOK, body: `{}`},
		{name: "unsupported", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantErr: domain.ErrNetwork},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/hub/api/rest/settings/public", r.URL.Path)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))

			got, err := client.FetchAgreement(context.Background(), apiHandle(server.URL))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAcceptAgreementPostsConsent(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/hub/api/rest/users/me/endUserAgreementConsent", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["accepted"])
		_, _ = w.Write([]byte(`{"accepted":true}`))
	}))

	require.NoError(t, client.AcceptAgreement(context.Background(), apiHandle(server.URL)))
}

func TestFetchProjectsAndWorkTimeSettings(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/projects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []projectResponse{{ID: "0-1", ShortName: "DEMO", Name: "Demo", Pinned: true}})
	})
	mux.HandleFunc("/api/admin/timeTrackingSettings/workTimeSettings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, workTimeResponse{MinutesADay: 480, WorkDays: []int{1, 2, 3, 4, 5}, FirstDayOfWeek: 1, DaysAWeek: 5})
	})
	client, server := newTestClient(t, mux)

	projects, err := client.FetchProjects(context.Background(), apiHandle(server.URL))
	require.NoError(t, err)
	assert.Equal(t, []domain.Project{{ID: "0-1", ShortName: "DEMO", Name: "Demo", Pinned: true}}, projects)

	settings, err := client.FetchWorkTimeSettings(context.Background(), apiHandle(server.URL))
	require.NoError(t, err)
	assert.Equal(t, domain.WorkTimeSettings{MinutesADay: 480, WorkDays: []int{1, 2, 3, 4, 5}, FirstDayOfWeek: 1, DaysAWeek: 5}, settings)
}

func TestFetchPermissionsFlattensGrants(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hub/api/rest/permissions/cache", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"permission":{"key":"JetBrains.YouTrack.READ_ISSUE"},"global":true},
			{"permission":{"key":"JetBrains.YouTrack.UPDATE_ISSUE"},"global":false,"projects":[{"id":"0-1"},{"id":"0-2"}]},
			{"permission":{"key":""},"global":true}
		]`))
	}))

	items, err := client.FetchPermissions(context.Background(), "bearer", "token-1",
		server.URL+"/hub/api/rest/permissions/cache?fields=permission/key,global,projects/id")
	require.NoError(t, err)
	assert.Equal(t, []domain.PermissionCacheItem{
		domain.GlobalPermission(domain.PermissionReadIssue),
		domain.ProjectPermission(domain.PermissionUpdateIssue, "0-1"),
		domain.ProjectPermission(domain.PermissionUpdateIssue, "0-2"),
	}, items)
}

func TestLogOutRevokesToken(t *testing.T) {
	t.Parallel()

	var revoked string
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hub/api/rest/oauth2/revoke", r.URL.Path)
		revoked = r.URL.Query().Get("token")
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.LogOut(context.Background(), apiHandle(server.URL)))
	assert.Equal(t, "token-1", revoked)
}

func TestLogOutToleratesMissingRevocationEndpoint(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.NotFoundHandler())

	require.NoError(t, client.LogOut(context.Background(), apiHandle(server.URL)))
}

func TestPushRegistration(t *testing.T) {
	t.Parallel()

	var subscribed, unsubscribed pushDevice
	mux := http.NewServeMux()
	mux.HandleFunc("/api/mobile/notifications/subscribe", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&subscribed))
	})
	mux.HandleFunc("/api/mobile/notifications/unsubscribe", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&unsubscribed))
	})
	mux.HandleFunc("/api/mobile/notifications/subscription", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "device-1", r.URL.Query().Get("deviceId"))
		_, _ = w.Write([]byte(`{}`))
	})
	client, server := newTestClient(t, mux, WithDeviceID("device-1"))

	require.NoError(t, client.Register(context.Background(), apiHandle(server.URL)))
	require.NoError(t, client.Initialize(context.Background(), apiHandle(server.URL), nil))
	require.NoError(t, client.Unregister(context.Background(), apiHandle(server.URL)))

	assert.Equal(t, pushDevice{DeviceID: "device-1", Platform: "cli"}, subscribed)
	assert.Equal(t, pushDevice{DeviceID: "device-1", Platform: "cli"}, unsubscribed)
}

func TestPushUnsupportedServer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		status int
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "not implemented", status: http.StatusNotImplemented},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}), WithDeviceID("device-1"))

			err := client.Register(context.Background(), apiHandle(server.URL))
			require.ErrorIs(t, err, domain.ErrUnsupported)
		})
	}
}

func TestPushWithoutDeviceIDIsUnsupported(t *testing.T) {
	t.Parallel()

	client := NewClient()
	err := client.Register(context.Background(), apiHandle("https://tracker.example.com"))
	require.ErrorIs(t, err, domain.ErrUnsupported)
	require.NoError(t, client.Unregister(context.Background(), apiHandle("https://tracker.example.com")))
}

func TestRequestTimeoutWrapsErrNetwork(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}), WithTimeout(20*time.Millisecond))

	_, err := client.FetchProjects(context.Background(), apiHandle(server.URL))
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestCanceledContextIsReturnedAsIs(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProjects(ctx, apiHandle(server.URL))
	require.ErrorIs(t, err, context.Canceled)
}
