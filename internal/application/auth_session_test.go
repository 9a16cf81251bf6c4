package application

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthSessionCacheAuthParamsPersistsBeforeExposingHeaders(t *testing.T) {
	var persisted []domain.PartialRecord
	session := NewAuthSession(domain.ServerConfig{BackendURL: "https://a.example/"}, nil, func(_ context.Context, fields domain.PartialRecord) error {
		persisted = append(persisted, fields)
		return nil
	}, fixedClock{now: testNow})

	assert.Empty(t, session.AuthorizationHeaders())
	assert.False(t, session.IsAuthorized())

	require.NoError(t, session.CacheAuthParams(context.Background(), domain.AuthParams{TokenType: "bearer", AccessToken: "t1"}))

	require.Len(t, persisted, 1)
	require.NotNil(t, persisted[0].AuthParams)
	assert.Equal(t, "t1", persisted[0].AuthParams.AccessToken)
	assert.Equal(t, map[string]string{"Authorization": "Bearer t1"}, session.AuthorizationHeaders())
	assert.True(t, session.IsAuthorized())

	handle := session.APIHandle()
	assert.Equal(t, "https://a.example", handle.BackendURL)
	assert.Equal(t, "https://a.example/hub", handle.HubURL)
	assert.Equal(t, "https://a.example/hub"+permissionsCachePath, session.PermissionsURL())
}

func TestAuthSessionCacheAuthParamsKeepsPreviousStateOnStorageError(t *testing.T) {
	session := NewAuthSession(domain.ServerConfig{BackendURL: "https://a.example"}, nil, func(context.Context, domain.PartialRecord) error {
		return domain.ErrStorage
	}, nil)

	err := session.CacheAuthParams(context.Background(), domain.AuthParams{AccessToken: "t1"})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, session.AuthorizationHeaders())

	err = session.CacheAuthParams(context.Background(), domain.AuthParams{})
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestAuthSessionRestoreFromCache(t *testing.T) {
	config := domain.ServerConfig{BackendURL: "https://a.example", HubURL: "https://hub.example/"}

	t.Run("missing params", func(t *testing.T) {
		session := NewAuthSession(config, nil, nil, fixedClock{now: testNow})
		err := session.RestoreFromCache(context.Background(), domain.AccountRecord{Config: config})
		assert.ErrorIs(t, err, domain.ErrNoAuthorization)
		assert.ErrorIs(t, err, domain.ErrAuth)
	})

	t.Run("valid params and user", func(t *testing.T) {
		session := NewAuthSession(config, nil, nil, fixedClock{now: testNow})
		record := domain.AccountRecord{
			Config:      config,
			AuthParams:  &domain.AuthParams{TokenType: "Bearer", AccessToken: "t1", ExpiresAt: testNow.Add(time.Hour)},
			CurrentUser: &domain.User{ID: "1-1", Login: "john"},
		}
		require.NoError(t, session.RestoreFromCache(context.Background(), record))
		assert.True(t, session.IsAuthorized())
		require.NotNil(t, session.CurrentUser())
		assert.Equal(t, "john", session.CurrentUser().Login)
		assert.Equal(t, "https://hub.example", session.APIHandle().HubURL)
	})

	t.Run("expired without refresh token", func(t *testing.T) {
		session := NewAuthSession(config, nil, nil, fixedClock{now: testNow})
		record := domain.AccountRecord{AuthParams: &domain.AuthParams{AccessToken: "t1", ExpiresAt: testNow}}
		assert.ErrorIs(t, session.RestoreFromCache(context.Background(), record), domain.ErrAuth)
	})

	t.Run("expired with refresh token", func(t *testing.T) {
		login := mocks.NewMockLoginFlow(t)
		expired := domain.AuthParams{AccessToken: "t1", RefreshToken: "r1", ExpiresAt: testNow}
		refreshed := domain.AuthParams{AccessToken: "t2", RefreshToken: "r1", ExpiresAt: testNow.Add(time.Hour)}
		login.EXPECT().Refresh(mockAnyContext(), config, expired).Return(refreshed, nil)

		var persisted domain.PartialRecord
		session := NewAuthSession(config, login, func(_ context.Context, fields domain.PartialRecord) error {
			persisted = fields
			return nil
		}, fixedClock{now: testNow})

		require.NoError(t, session.RestoreFromCache(context.Background(), domain.AccountRecord{AuthParams: &expired}))
		params, ok := session.AuthParams()
		require.True(t, ok)
		assert.Equal(t, "t2", params.AccessToken)
		require.NotNil(t, persisted.AuthParams)
		assert.Equal(t, "t2", persisted.AuthParams.AccessToken)
	})

	t.Run("refresh failure", func(t *testing.T) {
		login := mocks.NewMockLoginFlow(t)
		expired := domain.AuthParams{AccessToken: "t1", RefreshToken: "r1", ExpiresAt: testNow}
		login.EXPECT().Refresh(mockAnyContext(), config, expired).Return(domain.AuthParams{}, errBoom)

		session := NewAuthSession(config, login, nil, fixedClock{now: testNow})
		err := session.RestoreFromCache(context.Background(), domain.AccountRecord{AuthParams: &expired})
		assert.ErrorIs(t, err, domain.ErrAuth)
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestAuthSessionLogOutIsIdempotent(t *testing.T) {
	session := NewAuthSession(domain.ServerConfig{BackendURL: "https://a.example"}, nil, nil, nil)
	require.NoError(t, session.CacheAuthParams(context.Background(), domain.AuthParams{AccessToken: "t1"}))

	session.LogOut()
	session.LogOut()

	assert.False(t, session.IsAuthorized())
	assert.Empty(t, session.AuthorizationHeaders())
	_, ok := session.AuthParams()
	assert.False(t, ok)
	assert.Nil(t, session.CurrentUser())
}
