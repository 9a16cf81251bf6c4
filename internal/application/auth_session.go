package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

const permissionsCachePath = "/api/rest/permissions/cache?fields=permission/key,global,projects/id"

// PersistFunc writes a subset of the active record. The orchestrator supplies it so
// that sessions never touch the store directly.
type PersistFunc func(ctx context.Context, fields domain.PartialRecord) error

// AuthSession holds the credentials of one account. A fresh session is created each
// time an account is activated.
type AuthSession struct {
	config  domain.ServerConfig
	login   ports.LoginFlow
	persist PersistFunc
	clock   ports.Clock

	mu     sync.RWMutex
	params *domain.AuthParams
	user   *domain.User
}

func NewAuthSession(config domain.ServerConfig, login ports.LoginFlow, persist PersistFunc, clock ports.Clock) *AuthSession {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &AuthSession{
		config:  config,
		login:   login,
		persist: persist,
		clock:   clock,
	}
}

func (s *AuthSession) Config() domain.ServerConfig {
	return s.config
}

// CacheAuthParams persists params into the bound record and keeps them in memory once
// the write succeeded.
func (s *AuthSession) CacheAuthParams(ctx context.Context, params domain.AuthParams) error {
	if !params.Valid() {
		return fmt.Errorf("%w: access token is empty", domain.ErrAuth)
	}
	if s.persist != nil {
		if err := s.persist(ctx, domain.PartialRecord{AuthParams: &params}); err != nil {
			return fmt.Errorf("cache auth params: %w", err)
		}
	}

	s.mu.Lock()
	s.params = &params
	s.mu.Unlock()
	return nil
}

// RestoreFromCache loads credentials and the user snapshot from record. Expired tokens
// are refreshed when a refresh token is available.
func (s *AuthSession) RestoreFromCache(ctx context.Context, record domain.AccountRecord) error {
	if record.AuthParams == nil || !record.AuthParams.Valid() {
		return domain.ErrNoAuthorization
	}

	params := *record.AuthParams
	if params.Expired(s.clock.Now()) {
		if !params.CanRefresh() || s.login == nil {
			return fmt.Errorf("%w: access token expired", domain.ErrAuth)
		}
		refreshed, err := s.login.Refresh(ctx, s.config, params)
		if err != nil {
			return fmt.Errorf("%w: refresh access token: %w", domain.ErrAuth, err)
		}
		if err := s.CacheAuthParams(ctx, refreshed); err != nil {
			return err
		}
		params = refreshed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = &params
	if record.CurrentUser != nil {
		user := record.CurrentUser.Clone()
		s.user = &user
	}
	return nil
}

func (s *AuthSession) AuthParams() (domain.AuthParams, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.params == nil {
		return domain.AuthParams{}, false
	}
	return *s.params, true
}

// AuthorizationHeaders returns an empty map when the session holds no credentials.
func (s *AuthSession) AuthorizationHeaders() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	headers := map[string]string{}
	if s.params == nil || !s.params.Valid() {
		return headers
	}
	headers["Authorization"] = s.params.AuthorizationValue()
	return headers
}

func (s *AuthSession) IsAuthorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params != nil && s.params.Valid() && !s.params.Expired(s.clock.Now())
}

func (s *AuthSession) LogOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = nil
	s.user = nil
}

func (s *AuthSession) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := s.user.Clone()
	return &user
}

func (s *AuthSession) SetCurrentUser(ctx context.Context, user domain.User) error {
	if s.persist != nil {
		if err := s.persist(ctx, domain.PartialRecord{CurrentUser: &user}); err != nil {
			return fmt.Errorf("cache current user: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := user.Clone()
	s.user = &clone
	return nil
}

func (s *AuthSession) APIHandle() domain.APIHandle {
	return domain.APIHandle{
		BackendURL: domain.NormalizeBackendURL(s.config.BackendURL),
		HubURL:     s.hubURL(),
		Headers:    s.AuthorizationHeaders(),
	}
}

func (s *AuthSession) PermissionsURL() string {
	return s.hubURL() + permissionsCachePath
}

func (s *AuthSession) hubURL() string {
	return s.config.ResolvedHubURL()
}
