package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

// hubServiceID is the well-known id of the Hub service itself.
const hubServiceID = "0-0-0-0-0"

// LoginFlow signs a user in with the OAuth device authorization grant against the
// Hub of the server being added.
type LoginFlow struct {
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	PollTimeout    time.Duration
	// Prompt shows the verification URL and user code. It must not block.
	Prompt func(DeviceCodeResult)
	Clock  ports.Clock
}

var _ ports.LoginFlow = (*LoginFlow)(nil)

func (f *LoginFlow) LogIn(ctx context.Context, config domain.ServerConfig) (domain.AuthParams, error) {
	if config.ClientID == "" {
		return domain.AuthParams{}, fmt.Errorf("%w: server did not announce an oauth client id", domain.ErrConfig)
	}

	adapter := f.adapter(config)
	code, err := adapter.RequestDeviceCode(ctx, config.ClientID, []string{hubServiceID, config.ClientID})
	if err != nil {
		return domain.AuthParams{}, loginError(err)
	}
	if f.Prompt != nil {
		f.Prompt(code)
	}

	token, err := adapter.PollToken(ctx, DevicePollRequest{
		ClientID:     config.ClientID,
		DeviceAuthID: code.DeviceAuthID,
		PollInterval: code.PollInterval,
		Timeout:      f.PollTimeout,
	})
	if err != nil {
		return domain.AuthParams{}, loginError(err)
	}

	return f.toParams(token, ""), nil
}

func (f *LoginFlow) Refresh(ctx context.Context, config domain.ServerConfig, params domain.AuthParams) (domain.AuthParams, error) {
	if !params.CanRefresh() {
		return domain.AuthParams{}, fmt.Errorf("%w: no refresh token", domain.ErrAuth)
	}

	token, err := f.adapter(config).RefreshToken(ctx, config.ClientID, params.RefreshToken)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.AuthParams{}, err
		}
		return domain.AuthParams{}, fmt.Errorf("%w: %w", domain.ErrAuth, err)
	}

	refreshed := f.toParams(token, params.RefreshToken)
	if refreshed.Scope == "" {
		refreshed.Scope = params.Scope
	}
	return refreshed, nil
}

func (f *LoginFlow) adapter(config domain.ServerConfig) DeviceFlowAdapter {
	return DeviceFlowAdapter{
		API:            HubAPI(config.ResolvedHubURL()),
		HTTPClient:     f.HTTPClient,
		RequestTimeout: f.RequestTimeout,
	}
}

func (f *LoginFlow) toParams(token TokenResult, previousRefresh string) domain.AuthParams {
	now := f.now()
	issuedAt, expiresAt := tokenLifetime(token.AccessToken)
	if issuedAt.IsZero() {
		issuedAt = now
	}
	if expiresAt.IsZero() && token.ExpiresIn > 0 {
		expiresAt = issuedAt.Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	refresh := token.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = domain.TokenTypeBearer
	}

	return domain.AuthParams{
		TokenType:    tokenType,
		AccessToken:  token.AccessToken,
		RefreshToken: refresh,
		Scope:        token.Scope,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
	}
}

func (f *LoginFlow) now() time.Time {
	if f.Clock == nil {
		return time.Now().UTC()
	}
	return f.Clock.Now()
}

func loginError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, ErrAccessDenied):
		return fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	case errors.Is(err, ErrDeviceFlowTimeout):
		return fmt.Errorf("%w: %w", domain.ErrAuth, err)
	}
	return fmt.Errorf("%w: log in: %w", domain.ErrNetwork, err)
}
