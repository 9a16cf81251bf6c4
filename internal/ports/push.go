package ports

import (
	"context"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
)

// AccountSwitchHandler is called when a push payload selects another account.
type AccountSwitchHandler func(ctx context.Context, backendURL string, issueID string) error

// PushTransport returns domain.ErrUnsupported when the device or server cannot
// receive push notifications. Initialize must not call onSwitch before it returns.
type PushTransport interface {
	Register(ctx context.Context, api domain.APIHandle) error
	Unregister(ctx context.Context, api domain.APIHandle) error
	Initialize(ctx context.Context, api domain.APIHandle, onSwitch AccountSwitchHandler) error
}

type RegistrationFlag interface {
	IsRegistered() bool
	SetRegistered(ctx context.Context, registered bool) error
}
