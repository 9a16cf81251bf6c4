package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

const (
	pushSubscribePath    = "/api/mobile/notifications/subscribe"
	pushUnsubscribePath  = "/api/mobile/notifications/unsubscribe"
	pushSubscriptionPath = "/api/mobile/notifications/subscription"
	pushPlatform         = "cli"
)

type pushDevice struct {
	DeviceID string `json:"deviceId"`
	Platform string `json:"platform"`
}

var _ ports.PushTransport = (*Client)(nil)

// Register subscribes this installation to notifications of the account behind api.
// Servers without the mobile notification API report domain.ErrUnsupported.
func (c *Client) Register(ctx context.Context, api domain.APIHandle) error {
	if c.deviceID == "" {
		return fmt.Errorf("%w: no device id configured", domain.ErrUnsupported)
	}
	err := c.postJSON(ctx, api.BackendURL+pushSubscribePath, api.Headers, pushDevice{DeviceID: c.deviceID, Platform: pushPlatform}, nil)
	return pushError("subscribe", err)
}

func (c *Client) Unregister(ctx context.Context, api domain.APIHandle) error {
	if c.deviceID == "" {
		return nil
	}
	err := c.postJSON(ctx, api.BackendURL+pushUnsubscribePath, api.Headers, pushDevice{DeviceID: c.deviceID, Platform: pushPlatform}, nil)
	return pushError("unsubscribe", err)
}

// Initialize confirms the subscription is still known to the server. Notifications
// reach the CLI through `ta push open`, which hands them to the registrar, so the
// switch handler is not retained here.
func (c *Client) Initialize(ctx context.Context, api domain.APIHandle, _ ports.AccountSwitchHandler) error {
	if c.deviceID == "" {
		return fmt.Errorf("%w: no device id configured", domain.ErrUnsupported)
	}
	query := url.Values{}
	query.Set("deviceId", c.deviceID)
	err := c.getJSON(ctx, api.BackendURL+pushSubscriptionPath+"?"+query.Encode(), api.Headers, nil)
	return pushError("check subscription", err)
}

func pushError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errNotFound), errors.Is(err, domain.ErrUnsupported):
		return fmt.Errorf("%w: push %s: %w", domain.ErrUnsupported, op, err)
	}
	return fmt.Errorf("push %s: %w", op, err)
}
