package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

const pushFailedMessage = "Failed to subscribe to push notifications"

type PushState int

const (
	PushUnregistered PushState = iota
	PushRegistering
	PushRegistered
	PushUnregistering
)

func (s PushState) String() string {
	switch s {
	case PushRegistering:
		return "registering"
	case PushRegistered:
		return "registered"
	case PushUnregistering:
		return "unregistering"
	default:
		return "unregistered"
	}
}

// PushRegistrar keeps the device registration in sync with the persisted flag and
// routes push payloads that target another account to the bound switch handler.
type PushRegistrar struct {
	transport ports.PushTransport
	flag      ports.RegistrationFlag
	notifier  ports.Notifier
	metrics   ports.SessionMetrics
	logger    *slog.Logger

	mu       sync.Mutex
	state    PushState
	api      domain.APIHandle
	onSwitch ports.AccountSwitchHandler
}

func NewPushRegistrar(transport ports.PushTransport, flag ports.RegistrationFlag, notifier ports.Notifier, metrics ports.SessionMetrics, logger *slog.Logger) *PushRegistrar {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	state := PushUnregistered
	if flag.IsRegistered() {
		state = PushRegistered
	}

	return &PushRegistrar{
		transport: transport,
		flag:      flag,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
		state:     state,
	}
}

func (r *PushRegistrar) IsRegistered() bool {
	return r.flag.IsRegistered()
}

func (r *PushRegistrar) State() PushState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Register registers the device and binds onSwitch. When the flag already says the
// device is registered only the binding is refreshed. The flag follows the server
// side registration even when binding the transport fails afterwards.
func (r *PushRegistrar) Register(ctx context.Context, api domain.APIHandle, onSwitch ports.AccountSwitchHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flag.IsRegistered() {
		r.state = PushRegistered
		if err := r.rebindLocked(ctx, api, onSwitch); err != nil {
			return r.bindFailed(api, err)
		}
		r.metrics.PushRegistration("rebound")
		return nil
	}

	r.state = PushRegistering
	if err := r.transport.Register(ctx, api); err != nil {
		r.state = PushUnregistered
		return r.registrationFailed(api, err)
	}
	r.state = PushRegistered
	if err := r.flag.SetRegistered(ctx, true); err != nil {
		r.logger.Warn("persist push registration flag failed", slog.String("backend_url", api.BackendURL), slog.Any("error", err))
	}
	if err := r.rebindLocked(ctx, api, onSwitch); err != nil {
		return r.bindFailed(api, err)
	}

	r.metrics.PushRegistration("registered")
	r.logger.Info("registered for push notifications", slog.String("backend_url", api.BackendURL))
	return nil
}

// Unregister is best effort. The flag is cleared before the transport call so a
// failed call never leaves a stale registered state behind.
func (r *PushRegistrar) Unregister(ctx context.Context, api domain.APIHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.flag.IsRegistered() {
		r.state = PushUnregistered
		return nil
	}

	r.state = PushUnregistering
	if err := r.flag.SetRegistered(ctx, false); err != nil {
		r.logger.Warn("clear push registration flag failed", slog.String("backend_url", api.BackendURL), slog.Any("error", err))
	}

	err := r.transport.Unregister(ctx, api)
	r.state = PushUnregistered
	r.onSwitch = nil
	if err != nil {
		r.metrics.PushRegistration("unregister_failed")
		r.logger.Warn("unregister from push notifications failed", slog.String("backend_url", api.BackendURL), slog.Any("error", err))
		return fmt.Errorf("%w: unregister device: %w", domain.ErrRegistration, err)
	}

	r.metrics.PushRegistration("unregistered")
	return nil
}

// Rebind re-associates the transport with api and onSwitch without registering the
// device again.
func (r *PushRegistrar) Rebind(ctx context.Context, api domain.APIHandle, onSwitch ports.AccountSwitchHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rebindLocked(ctx, api, onSwitch)
}

// Deliver hands payload to the switch handler when it targets another backend.
// The handler runs on the calling goroutine.
func (r *PushRegistrar) Deliver(ctx context.Context, payload domain.PushPayload) error {
	r.mu.Lock()
	bound := r.api.BackendURL
	handler := r.onSwitch
	r.mu.Unlock()

	if handler == nil || payload.BackendURL == "" || domain.SameBackend(bound, payload.BackendURL) {
		return nil
	}
	return handler(ctx, payload.BackendURL, payload.IssueID)
}

func (r *PushRegistrar) rebindLocked(ctx context.Context, api domain.APIHandle, onSwitch ports.AccountSwitchHandler) error {
	r.api = api
	r.onSwitch = onSwitch
	if err := r.transport.Initialize(ctx, api, r.deliver); err != nil {
		return fmt.Errorf("initialize push transport: %w", err)
	}
	return nil
}

func (r *PushRegistrar) deliver(ctx context.Context, backendURL, issueID string) error {
	return r.Deliver(ctx, domain.PushPayload{BackendURL: backendURL, IssueID: issueID})
}

func (r *PushRegistrar) registrationFailed(api domain.APIHandle, err error) error {
	if errors.Is(err, domain.ErrUnsupported) {
		r.metrics.PushRegistration("unsupported")
		r.logger.Warn("push notifications are not supported", slog.String("backend_url", api.BackendURL), slog.Any("error", err))
		return nil
	}

	r.metrics.PushRegistration("failed")
	r.logger.Error("register for push notifications failed", slog.String("backend_url", api.BackendURL), slog.Any("error", err))
	if r.notifier != nil {
		r.notifier.Notify(pushFailedMessage, defaultNotifyDuration)
	}
	return fmt.Errorf("%w: %w", domain.ErrRegistration, err)
}

func (r *PushRegistrar) bindFailed(api domain.APIHandle, err error) error {
	r.metrics.PushRegistration("bind_failed")
	r.logger.Warn("bind push transport failed", slog.String("backend_url", api.BackendURL), slog.Any("error", err))
	return fmt.Errorf("%w: %w", domain.ErrRegistration, err)
}
