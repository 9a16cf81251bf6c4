package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

type accountSnapshot struct {
	active domain.AccountRecord
	others domain.AccountList
}

// AddAccount connects to serverURL, logs in and makes the new account active. A user
// cancellation resumes back instead of failing.
func (o *Orchestrator) AddAccount(ctx context.Context, serverURL string, back BackFunc) error {
	config, err := o.configs.LoadConfig(ctx, serverURL)
	if errors.Is(err, domain.ErrCanceled) {
		o.logger.Info("adding account cancelled before connecting", slog.String("backend_url", serverURL))
		if back != nil {
			back("")
		}
		return nil
	}
	if err != nil {
		return o.addAccountFailed(ctx, fmt.Errorf("load server config: %w", err))
	}

	params, err := o.login.LogIn(ctx, config)
	if errors.Is(err, domain.ErrCanceled) {
		o.logger.Info("adding account cancelled at login", slog.String("backend_url", config.BackendURL))
		if back != nil {
			back(config.BackendURL)
		}
		return nil
	}
	if err != nil {
		return o.addAccountFailed(ctx, fmt.Errorf("log in: %w", err))
	}

	if err := o.applyAccount(ctx, config, params); err != nil {
		return o.addAccountFailed(ctx, err)
	}

	o.metrics.AccountAdded(true)
	o.logger.Info("account added", slog.String("backend_url", config.BackendURL))
	return nil
}

func (o *Orchestrator) addAccountFailed(ctx context.Context, cause error) error {
	o.metrics.AccountAdded(false)
	o.notifyError(addAccountMessage, cause)

	o.beginAccountChange()
	defer o.endAccountChange()

	active, err := o.store.ReadState(ctx)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("read active account: %w", err))
	}
	if active.HasConfig() {
		return cause
	}

	others, err := o.store.ReadOtherAccounts(ctx)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("read other accounts: %w", err))
	}
	if len(others) == 0 {
		o.navigate(domain.Route{Kind: domain.RouteEnterServer, Err: cause})
		return cause
	}

	if err := o.switchAccountLocked(ctx, others[0], true, ""); err != nil {
		return errors.Join(cause, fmt.Errorf("fall back to previous account: %w", err))
	}
	return cause
}

// applyAccount demotes the active account, then stores and activates the new one.
func (o *Orchestrator) applyAccount(ctx context.Context, config domain.ServerConfig, params domain.AuthParams) error {
	o.beginAccountChange()
	defer o.endAccountChange()

	current, err := o.store.ReadState(ctx)
	if err != nil {
		return fmt.Errorf("read active account: %w", err)
	}
	others, err := o.store.ReadOtherAccounts(ctx)
	if err != nil {
		return fmt.Errorf("read other accounts: %w", err)
	}

	if current.HasConfig() || current.CreationTimestamp != 0 {
		others = others.Prepend(current)
	}
	if err := o.store.WriteAccounts(ctx, domain.DefaultAccountRecord(), others); err != nil {
		return fmt.Errorf("demote active account: %w", err)
	}
	o.releaseAuth()
	o.setAccounts(domain.DefaultAccountRecord(), others)

	ts := o.nextCreationTimestamp(current, others)
	auth := NewAuthSession(config, o.login, o.persistActive, o.clock)
	if err := auth.CacheAuthParams(ctx, params); err != nil {
		return err
	}
	version := o.appVersion
	if err := o.persistActive(ctx, domain.PartialRecord{Config: &config, CreationTimestamp: &ts, AppVersion: &version}); err != nil {
		return fmt.Errorf("cache server config: %w", err)
	}

	return o.activate(ctx, o.State().Active, "")
}

// SwitchAccount makes target the active account. The stored accounts are captured
// before anything is staged; when activation fails that snapshot is written back and
// the previous account is activated again.
func (o *Orchestrator) SwitchAccount(ctx context.Context, target domain.AccountRecord, dropCurrent bool, issueID string) error {
	o.beginAccountChange()
	defer o.endAccountChange()
	return o.switchAccountLocked(ctx, target, dropCurrent, issueID)
}

func (o *Orchestrator) switchAccountLocked(ctx context.Context, target domain.AccountRecord, dropCurrent bool, issueID string) error {
	snapshot, err := o.captureSnapshot(ctx)
	if err != nil {
		o.metrics.AccountSwitched(ports.SwitchFailed)
		o.notifyError(changeAccountMessage, err)
		return err
	}

	err = o.changeAccountLocked(ctx, target, dropCurrent, issueID)
	if err == nil {
		o.metrics.AccountSwitched(ports.SwitchCompleted)
		return nil
	}
	if !errors.Is(err, domain.ErrNoAuthorization) {
		o.notifyError(changeAccountMessage, err)
	}

	if rollbackErr := o.rollback(ctx, snapshot); rollbackErr != nil {
		o.metrics.AccountSwitched(ports.SwitchFailed)
		o.logger.Error("restore previous account failed", slog.Any("error", rollbackErr))
		return fmt.Errorf("switch account: %w", errors.Join(err, rollbackErr))
	}

	o.metrics.AccountSwitched(ports.SwitchRolledBack)
	return fmt.Errorf("switch account: %w", err)
}

// ChangeAccount activates account without compensation. Failures are reported and
// returned; the account change guard is always released.
func (o *Orchestrator) ChangeAccount(ctx context.Context, account domain.AccountRecord, removeCurrent bool, issueID string) error {
	o.beginAccountChange()
	defer o.endAccountChange()

	err := o.changeAccountLocked(ctx, account, removeCurrent, issueID)
	if err != nil && !errors.Is(err, domain.ErrNoAuthorization) {
		o.notifyError(changeAccountMessage, err)
	}
	return err
}

func (o *Orchestrator) changeAccountLocked(ctx context.Context, target domain.AccountRecord, removeCurrent bool, issueID string) error {
	if target.AuthParams == nil || !target.AuthParams.Valid() {
		o.notify(noAuthorizationMessage)
		return domain.ErrNoAuthorization
	}

	current, err := o.store.ReadState(ctx)
	if err != nil {
		return fmt.Errorf("read active account: %w", err)
	}
	others, err := o.store.ReadOtherAccounts(ctx)
	if err != nil {
		return fmt.Errorf("read other accounts: %w", err)
	}

	next := others.Without(target.CreationTimestamp)
	if !removeCurrent && !current.IsZero() && current.CreationTimestamp != target.CreationTimestamp {
		next = next.Prepend(current)
	}
	if err := domain.ValidateUnique(target, next); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	if err := o.store.WriteAccounts(ctx, target, next); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}

	o.releaseAuth()
	o.setAccounts(target, next)
	o.logger.Info("active account changed",
		slog.String("backend_url", target.Config.BackendURL),
		slog.Int64("account", target.CreationTimestamp),
	)

	return o.activate(ctx, target, issueID)
}

func (o *Orchestrator) captureSnapshot(ctx context.Context) (accountSnapshot, error) {
	active, err := o.store.ReadState(ctx)
	if err != nil {
		return accountSnapshot{}, fmt.Errorf("read active account: %w", err)
	}
	others, err := o.store.ReadOtherAccounts(ctx)
	if err != nil {
		return accountSnapshot{}, fmt.Errorf("read other accounts: %w", err)
	}
	return accountSnapshot{active: active.Clone(), others: others.Clone()}, nil
}

// rollback restores snapshot as a whole and re-activates its active account.
func (o *Orchestrator) rollback(ctx context.Context, snapshot accountSnapshot) error {
	if err := o.store.WriteAccounts(ctx, snapshot.active, snapshot.others); err != nil {
		return fmt.Errorf("restore accounts: %w", err)
	}

	o.releaseAuth()
	o.setAccounts(snapshot.active, snapshot.others)

	if snapshot.active.AuthParams == nil || !snapshot.active.AuthParams.Valid() {
		o.permissions.Replace(snapshot.active.Permissions)
		if snapshot.active.HasConfig() {
			o.navigate(domain.Route{Kind: domain.RouteLogIn, BackendURL: snapshot.active.Config.BackendURL})
		} else {
			o.navigate(domain.Route{Kind: domain.RouteEnterServer})
		}
		return nil
	}

	if err := o.activate(ctx, snapshot.active, ""); err != nil {
		return fmt.Errorf("re-activate previous account: %w", err)
	}
	return nil
}

// RemoveAccountOrLogOut drops the active account and moves to the next one, or logs
// out when it was the last.
func (o *Orchestrator) RemoveAccountOrLogOut(ctx context.Context) error {
	o.beginAccountChange()
	defer o.endAccountChange()
	return o.removeAccountOrLogOutLocked(ctx)
}

func (o *Orchestrator) removeAccountOrLogOutLocked(ctx context.Context) error {
	if o.push != nil && o.push.IsRegistered() {
		if auth := o.currentAuth(); auth != nil {
			if err := o.push.Unregister(ctx, auth.APIHandle()); err != nil {
				o.logger.Warn("continuing account removal after push unregister failure", slog.Any("error", err))
			}
		}
	}

	others, err := o.store.ReadOtherAccounts(ctx)
	if err != nil {
		return fmt.Errorf("read other accounts: %w", err)
	}
	if len(others) == 0 {
		o.logOutLocked(ctx)
		return nil
	}

	return o.switchAccountLocked(ctx, others[0], true, "")
}

// LogOut drops the active account locally. The server side logout is best effort.
// Other accounts stay stored.
func (o *Orchestrator) LogOut(ctx context.Context) {
	o.beginAccountChange()
	defer o.endAccountChange()
	o.logOutLocked(ctx)
}

func (o *Orchestrator) logOutLocked(ctx context.Context) {
	if auth := o.currentAuth(); auth != nil && auth.IsAuthorized() && o.backend != nil {
		if err := o.backend.LogOut(ctx, auth.APIHandle()); err != nil {
			o.logger.Warn("server logout failed", slog.Any("error", err))
		}
	}

	o.releaseAuth()
	o.permissions.Replace(nil)

	if err := o.store.WriteState(ctx, domain.DefaultAccountRecord()); err != nil {
		o.logger.Warn("reset active account failed", slog.Any("error", err))
	}
	others, err := o.store.ReadOtherAccounts(ctx)
	if err != nil {
		o.logger.Warn("read other accounts failed", slog.Any("error", err))
		others = domain.AccountList{}
	}

	o.mu.Lock()
	o.state = domain.SessionState{Others: others, IsSwitching: o.state.IsSwitching}
	o.pendingIssueID = ""
	o.mu.Unlock()

	o.logger.Info("logged out")
	o.navigate(domain.Route{Kind: domain.RouteEnterServer})
}

// OnAccountSwitch is bound to push notifications. It switches to the stored account
// matching backendURL.
func (o *Orchestrator) OnAccountSwitch(ctx context.Context, backendURL, issueID string) error {
	target, ok := o.State().Others.FindByBackendURL(backendURL)
	if !ok {
		o.notify(fmt.Sprintf(accountNotFoundTemplate, backendURL))
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, backendURL)
	}
	return o.SwitchAccount(ctx, target, false, issueID)
}
