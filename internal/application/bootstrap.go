package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
)

// InitializeAuth binds a fresh AuthSession to config, restores the cached credentials
// of the active record and refreshes the current user snapshot.
func (o *Orchestrator) InitializeAuth(ctx context.Context, config domain.ServerConfig) error {
	o.beginAccountChange()
	defer o.endAccountChange()
	return o.initializeAuthLocked(ctx, config)
}

func (o *Orchestrator) initializeAuthLocked(ctx context.Context, config domain.ServerConfig) error {
	if domain.NormalizeBackendURL(config.BackendURL) == "" {
		return fmt.Errorf("%w: backend URL is empty", domain.ErrConfig)
	}

	auth := NewAuthSession(config, o.login, o.persistActive, o.clock)
	if err := auth.RestoreFromCache(ctx, o.State().Active); err != nil {
		return fmt.Errorf("check authorization: %w", err)
	}

	user, err := o.backend.FetchCurrentUser(ctx, auth.APIHandle())
	if err != nil {
		return fmt.Errorf("load current user: %w", err)
	}
	if err := auth.SetCurrentUser(ctx, user.WithDefaultProfiles()); err != nil {
		return err
	}

	o.mu.Lock()
	o.auth = auth
	o.state.IsAuthorized = auth.IsAuthorized()
	o.mu.Unlock()
	return nil
}

// activate runs the session bootstrap for record, which must already be the stored
// active account.
func (o *Orchestrator) activate(ctx context.Context, record domain.AccountRecord, issueID string) error {
	if err := o.initializeAuthLocked(ctx, record.Config); err != nil {
		return err
	}
	o.permissions.Replace(record.Permissions)

	gated, err := o.checkUserAgreement(ctx, issueID)
	if err != nil {
		return err
	}
	if gated {
		return nil
	}
	return o.completeInitializationLocked(ctx, issueID)
}

// checkUserAgreement reports whether the session is held until the user answers the
// agreement. A failed agreement fetch is returned as an error and never treated as
// "no agreement".
func (o *Orchestrator) checkUserAgreement(ctx context.Context, issueID string) (bool, error) {
	auth := o.currentAuth()
	if auth == nil {
		return false, domain.ErrNoAuthorization
	}
	if auth.CurrentUser().HasAcceptedAgreement() {
		return false, nil
	}

	agreement, err := o.backend.FetchAgreement(ctx, auth.APIHandle())
	if errors.Is(err, domain.ErrUnsupported) {
		return false, nil
	}
	if err != nil {
		o.notifyError(loadAgreementMessage, err)
		return false, fmt.Errorf("fetch user agreement: %w", err)
	}
	if agreement == nil || !agreement.Enabled {
		return false, nil
	}

	o.mu.Lock()
	o.state.AgreementPending = true
	o.state.Agreement = agreement
	o.pendingIssueID = issueID
	o.mu.Unlock()

	o.logger.Info("user agreement pending", slog.String("backend_url", auth.Config().BackendURL))
	o.navigate(domain.Route{Kind: domain.RouteAgreement, BackendURL: auth.Config().BackendURL, IssueID: issueID})
	return true, nil
}

// AcceptUserAgreement records the consent and resumes the held initialization. The
// resumed bootstrap holds the account change guard like any activation.
func (o *Orchestrator) AcceptUserAgreement(ctx context.Context) error {
	o.beginAccountChange()
	defer o.endAccountChange()

	issueID, err := o.pendingAgreement()
	if err != nil {
		return err
	}
	auth := o.currentAuth()

	if err := o.backend.AcceptAgreement(ctx, auth.APIHandle()); err != nil {
		o.notifyError(acceptAgreementMessage, err)
		return fmt.Errorf("accept user agreement: %w", err)
	}

	o.clearPendingAgreement()
	if user := auth.CurrentUser(); user != nil {
		consent := domain.AgreementConsent{Accepted: true}
		o.mu.RLock()
		if agreement := o.state.Agreement; agreement != nil {
			consent.MajorVersion = agreement.MajorVersion
			consent.MinorVersion = agreement.MinorVersion
		}
		o.mu.RUnlock()
		user.AgreementConsent = &consent
		if err := auth.SetCurrentUser(ctx, *user); err != nil {
			o.logger.Warn("cache agreement consent failed", slog.Any("error", err))
		}
	}

	return o.completeInitializationLocked(ctx, issueID)
}

// DeclineUserAgreement abandons the active account.
func (o *Orchestrator) DeclineUserAgreement(ctx context.Context) error {
	o.beginAccountChange()
	defer o.endAccountChange()

	if _, err := o.pendingAgreement(); err != nil {
		return err
	}
	o.clearPendingAgreement()
	return o.removeAccountOrLogOutLocked(ctx)
}

func (o *Orchestrator) pendingAgreement() (string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.state.AgreementPending || o.auth == nil {
		return "", ErrNoPendingAgreement
	}
	return o.pendingIssueID, nil
}

func (o *Orchestrator) clearPendingAgreement() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.AgreementPending = false
	o.pendingIssueID = ""
}

// CompleteInitialization loads the user, permissions and project index in order, then
// navigates. Work time settings and push registration start after navigation and are
// not waited for.
func (o *Orchestrator) CompleteInitialization(ctx context.Context, issueID string) error {
	o.beginAccountChange()
	defer o.endAccountChange()
	return o.completeInitializationLocked(ctx, issueID)
}

func (o *Orchestrator) completeInitializationLocked(ctx context.Context, issueID string) error {
	auth := o.currentAuth()
	if auth == nil {
		return domain.ErrNoAuthorization
	}

	o.loadUser(ctx, auth)
	o.loadUserPermissionsLocked(ctx)
	o.refreshProjectIndex(ctx, auth)
	if err := ctx.Err(); err != nil {
		return err
	}

	o.navigate(domain.Route{Kind: domain.RouteHome, BackendURL: auth.Config().BackendURL, IssueID: issueID})

	o.runBackground(ctx, func(ctx context.Context) {
		o.loadWorkTimeSettings(ctx, auth)
	})
	if o.push != nil {
		o.runBackground(ctx, func(ctx context.Context) {
			o.subscribeToPush(ctx, auth)
		})
	}
	return nil
}

// subscribeToPush registers the device for the account auth belongs to. It holds the
// account change guard so the registration flag always lands on that account.
func (o *Orchestrator) subscribeToPush(ctx context.Context, auth *AuthSession) {
	o.switchMu.Lock()
	defer o.switchMu.Unlock()

	if o.currentAuth() != auth {
		o.logger.Debug("active account changed, skipping push subscription", slog.String("backend_url", auth.Config().BackendURL))
		return
	}
	if err := o.push.Register(ctx, auth.APIHandle(), o.OnAccountSwitch); err != nil {
		o.logger.Warn("push subscription failed", slog.Any("error", err))
	}
}

// LoadUserPermissions refreshes the permission snapshot. It never fails; a failed
// fetch leaves an empty snapshot.
func (o *Orchestrator) LoadUserPermissions(ctx context.Context) {
	o.beginAccountChange()
	defer o.endAccountChange()
	o.loadUserPermissionsLocked(ctx)
}

func (o *Orchestrator) loadUserPermissionsLocked(ctx context.Context) {
	auth := o.currentAuth()
	if auth == nil {
		o.permissions.Replace(nil)
		return
	}
	params, ok := auth.AuthParams()
	if !ok {
		o.permissions.Replace(nil)
		return
	}

	items, loaded := o.permissions.Load(ctx, params.TokenType, params.AccessToken, auth.PermissionsURL())
	if loaded {
		o.permissions.Persist(ctx, items)
	}
}

func (o *Orchestrator) loadUser(ctx context.Context, auth *AuthSession) {
	user, err := o.backend.FetchCurrentUser(ctx, auth.APIHandle())
	if err != nil {
		o.logger.Warn("refresh current user failed, keeping cached profile", slog.Any("error", err))
		return
	}
	if err := auth.SetCurrentUser(ctx, user.WithDefaultProfiles()); err != nil {
		o.logger.Warn("cache current user failed", slog.Any("error", err))
	}
}

func (o *Orchestrator) refreshProjectIndex(ctx context.Context, auth *AuthSession) {
	projects, err := o.backend.FetchProjects(ctx, auth.APIHandle())
	if err != nil {
		o.logger.Warn("refresh project index failed", slog.Any("error", err))
		return
	}

	index := make([]domain.Project, 0, len(projects))
	for _, project := range projects {
		if strings.TrimSpace(project.ShortName) == "" {
			continue
		}
		index = append(index, project)
	}
	if err := o.persistActive(ctx, domain.PartialRecord{Projects: &index}); err != nil {
		o.logger.Warn("cache project index failed", slog.Any("error", err))
	}
}

func (o *Orchestrator) loadWorkTimeSettings(ctx context.Context, auth *AuthSession) {
	settings, err := o.backend.FetchWorkTimeSettings(ctx, auth.APIHandle())
	if err != nil {
		o.logger.Warn("load work time settings failed", slog.Any("error", err))
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.auth == auth {
		o.state.WorkTimeSettings = &settings
	}
}

// Start bootstraps the stored active account at process start. A client upgrade
// reloads the server config first; an authorization failure reloads the config and
// retries once before sending the user to log in again.
func (o *Orchestrator) Start(ctx context.Context, issueID string) error {
	o.beginAccountChange()
	defer o.endAccountChange()

	if err := o.Load(ctx); err != nil {
		return err
	}

	active := o.State().Active
	if !active.HasConfig() {
		o.navigate(domain.Route{Kind: domain.RouteEnterServer})
		return nil
	}

	if active.AppVersion != o.appVersion {
		o.logger.Info("client version changed, reloading server config",
			slog.String("from", active.AppVersion),
			slog.String("to", o.appVersion),
		)
		if _, err := o.refreshConfig(ctx, active.Config.BackendURL); err != nil {
			o.navigate(domain.Route{Kind: domain.RouteHome, BackendURL: active.Config.BackendURL, Err: err})
			return err
		}
		active = o.State().Active
	}

	if active.AuthParams == nil {
		o.navigate(domain.Route{Kind: domain.RouteLogIn, BackendURL: active.Config.BackendURL})
		return nil
	}

	if err := o.initializeAuthLocked(ctx, active.Config); err != nil {
		o.logger.Warn("initialize authorization failed, reloading server config", slog.Any("error", err))
		config, cfgErr := o.refreshConfig(ctx, active.Config.BackendURL)
		if cfgErr != nil {
			o.navigate(domain.Route{Kind: domain.RouteHome, BackendURL: active.Config.BackendURL, Err: cfgErr})
			return errors.Join(err, cfgErr)
		}
		if err := o.initializeAuthLocked(ctx, config); err != nil {
			o.navigate(domain.Route{Kind: domain.RouteLogIn, BackendURL: config.BackendURL, Err: err})
			return err
		}
		active = o.State().Active
	}

	o.permissions.Replace(active.Permissions)
	gated, err := o.checkUserAgreement(ctx, issueID)
	if err != nil {
		o.navigate(domain.Route{Kind: domain.RouteHome, BackendURL: active.Config.BackendURL, Err: err})
		return err
	}
	if gated {
		return nil
	}
	return o.completeInitializationLocked(ctx, issueID)
}

// OpenFromNotification starts the session for a notification. When backendURL names
// another stored account the session switches to it first.
func (o *Orchestrator) OpenFromNotification(ctx context.Context, backendURL, issueID string) error {
	if err := o.Load(ctx); err != nil {
		return err
	}

	state := o.State()
	if backendURL == "" || !state.Active.HasConfig() || domain.SameBackend(state.Active.Config.BackendURL, backendURL) {
		return o.Start(ctx, issueID)
	}

	target, ok := state.Others.FindByBackendURL(backendURL)
	if !ok {
		o.logger.Warn("no stored account for notification", slog.String("backend_url", backendURL))
		return o.Start(ctx, issueID)
	}
	return o.SwitchAccount(ctx, target, false, issueID)
}

// ConnectToServer stores the config of serverURL in an empty session and asks the
// user to log in.
func (o *Orchestrator) ConnectToServer(ctx context.Context, serverURL string) error {
	o.beginAccountChange()
	defer o.endAccountChange()

	if err := o.Load(ctx); err != nil {
		return err
	}
	if o.State().Active.HasConfig() {
		return fmt.Errorf("%w: a server is already connected, add an account instead", domain.ErrConfig)
	}

	config, err := o.refreshConfig(ctx, serverURL)
	if errors.Is(err, domain.ErrCanceled) {
		o.navigate(domain.Route{Kind: domain.RouteEnterServer})
		return nil
	}
	if err != nil {
		o.notifyError(addAccountMessage, err)
		o.navigate(domain.Route{Kind: domain.RouteEnterServer, Err: err})
		return err
	}

	o.navigate(domain.Route{Kind: domain.RouteLogIn, BackendURL: config.BackendURL})
	return nil
}

// ApplyAuthorization completes the first login of the stored active account.
func (o *Orchestrator) ApplyAuthorization(ctx context.Context, params domain.AuthParams) error {
	o.beginAccountChange()
	defer o.endAccountChange()

	if err := o.Load(ctx); err != nil {
		return err
	}
	state := o.State()
	if !state.Active.HasConfig() {
		return fmt.Errorf("%w: no server connected", domain.ErrConfig)
	}

	auth := NewAuthSession(state.Active.Config, o.login, o.persistActive, o.clock)
	if err := auth.CacheAuthParams(ctx, params); err != nil {
		return err
	}
	if state.Active.CreationTimestamp == 0 {
		ts := o.nextCreationTimestamp(state.Active, state.Others)
		if err := o.persistActive(ctx, domain.PartialRecord{CreationTimestamp: &ts}); err != nil {
			return fmt.Errorf("assign account identity: %w", err)
		}
	}

	return o.activate(ctx, o.State().Active, "")
}

func (o *Orchestrator) refreshConfig(ctx context.Context, serverURL string) (domain.ServerConfig, error) {
	config, err := o.configs.LoadConfig(ctx, serverURL)
	if err != nil {
		return domain.ServerConfig{}, fmt.Errorf("load server config: %w", err)
	}
	version := o.appVersion
	if err := o.persistActive(ctx, domain.PartialRecord{Config: &config, AppVersion: &version}); err != nil {
		return domain.ServerConfig{}, fmt.Errorf("cache server config: %w", err)
	}
	return config, nil
}
