package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

const (
	defaultNotifyDuration = 3 * time.Second

	noAuthorizationMessage  = "Account doesn't have valid authorization, cannot switch onto it."
	changeAccountMessage    = "Failed to change account."
	addAccountMessage       = "Failed to add an account."
	acceptAgreementMessage  = "Failed to accept the user agreement."
	loadAgreementMessage    = "Failed to load the user agreement."
	accountNotFoundTemplate = "No account found for %s."
)

var ErrNoPendingAgreement = errors.New("no pending user agreement")

// BackFunc resumes the caller after the user cancelled adding an account. serverURL
// is empty when the cancellation happened before a server was picked.
type BackFunc func(serverURL string)

type Dependencies struct {
	Store       ports.AccountStore
	Configs     ports.ConfigLoader
	Login       ports.LoginFlow
	Backend     ports.BackendAPI
	Permissions ports.PermissionFetcher
	// Push is optional; a nil transport disables push registration.
	Push       ports.PushTransport
	Notifier   ports.Notifier
	Navigator  ports.Navigator
	Metrics    ports.SessionMetrics
	Clock      ports.Clock
	Logger     *slog.Logger
	AppVersion string
}

// Orchestrator owns the session state and is the only writer of the account store.
// Account changes are serialized by switchMu.
type Orchestrator struct {
	store      ports.AccountStore
	configs    ports.ConfigLoader
	login      ports.LoginFlow
	backend    ports.BackendAPI
	notifier   ports.Notifier
	navigator  ports.Navigator
	metrics    ports.SessionMetrics
	clock      ports.Clock
	logger     *slog.Logger
	appVersion string

	permissions *PermissionSnapshot
	push        *PushRegistrar

	switchMu sync.Mutex

	mu             sync.RWMutex
	state          domain.SessionState
	auth           *AuthSession
	pendingIssueID string

	background sync.WaitGroup
}

func NewOrchestrator(deps Dependencies) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Metrics == nil {
		deps.Metrics = ports.NopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	o := &Orchestrator{
		store:      deps.Store,
		configs:    deps.Configs,
		login:      deps.Login,
		backend:    deps.Backend,
		notifier:   deps.Notifier,
		navigator:  deps.Navigator,
		metrics:    deps.Metrics,
		clock:      deps.Clock,
		logger:     deps.Logger,
		appVersion: deps.AppVersion,
	}
	o.permissions = NewPermissionSnapshot(deps.Permissions, deps.Notifier, o.persistActive, deps.Metrics, deps.Logger)
	if deps.Push != nil {
		o.push = NewPushRegistrar(deps.Push, activeRegistrationFlag{o: o}, deps.Notifier, deps.Metrics, deps.Logger)
	}
	return o
}

// Load replaces the in-memory state with the persisted one.
func (o *Orchestrator) Load(ctx context.Context) error {
	active, err := o.store.ReadState(ctx)
	if err != nil {
		return fmt.Errorf("read active account: %w", err)
	}
	others, err := o.store.ReadOtherAccounts(ctx)
	if err != nil {
		return fmt.Errorf("read other accounts: %w", err)
	}

	o.mu.Lock()
	o.state.Active = active
	o.state.Others = others
	o.mu.Unlock()

	o.permissions.Replace(active.Permissions)
	return nil
}

// State returns a copy of the session state.
func (o *Orchestrator) State() domain.SessionState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state.Clone()
}

func (o *Orchestrator) HasPermission(permission, scopeID string) bool {
	return o.permissions.Has(permission, scopeID)
}

func (o *Orchestrator) PushRegistrar() *PushRegistrar {
	return o.push
}

// Wait blocks until the background tasks started by CompleteInitialization are done.
func (o *Orchestrator) Wait() {
	o.background.Wait()
}

func (o *Orchestrator) beginAccountChange() {
	o.switchMu.Lock()
	o.mu.Lock()
	o.state.IsSwitching = true
	o.mu.Unlock()
}

func (o *Orchestrator) endAccountChange() {
	o.mu.Lock()
	o.state.IsSwitching = false
	o.mu.Unlock()
	o.switchMu.Unlock()
}

// persistActive merges fields into the stored active record and mirrors the change in
// memory once the write succeeded.
func (o *Orchestrator) persistActive(ctx context.Context, fields domain.PartialRecord) error {
	if err := o.store.MergePartial(ctx, fields); err != nil {
		return err
	}

	o.mu.Lock()
	o.state.Active = fields.Apply(o.state.Active)
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) setAccounts(active domain.AccountRecord, others domain.AccountList) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Active = active.Clone()
	o.state.Others = others.Clone()
	o.state.IsAuthorized = false
	o.state.AgreementPending = false
	o.state.Agreement = nil
	o.state.WorkTimeSettings = nil
}

func (o *Orchestrator) currentAuth() *AuthSession {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.auth
}

func (o *Orchestrator) releaseAuth() {
	o.mu.Lock()
	auth := o.auth
	o.auth = nil
	o.state.IsAuthorized = false
	o.mu.Unlock()

	if auth != nil {
		auth.LogOut()
	}
}

func (o *Orchestrator) navigate(route domain.Route) {
	if o.navigator != nil {
		o.navigator.Navigate(route)
	}
}

func (o *Orchestrator) notify(message string) {
	if o.notifier != nil {
		o.notifier.Notify(message, defaultNotifyDuration)
	}
}

func (o *Orchestrator) notifyError(message string, err error) {
	o.logger.Warn(message, slog.Any("error", err))
	if o.notifier != nil {
		o.notifier.NotifyError(message, err)
	}
}

// runBackground starts task detached from ctx cancellation. Failures are the task's
// own concern.
func (o *Orchestrator) runBackground(ctx context.Context, task func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	o.background.Add(1)
	go func() {
		defer o.background.Done()
		task(detached)
	}()
}

// nextCreationTimestamp returns a millisecond timestamp greater than every identity
// key already in use.
func (o *Orchestrator) nextCreationTimestamp(active domain.AccountRecord, others domain.AccountList) int64 {
	ts := o.clock.Now().UnixMilli()
	highest := others.MaxCreationTimestamp()
	if active.CreationTimestamp > highest {
		highest = active.CreationTimestamp
	}
	if ts <= highest {
		ts = highest + 1
	}
	return ts
}

type activeRegistrationFlag struct {
	o *Orchestrator
}

func (f activeRegistrationFlag) IsRegistered() bool {
	f.o.mu.RLock()
	defer f.o.mu.RUnlock()
	return f.o.state.Active.DeviceRegistered
}

func (f activeRegistrationFlag) SetRegistered(ctx context.Context, registered bool) error {
	return f.o.persistActive(ctx, domain.PartialRecord{DeviceRegistered: &registered})
}
