package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type callerKey struct{}

func withCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type storeOp struct {
	op     string
	caller string
}

type memoryStore struct {
	mu     sync.Mutex
	active domain.AccountRecord
	others domain.AccountList
	log    []storeOp
	delay  time.Duration

	mergeErrs         []error
	writeStateErrs    []error
	writeAccountsErrs []error
}

func (s *memoryStore) record(ctx context.Context, op string) {
	caller, _ := ctx.Value(callerKey{}).(string)
	s.log = append(s.log, storeOp{op: op, caller: caller})
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}

func popErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (s *memoryStore) ReadState(ctx context.Context) (domain.AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "read_state")
	return s.active.Clone(), nil
}

func (s *memoryStore) WriteState(ctx context.Context, record domain.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "write_state")
	if err := popErr(&s.writeStateErrs); err != nil {
		return err
	}
	s.active = record.Clone()
	return nil
}

func (s *memoryStore) ReadOtherAccounts(ctx context.Context) (domain.AccountList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "read_others")
	if s.others == nil {
		return domain.AccountList{}, nil
	}
	return s.others.Clone(), nil
}

func (s *memoryStore) WriteOtherAccounts(ctx context.Context, accounts domain.AccountList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "write_others")
	s.others = accounts.Clone()
	return nil
}

func (s *memoryStore) WriteAccounts(ctx context.Context, active domain.AccountRecord, others domain.AccountList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "write_accounts")
	if err := popErr(&s.writeAccountsErrs); err != nil {
		return err
	}
	if err := domain.ValidateUnique(active, others); err != nil {
		return err
	}
	s.active = active.Clone()
	s.others = others.Clone()
	return nil
}

func (s *memoryStore) MergePartial(ctx context.Context, fields domain.PartialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ctx, "merge")
	if err := popErr(&s.mergeErrs); err != nil {
		return err
	}
	s.active = fields.Apply(s.active)
	return nil
}

func (s *memoryStore) snapshot() (domain.AccountRecord, domain.AccountList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	others := s.others.Clone()
	if others == nil {
		others = domain.AccountList{}
	}
	return s.active.Clone(), others
}

type fakeConfigLoader struct {
	mu       sync.Mutex
	canceled bool
	errs     map[string]error
	calls    int
}

func (f *fakeConfigLoader) LoadConfig(_ context.Context, backendURL string) (domain.ServerConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.canceled {
		return domain.ServerConfig{}, domain.ErrCanceled
	}
	if err := f.errs[domain.NormalizeBackendURL(backendURL)]; err != nil {
		return domain.ServerConfig{}, err
	}
	return domain.ServerConfig{BackendURL: backendURL, Version: "2026.2"}, nil
}

type fakeLogin struct {
	mu       sync.Mutex
	params   domain.AuthParams
	err      error
	canceled bool
	calls    []string
}

func (f *fakeLogin) LogIn(_ context.Context, config domain.ServerConfig) (domain.AuthParams, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, config.BackendURL)
	if f.canceled {
		return domain.AuthParams{}, domain.ErrCanceled
	}
	if f.err != nil {
		return domain.AuthParams{}, f.err
	}
	return f.params, nil
}

func (f *fakeLogin) Refresh(_ context.Context, _ domain.ServerConfig, params domain.AuthParams) (domain.AuthParams, error) {
	params.AccessToken = params.AccessToken + "-refreshed"
	params.ExpiresAt = time.Time{}
	return params, nil
}

type fakeBackend struct {
	mu sync.Mutex

	userErrs      map[string]error
	agreement     *domain.Agreement
	agreementErr  error
	acceptErr     error
	accepted      int
	projects      []domain.Project
	workTimeGate  chan struct{}
	logoutErr     error
	logouts       int
	userFetches   int
	projectErr    error
	workTimeCalls int
}

func (f *fakeBackend) FetchCurrentUser(_ context.Context, api domain.APIHandle) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userFetches++
	if err := f.userErrs[api.BackendURL]; err != nil {
		return domain.User{}, err
	}
	user := domain.User{ID: "1-1", Login: "john", Name: "John Doe"}
	if f.accepted > 0 {
		user.AgreementConsent = &domain.AgreementConsent{Accepted: true}
	}
	return user, nil
}

func (f *fakeBackend) FetchAgreement(context.Context, domain.APIHandle) (*domain.Agreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.agreementErr != nil {
		return nil, f.agreementErr
	}
	if f.agreement == nil {
		return nil, nil
	}
	agreement := *f.agreement
	return &agreement, nil
}

func (f *fakeBackend) AcceptAgreement(context.Context, domain.APIHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acceptErr != nil {
		return f.acceptErr
	}
	f.accepted++
	return nil
}

func (f *fakeBackend) FetchProjects(context.Context, domain.APIHandle) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	return append([]domain.Project(nil), f.projects...), nil
}

func (f *fakeBackend) FetchWorkTimeSettings(ctx context.Context, _ domain.APIHandle) (domain.WorkTimeSettings, error) {
	f.mu.Lock()
	gate := f.workTimeGate
	f.workTimeCalls++
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.WorkTimeSettings{}, ctx.Err()
		}
	}
	return domain.WorkTimeSettings{MinutesADay: 480, WorkDays: []int{1, 2, 3, 4, 5}, DaysAWeek: 5}, nil
}

func (f *fakeBackend) LogOut(context.Context, domain.APIHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return f.logoutErr
}

type fakePermissionFetcher struct {
	mu    sync.Mutex
	items []domain.PermissionCacheItem
	err   error
	calls int

	// perToken grants a single permission named after the access token.
	perToken bool
	// A fetch with holdToken signals entered and waits for release.
	holdToken string
	entered   chan struct{}
	release   chan struct{}
}

func (f *fakePermissionFetcher) FetchPermissions(_ context.Context, _ string, accessToken string, _ string) ([]domain.PermissionCacheItem, error) {
	f.mu.Lock()
	f.calls++
	hold := f.holdToken != "" && accessToken == f.holdToken
	entered, release := f.entered, f.release
	items, err := domain.ClonePermissions(f.items), f.err
	if f.perToken {
		items = []domain.PermissionCacheItem{domain.GlobalPermission(tokenPermission(accessToken))}
	}
	f.mu.Unlock()

	if hold {
		close(entered)
		<-release
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func tokenPermission(accessToken string) string {
	return "perm-of-" + accessToken
}

type fakePushTransport struct {
	mu            sync.Mutex
	registers     int
	unregisters   int
	initializes   int
	registerErr   error
	unregisterErr error
	handler       ports.AccountSwitchHandler
}

func (f *fakePushTransport) Register(context.Context, domain.APIHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers++
	return f.registerErr
}

func (f *fakePushTransport) Unregister(context.Context, domain.APIHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregisters++
	return f.unregisterErr
}

func (f *fakePushTransport) Initialize(_ context.Context, _ domain.APIHandle, onSwitch ports.AccountSwitchHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initializes++
	f.handler = onSwitch
	return nil
}

func (f *fakePushTransport) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registers, f.unregisters
}

func (f *fakePushTransport) boundHandler() ports.AccountSwitchHandler {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handler
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	errors   []string
}

func (n *recordingNotifier) Notify(message string, _ time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) NotifyError(message string, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) snapshot() ([]string, []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...), append([]string(nil), n.errors...)
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []domain.Route
}

func (n *recordingNavigator) Navigate(route domain.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) kinds() []domain.RouteKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]domain.RouteKind, 0, len(n.routes))
	for _, route := range n.routes {
		kinds = append(kinds, route.Kind)
	}
	return kinds
}

func (n *recordingNavigator) last() domain.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return domain.Route{}
	}
	return n.routes[len(n.routes)-1]
}

type harness struct {
	store        *memoryStore
	configs      *fakeConfigLoader
	login        *fakeLogin
	backend      *fakeBackend
	permissions  *fakePermissionFetcher
	push         *fakePushTransport
	notifier     *recordingNotifier
	navigator    *recordingNavigator
	orchestrator *Orchestrator
}

type harnessOption func(*Dependencies)

func withoutPush() harnessOption {
	return func(deps *Dependencies) {
		deps.Push = nil
	}
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	h := &harness{
		store:       &memoryStore{},
		configs:     &fakeConfigLoader{},
		login:       &fakeLogin{params: domain.AuthParams{TokenType: "bearer", AccessToken: "t1"}},
		backend:     &fakeBackend{},
		permissions: &fakePermissionFetcher{items: []domain.PermissionCacheItem{domain.GlobalPermission(domain.PermissionReadIssue)}},
		push:        &fakePushTransport{},
		notifier:    &recordingNotifier{},
		navigator:   &recordingNavigator{},
	}

	deps := Dependencies{
		Store:       h.store,
		Configs:     h.configs,
		Login:       h.login,
		Backend:     h.backend,
		Permissions: h.permissions,
		Push:        h.push,
		Notifier:    h.notifier,
		Navigator:   h.navigator,
		Clock:       fixedClock{now: testNow},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		AppVersion:  "1.0.0",
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.orchestrator = NewOrchestrator(deps)
	t.Cleanup(h.orchestrator.Wait)
	return h
}

func (h *harness) seed(t *testing.T, active domain.AccountRecord, others ...domain.AccountRecord) {
	t.Helper()
	h.store.active = active.Clone()
	h.store.others = domain.AccountList(others).Clone()
	require.NoError(t, h.orchestrator.Load(context.Background()))
}

func account(ts int64, backendURL string) domain.AccountRecord {
	return domain.AccountRecord{
		Config:            domain.ServerConfig{BackendURL: backendURL},
		AuthParams:        &domain.AuthParams{TokenType: "Bearer", AccessToken: "token-" + backendURL},
		CreationTimestamp: ts,
		AppVersion:        "1.0.0",
	}
}

func timestamps(list domain.AccountList) []int64 {
	out := make([]int64, 0, len(list))
	for _, record := range list {
		out = append(out, record.CreationTimestamp)
	}
	return out
}

var errBoom = errors.New("boom")
