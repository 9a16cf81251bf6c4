package application

import (
	"context"
	"sync"
	"testing"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoryFlag struct {
	mu         sync.Mutex
	registered bool
	err        error
}

func (f *memoryFlag) IsRegistered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered
}

func (f *memoryFlag) SetRegistered(_ context.Context, registered bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = registered
	return f.err
}

var pushAPI = domain.APIHandle{BackendURL: "https://a.example"}

func noSwitch(context.Context, string, string) error { return nil }

func TestPushRegistrarRegisterTwiceRegistersOnce(t *testing.T) {
	transport := mocks.NewMockPushTransport(t)
	flag := &memoryFlag{}
	registrar := NewPushRegistrar(transport, flag, nil, nil, nil)

	transport.EXPECT().Register(mockAnyContext(), pushAPI).Return(nil).Once()
	transport.EXPECT().Initialize(mockAnyContext(), pushAPI, mock.Anything).Return(nil).Twice()

	require.NoError(t, registrar.Register(context.Background(), pushAPI, noSwitch))
	require.NoError(t, registrar.Register(context.Background(), pushAPI, noSwitch))

	assert.True(t, registrar.IsRegistered())
	assert.Equal(t, PushRegistered, registrar.State())
}

func TestPushRegistrarUnsupportedIsSilent(t *testing.T) {
	transport := mocks.NewMockPushTransport(t)
	notifier := mocks.NewMockNotifier(t)
	registrar := NewPushRegistrar(transport, &memoryFlag{}, notifier, nil, nil)

	transport.EXPECT().Register(mockAnyContext(), pushAPI).Return(domain.ErrUnsupported)

	require.NoError(t, registrar.Register(context.Background(), pushAPI, noSwitch))
	assert.False(t, registrar.IsRegistered())
	assert.Equal(t, PushUnregistered, registrar.State())
}

func TestPushRegistrarFailureIsReportedAndNonFatal(t *testing.T) {
	transport := mocks.NewMockPushTransport(t)
	notifier := mocks.NewMockNotifier(t)
	registrar := NewPushRegistrar(transport, &memoryFlag{}, notifier, nil, nil)

	transport.EXPECT().Register(mockAnyContext(), pushAPI).Return(errBoom)
	notifier.EXPECT().Notify(pushFailedMessage, defaultNotifyDuration).Return()

	err := registrar.Register(context.Background(), pushAPI, noSwitch)
	require.ErrorIs(t, err, domain.ErrRegistration)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, registrar.IsRegistered())
}

func TestPushRegistrarBindFailureKeepsServerRegistration(t *testing.T) {
	transport := mocks.NewMockPushTransport(t)
	flag := &memoryFlag{}
	registrar := NewPushRegistrar(transport, flag, nil, nil, nil)

	transport.EXPECT().Register(mockAnyContext(), pushAPI).Return(nil).Once()
	transport.EXPECT().Initialize(mockAnyContext(), pushAPI, mock.Anything).Return(errBoom).Twice()

	err := registrar.Register(context.Background(), pushAPI, noSwitch)
	require.ErrorIs(t, err, domain.ErrRegistration)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, flag.IsRegistered())
	assert.Equal(t, PushRegistered, registrar.State())

	err = registrar.Register(context.Background(), pushAPI, noSwitch)
	require.ErrorIs(t, err, domain.ErrRegistration)
	assert.ErrorIs(t, err, errBoom)
}

func TestPushRegistrarUnregister(t *testing.T) {
	t.Run("not registered is a no-op", func(t *testing.T) {
		transport := mocks.NewMockPushTransport(t)
		registrar := NewPushRegistrar(transport, &memoryFlag{}, nil, nil, nil)

		require.NoError(t, registrar.Unregister(context.Background(), pushAPI))
	})

	t.Run("clears flag even when transport fails", func(t *testing.T) {
		transport := mocks.NewMockPushTransport(t)
		flag := &memoryFlag{registered: true}
		registrar := NewPushRegistrar(transport, flag, nil, nil, nil)
		require.Equal(t, PushRegistered, registrar.State())

		transport.EXPECT().Unregister(mockAnyContext(), pushAPI).Return(errBoom)

		err := registrar.Unregister(context.Background(), pushAPI)
		assert.ErrorIs(t, err, domain.ErrRegistration)
		assert.False(t, registrar.IsRegistered())
		assert.Equal(t, PushUnregistered, registrar.State())
	})
}

func TestPushRegistrarDeliverRoutesOtherBackends(t *testing.T) {
	transport := mocks.NewMockPushTransport(t)
	registrar := NewPushRegistrar(transport, &memoryFlag{registered: true}, nil, nil, nil)

	var switched []string
	handler := func(_ context.Context, backendURL, issueID string) error {
		switched = append(switched, backendURL+"#"+issueID)
		return nil
	}
	transport.EXPECT().Initialize(mockAnyContext(), pushAPI, mock.Anything).Return(nil)
	require.NoError(t, registrar.Rebind(context.Background(), pushAPI, handler))

	require.NoError(t, registrar.Deliver(context.Background(), domain.PushPayload{BackendURL: "https://a.example/", IssueID: "1-1"}))
	require.NoError(t, registrar.Deliver(context.Background(), domain.PushPayload{IssueID: "1-2"}))
	require.NoError(t, registrar.Deliver(context.Background(), domain.PushPayload{BackendURL: "https://b.example", IssueID: "1-3"}))

	assert.Equal(t, []string{"https://b.example#1-3"}, switched)
}
