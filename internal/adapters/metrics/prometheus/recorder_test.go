package prometheus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/tracker-accounts-cli/internal/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsSessionEvents(t *testing.T) {
	t.Parallel()

	recorder := NewRecorder()
	recorder.AccountSwitched(ports.SwitchCompleted)
	recorder.AccountSwitched(ports.SwitchCompleted)
	recorder.AccountSwitched(ports.SwitchRolledBack)
	recorder.AccountAdded(false)
	recorder.PermissionsLoaded(true, 12)
	recorder.PushRegistration("unsupported")

	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.switches.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.switches.WithLabelValues("rolled_back")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.accountsAdded.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.permissionLoads.WithLabelValues("true")))
	assert.Equal(t, 12.0, testutil.ToFloat64(recorder.permissionsCached))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.pushRegistrations.WithLabelValues("unsupported")))
}

func TestRecorderPermissionGaugeTracksLatestLoad(t *testing.T) {
	t.Parallel()

	recorder := NewRecorder()
	recorder.PermissionsLoaded(true, 5)
	recorder.PermissionsLoaded(false, 0)

	assert.Equal(t, 0.0, testutil.ToFloat64(recorder.permissionsCached))
	assert.Equal(t, 2, testutil.CollectAndCount(recorder.permissionLoads))
}

func TestRecorderWriteTextfile(t *testing.T) {
	t.Parallel()

	recorder := NewRecorder()
	recorder.AccountSwitched(ports.SwitchFailed)

	path := filepath.Join(t.TempDir(), "textfile", "tracker_accounts.prom")
	require.NoError(t, recorder.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tracker_accounts_account_switches_total{outcome="failed"} 1`)
}

func TestRecorderWriteTextfileWithoutPathIsNoop(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewRecorder().WriteTextfile(""))
}
