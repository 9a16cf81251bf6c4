package prometheus

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bnema/tracker-accounts-cli/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tracker_accounts"

// Recorder counts session events in a private registry. A CLI run is short lived, so
// the registry is exported to a node-exporter textfile instead of being scraped.
type Recorder struct {
	registry          *prometheus.Registry
	switches          *prometheus.CounterVec
	accountsAdded     *prometheus.CounterVec
	permissionLoads   *prometheus.CounterVec
	permissionsCached prometheus.Gauge
	pushRegistrations *prometheus.CounterVec
}

var _ ports.SessionMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		switches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_switches_total",
			Help:      "Account switches by outcome.",
		}, []string{"outcome"}),
		accountsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_added_total",
			Help:      "Add-account attempts by result.",
		}, []string{"success"}),
		permissionLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_loads_total",
			Help:      "Permission cache loads by result.",
		}, []string{"success"}),
		permissionsCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "permissions_cached",
			Help:      "Permission grants held for the active account.",
		}),
		pushRegistrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_registrations_total",
			Help:      "Push registration attempts by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(r.switches, r.accountsAdded, r.permissionLoads, r.permissionsCached, r.pushRegistrations)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) AccountSwitched(outcome ports.SwitchOutcome) {
	r.switches.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) AccountAdded(success bool) {
	r.accountsAdded.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (r *Recorder) PermissionsLoaded(success bool, count int) {
	r.permissionLoads.WithLabelValues(strconv.FormatBool(success)).Inc()
	r.permissionsCached.Set(float64(count))
}

func (r *Recorder) PushRegistration(result string) {
	r.pushRegistrations.WithLabelValues(result).Inc()
}

// WriteTextfile writes the registry in the text exposition format. The file is
// replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
