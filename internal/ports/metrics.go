package ports

type SwitchOutcome string

const (
	SwitchCompleted  SwitchOutcome = "completed"
	SwitchRolledBack SwitchOutcome = "rolled_back"
	SwitchFailed     SwitchOutcome = "failed"
)

type SessionMetrics interface {
	AccountSwitched(outcome SwitchOutcome)
	AccountAdded(success bool)
	PermissionsLoaded(success bool, count int)
	PushRegistration(result string)
}

type NopMetrics struct{}

func (NopMetrics) AccountSwitched(SwitchOutcome) {}
func (NopMetrics) AccountAdded(bool)            {}
func (NopMetrics) PermissionsLoaded(bool, int)  {}
func (NopMetrics) PushRegistration(string)      {}
