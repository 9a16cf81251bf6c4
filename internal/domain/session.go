package domain

type SessionState struct {
	Active           AccountRecord
	Others           AccountList
	IsSwitching      bool
	IsAuthorized     bool
	AgreementPending bool
	Agreement        *Agreement
	WorkTimeSettings *WorkTimeSettings
}

func DefaultAccountRecord() AccountRecord {
	return AccountRecord{}
}

func (s SessionState) Clone() SessionState {
	out := s
	out.Active = s.Active.Clone()
	out.Others = s.Others.Clone()
	if s.Agreement != nil {
		agreement := *s.Agreement
		out.Agreement = &agreement
	}
	if s.WorkTimeSettings != nil {
		settings := *s.WorkTimeSettings
		out.WorkTimeSettings = &settings
	}
	return out
}

type RouteKind string

const (
	RouteHome        RouteKind = "home"
	RouteEnterServer RouteKind = "enter_server"
	RouteLogIn       RouteKind = "log_in"
	RouteAgreement   RouteKind = "agreement"
)

// Route is handed to the navigator as-is.
type Route struct {
	Kind       RouteKind
	BackendURL string
	IssueID    string
	Message    string
	Err        error
}

type PushPayload struct {
	BackendURL string
	IssueID    string
}
