package application

import (
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
)

type AccountSummary struct {
	CreationTimestamp int64
	BackendURL        string
	ServerVersion     string
	UserLogin         string
	UserName          string
	Authorized        bool
	IssuedAt          time.Time
	ExpiresAt         time.Time
	DeviceRegistered  bool
	Active            bool
}

type Status struct {
	Active           *AccountSummary
	Others           []AccountSummary
	IsAuthorized     bool
	AgreementPending bool
	Permissions      int
	Projects         int
	WorkTimeSettings *domain.WorkTimeSettings
}

// Status summarizes the session for display. It never exposes token material.
func (o *Orchestrator) Status() Status {
	state := o.State()
	now := o.clock.Now()

	status := Status{
		IsAuthorized:     state.IsAuthorized,
		AgreementPending: state.AgreementPending,
		Permissions:      len(o.permissions.Items()),
		Projects:         len(state.Active.Projects),
		WorkTimeSettings: state.WorkTimeSettings,
		Others:           make([]AccountSummary, 0, len(state.Others)),
	}
	if state.Active.HasConfig() {
		summary := summarize(state.Active, now)
		summary.Active = true
		status.Active = &summary
	}
	for _, record := range state.Others {
		status.Others = append(status.Others, summarize(record, now))
	}
	return status
}

func summarize(record domain.AccountRecord, now time.Time) AccountSummary {
	summary := AccountSummary{
		CreationTimestamp: record.CreationTimestamp,
		BackendURL:        record.Config.BackendURL,
		ServerVersion:     record.Config.Version,
		DeviceRegistered:  record.DeviceRegistered,
	}
	if record.AuthParams != nil {
		summary.Authorized = record.AuthParams.Valid() && !record.AuthParams.Expired(now)
		summary.IssuedAt = record.AuthParams.IssuedAt
		summary.ExpiresAt = record.AuthParams.ExpiresAt
	}
	if record.CurrentUser != nil {
		summary.UserLogin = record.CurrentUser.Login
		summary.UserName = record.CurrentUser.Name
	}
	return summary
}
