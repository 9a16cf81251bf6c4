package domain

import (
	"slices"
	"strings"
)

type ServerConfig struct {
	BackendURL string
	Version    string
	Build      string
	HubURL     string
	ClientID   string
	Features   []string
}

func (c ServerConfig) HasFeature(name string) bool {
	return slices.Contains(c.Features, name)
}

// ResolvedHubURL is the Hub service root. Servers that do not announce one serve Hub
// next to the tracker under /hub.
func (c ServerConfig) ResolvedHubURL() string {
	if hub := NormalizeBackendURL(c.HubURL); hub != "" {
		return hub
	}
	return strings.TrimSuffix(NormalizeBackendURL(c.BackendURL), "/youtrack") + "/hub"
}

type Project struct {
	ID        string
	ShortName string
	Name      string
	Pinned    bool
}

// AccountRecord is the persisted state of one server connection. CreationTimestamp
// is its identity key and never changes once assigned.
type AccountRecord struct {
	Config            ServerConfig
	AuthParams        *AuthParams
	CurrentUser       *User
	Permissions       []PermissionCacheItem
	Projects          []Project
	CreationTimestamp int64
	DeviceRegistered  bool
	AppVersion        string
}

func (r AccountRecord) HasConfig() bool {
	return strings.TrimSpace(r.Config.BackendURL) != ""
}

func (r AccountRecord) IsZero() bool {
	return !r.HasConfig() && r.CreationTimestamp == 0 && r.AuthParams == nil
}

// Clone returns a deep copy so snapshots never alias live state.
func (r AccountRecord) Clone() AccountRecord {
	out := r
	out.Config.Features = slices.Clone(r.Config.Features)
	if r.AuthParams != nil {
		params := *r.AuthParams
		out.AuthParams = &params
	}
	if r.CurrentUser != nil {
		user := r.CurrentUser.Clone()
		out.CurrentUser = &user
	}
	out.Permissions = ClonePermissions(r.Permissions)
	out.Projects = slices.Clone(r.Projects)
	return out
}

// PartialRecord carries the subset of fields updated by a merge. Nil fields are left
// untouched.
type PartialRecord struct {
	Config            *ServerConfig
	AuthParams        *AuthParams
	CurrentUser       *User
	Permissions       *[]PermissionCacheItem
	Projects          *[]Project
	CreationTimestamp *int64
	DeviceRegistered  *bool
	AppVersion        *string
}

func (p PartialRecord) Apply(record AccountRecord) AccountRecord {
	if p.Config != nil {
		record.Config = *p.Config
		record.Config.Features = slices.Clone(p.Config.Features)
	}
	if p.AuthParams != nil {
		params := *p.AuthParams
		record.AuthParams = &params
	}
	if p.CurrentUser != nil {
		user := p.CurrentUser.Clone()
		record.CurrentUser = &user
	}
	if p.Permissions != nil {
		record.Permissions = ClonePermissions(*p.Permissions)
	}
	if p.Projects != nil {
		record.Projects = slices.Clone(*p.Projects)
	}
	if p.CreationTimestamp != nil {
		record.CreationTimestamp = *p.CreationTimestamp
	}
	if p.DeviceRegistered != nil {
		record.DeviceRegistered = *p.DeviceRegistered
	}
	if p.AppVersion != nil {
		record.AppVersion = *p.AppVersion
	}
	return record
}

func NormalizeBackendURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func SameBackend(a, b string) bool {
	left := NormalizeBackendURL(a)
	return left != "" && left == NormalizeBackendURL(b)
}
