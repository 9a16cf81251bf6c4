package toml

import "fmt"

const currentSchemaVersion = 1

// fileSchema is the on-disk layout. Fields are only ever added; anything missing
// decodes to its zero value.
type fileSchema struct {
	Version int             `toml:"version"`
	Active  *accountSchema  `toml:"active,omitempty"`
	Others  []accountSchema `toml:"others,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	CreationTimestamp int64              `toml:"creation_timestamp"`
	AppVersion        string             `toml:"app_version,omitempty"`
	DeviceRegistered  bool               `toml:"device_registered"`
	Config            configSchema       `toml:"config"`
	Auth              *authSchema        `toml:"auth,omitempty"`
	User              *userSchema        `toml:"user,omitempty"`
	Permissions       []permissionSchema `toml:"permissions,omitempty"`
	Projects          []projectSchema    `toml:"projects,omitempty"`
}

type configSchema struct {
	BackendURL string   `toml:"backend_url"`
	Version    string   `toml:"version,omitempty"`
	Build      string   `toml:"build,omitempty"`
	HubURL     string   `toml:"hub_url,omitempty"`
	ClientID   string   `toml:"client_id,omitempty"`
	Features   []string `toml:"features,omitempty"`
}

// authSchema keeps token material inline only when no secret store is configured.
type authSchema struct {
	TokenType    string `toml:"token_type"`
	Scope        string `toml:"scope,omitempty"`
	IssuedAt     string `toml:"issued_at,omitempty"`
	ExpiresAt    string `toml:"expires_at,omitempty"`
	SecretRef    string `toml:"secret_ref,omitempty"`
	AccessToken  string `toml:"access_token,omitempty"`
	RefreshToken string `toml:"refresh_token,omitempty"`
}

// tokenSecret is the payload stored under authSchema.SecretRef.
type tokenSecret struct {
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token,omitempty"`
}

type userSchema struct {
	ID       string          `toml:"id"`
	Login    string          `toml:"login,omitempty"`
	Name     string          `toml:"name,omitempty"`
	Consent  *consentSchema  `toml:"consent,omitempty"`
	Profiles *profilesSchema `toml:"profiles,omitempty"`
}

type profilesSchema struct {
	SearchContext        string `toml:"search_context"`
	NaturalCommentsOrder bool   `toml:"natural_comments_order"`
}

type consentSchema struct {
	Accepted     bool `toml:"accepted"`
	MajorVersion int  `toml:"major_version,omitempty"`
	MinorVersion int  `toml:"minor_version,omitempty"`
}

type permissionSchema struct {
	Permission string  `toml:"permission"`
	ProjectID  *string `toml:"project_id,omitempty"`
}

type projectSchema struct {
	ID        string `toml:"id"`
	ShortName string `toml:"short_name"`
	Name      string `toml:"name,omitempty"`
	Pinned    bool   `toml:"pinned,omitempty"`
}
