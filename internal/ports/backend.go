package ports

import (
	"context"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
)

type ConfigLoader interface {
	LoadConfig(ctx context.Context, backendURL string) (domain.ServerConfig, error)
}

// LoginFlow obtains credentials for a server. It returns domain.ErrCanceled when the
// user backs out.
type LoginFlow interface {
	LogIn(ctx context.Context, config domain.ServerConfig) (domain.AuthParams, error)
	Refresh(ctx context.Context, config domain.ServerConfig, params domain.AuthParams) (domain.AuthParams, error)
}

type PermissionFetcher interface {
	FetchPermissions(ctx context.Context, tokenType, accessToken, permissionsURL string) ([]domain.PermissionCacheItem, error)
}

// BackendAPI is the slice of the tracker API the session controller depends on.
// FetchAgreement returns nil when the server does not support user agreements.
type BackendAPI interface {
	FetchCurrentUser(ctx context.Context, api domain.APIHandle) (domain.User, error)
	FetchAgreement(ctx context.Context, api domain.APIHandle) (*domain.Agreement, error)
	AcceptAgreement(ctx context.Context, api domain.APIHandle) error
	FetchProjects(ctx context.Context, api domain.APIHandle) ([]domain.Project, error)
	FetchWorkTimeSettings(ctx context.Context, api domain.APIHandle) (domain.WorkTimeSettings, error)
	LogOut(ctx context.Context, api domain.APIHandle) error
}
