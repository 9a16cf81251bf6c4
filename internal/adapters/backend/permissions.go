package backend

import (
	"context"
	"fmt"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

type permissionCacheResponse struct {
	Permission struct {
		Key string `json:"key"`
	} `json:"permission"`
	Global   bool `json:"global"`
	Projects []struct {
		ID string `json:"id"`
	} `json:"projects"`
}

var _ ports.PermissionFetcher = (*Client)(nil)

// FetchPermissions reads the Hub permission cache and flattens it into one item per
// global grant or per project grant.
func (c *Client) FetchPermissions(ctx context.Context, tokenType, accessToken, permissionsURL string) ([]domain.PermissionCacheItem, error) {
	params := domain.AuthParams{TokenType: tokenType, AccessToken: accessToken}
	headers := map[string]string{"Authorization": params.AuthorizationValue()}

	var payload []permissionCacheResponse
	if err := c.getJSON(ctx, permissionsURL, headers, &payload); err != nil {
		return nil, fmt.Errorf("fetch permissions: %w", err)
	}

	items := make([]domain.PermissionCacheItem, 0, len(payload))
	for _, entry := range payload {
		key := entry.Permission.Key
		if key == "" {
			continue
		}
		if entry.Global {
			items = append(items, domain.GlobalPermission(key))
			continue
		}
		for _, project := range entry.Projects {
			if project.ID != "" {
				items = append(items, domain.ProjectPermission(key, project.ID))
			}
		}
	}
	return items, nil
}
