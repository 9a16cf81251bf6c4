package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

const configPath = "/api/config?fields=version,build,features(id,enabled),ring(url),mobile(serviceId)"

type configResponse struct {
	Version  string `json:"version"`
	Build    string `json:"build"`
	Features []struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	} `json:"features"`
	Ring struct {
		URL string `json:"url"`
	} `json:"ring"`
	Mobile struct {
		ServiceID string `json:"serviceId"`
	} `json:"mobile"`
}

var _ ports.ConfigLoader = (*Client)(nil)

// LoadConfig fetches the public configuration of a server. A bare host is tried
// with https, and a server that does not answer at the root is retried under
// /youtrack, where standalone installations serve the API.
func (c *Client) LoadConfig(ctx context.Context, backendURL string) (domain.ServerConfig, error) {
	base, err := normalizeServerURL(backendURL)
	if err != nil {
		return domain.ServerConfig{}, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}

	var lastErr error
	for _, candidate := range configCandidates(base) {
		var payload configResponse
		err := c.getJSON(ctx, candidate+configPath, nil, &payload)
		if err == nil {
			return toServerConfig(candidate, payload), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.ServerConfig{}, ctxErr
		}
		lastErr = err
		if !errors.Is(err, errNotFound) {
			break
		}
	}

	return domain.ServerConfig{}, fmt.Errorf("%w: load config from %s: %w", domain.ErrConfig, base, lastErr)
}

func configCandidates(base string) []string {
	if strings.HasSuffix(base, "/youtrack") {
		return []string{base}
	}
	return []string{base, base + "/youtrack"}
}

func normalizeServerURL(raw string) (string, error) {
	trimmed := domain.NormalizeBackendURL(raw)
	if trimmed == "" {
		return "", errors.New("server url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("server url must use http or https: %s", raw)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("server url host is required: %s", raw)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return domain.NormalizeBackendURL(parsed.String()), nil
}

func toServerConfig(backendURL string, payload configResponse) domain.ServerConfig {
	config := domain.ServerConfig{
		BackendURL: backendURL,
		Version:    payload.Version,
		Build:      payload.Build,
		HubURL:     resolveHubURL(backendURL, payload.Ring.URL),
		ClientID:   payload.Mobile.ServiceID,
	}
	for _, feature := range payload.Features {
		if feature.Enabled && feature.ID != "" {
			config.Features = append(config.Features, feature.ID)
		}
	}
	return config
}

// resolveHubURL makes a relative ring url such as /hub absolute against the server.
func resolveHubURL(backendURL, ringURL string) string {
	ringURL = strings.TrimSpace(ringURL)
	if ringURL == "" {
		return ""
	}
	base, err := url.Parse(backendURL)
	if err != nil {
		return domain.NormalizeBackendURL(ringURL)
	}
	resolved, err := base.Parse(ringURL)
	if err != nil {
		return domain.NormalizeBackendURL(ringURL)
	}
	return domain.NormalizeBackendURL(resolved.String())
}
