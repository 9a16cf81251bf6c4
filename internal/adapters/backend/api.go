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

const (
	currentUserPath = "/api/users/me?fields=id,login,name,profiles(general(searchContext(id)),appearance(naturalCommentsOrder))," +
		"endUserAgreementConsent(accepted,majorVersion,minorVersion)"
	projectsPath         = "/api/admin/projects?fields=id,shortName,name,pinned&$top=-1"
	workTimeSettingsPath = "/api/admin/timeTrackingSettings/workTimeSettings?fields=minutesADay,workDays,firstDayOfWeek,daysAWeek"
	agreementPath        = "/api/rest/settings/public?fields=endUserAgreement(enabled,text,majorVersion,minorVersion)"
	agreementConsentPath = "/api/rest/users/me/endUserAgreementConsent?fields=accepted"
	revokePath           = "/api/rest/oauth2/revoke"
)

var _ ports.BackendAPI = (*Client)(nil)

type userResponse struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Profiles *struct {
		General struct {
			SearchContext *struct {
				ID string `json:"id"`
			} `json:"searchContext"`
		} `json:"general"`
		Appearance struct {
			NaturalCommentsOrder bool `json:"naturalCommentsOrder"`
		} `json:"appearance"`
	} `json:"profiles"`
	Consent *agreementVersion `json:"endUserAgreementConsent"`
}

type agreementVersion struct {
	Accepted     bool `json:"accepted"`
	MajorVersion int  `json:"majorVersion"`
	MinorVersion int  `json:"minorVersion"`
}

type publicSettingsResponse struct {
	EndUserAgreement *struct {
		Enabled      bool   `json:"enabled"`
		Text         string `json:"text"`
		MajorVersion int    `json:"majorVersion"`
		MinorVersion int    `json:"minorVersion"`
	} `json:"endUserAgreement"`
}

type projectResponse struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
	Pinned    bool   `json:"pinned"`
}

type workTimeResponse struct {
	MinutesADay    int   `json:"minutesADay"`
	WorkDays       []int `json:"workDays"`
	FirstDayOfWeek int   `json:"firstDayOfWeek"`
	DaysAWeek      int   `json:"daysAWeek"`
}

func (c *Client) FetchCurrentUser(ctx context.Context, api domain.APIHandle) (domain.User, error) {
	var payload userResponse
	if err := c.getJSON(ctx, api.BackendURL+currentUserPath, api.Headers, &payload); err != nil {
		return domain.User{}, fmt.Errorf("fetch current user: %w", err)
	}

	user := domain.User{ID: payload.ID, Login: payload.Login, Name: payload.Name}
	if payload.Consent != nil {
		user.AgreementConsent = &domain.AgreementConsent{
			Accepted:     payload.Consent.Accepted,
			MajorVersion: payload.Consent.MajorVersion,
			MinorVersion: payload.Consent.MinorVersion,
		}
	}
	if payload.Profiles != nil {
		profiles := domain.UserProfiles{
			Appearance: domain.AppearanceProfile{NaturalCommentsOrder: payload.Profiles.Appearance.NaturalCommentsOrder},
		}
		if payload.Profiles.General.SearchContext != nil {
			profiles.General.SearchContext = payload.Profiles.General.SearchContext.ID
		}
		user.Profiles = &profiles
	}
	return user, nil
}

// FetchAgreement returns nil when the Hub has no agreement settings.
func (c *Client) FetchAgreement(ctx context.Context, api domain.APIHandle) (*domain.Agreement, error) {
	var payload publicSettingsResponse
	err := c.getJSON(ctx, api.HubURL+agreementPath, api.Headers, &payload)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user agreement: %w", err)
	}
	if payload.EndUserAgreement == nil {
		return nil, nil
	}

	return &domain.Agreement{
		Enabled:      payload.EndUserAgreement.Enabled,
		Text:         payload.EndUserAgreement.Text,
		MajorVersion: payload.EndUserAgreement.MajorVersion,
		MinorVersion: payload.EndUserAgreement.MinorVersion,
	}, nil
}

func (c *Client) AcceptAgreement(ctx context.Context, api domain.APIHandle) error {
	if err := c.postJSON(ctx, api.HubURL+agreementConsentPath, api.Headers, map[string]bool{"accepted": true}, nil); err != nil {
		return fmt.Errorf("accept user agreement: %w", err)
	}
	return nil
}

func (c *Client) FetchProjects(ctx context.Context, api domain.APIHandle) ([]domain.Project, error) {
	var payload []projectResponse
	if err := c.getJSON(ctx, api.BackendURL+projectsPath, api.Headers, &payload); err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(payload))
	for _, project := range payload {
		projects = append(projects, domain.Project{
			ID:        project.ID,
			ShortName: project.ShortName,
			Name:      project.Name,
			Pinned:    project.Pinned,
		})
	}
	return projects, nil
}

func (c *Client) FetchWorkTimeSettings(ctx context.Context, api domain.APIHandle) (domain.WorkTimeSettings, error) {
	var payload workTimeResponse
	if err := c.getJSON(ctx, api.BackendURL+workTimeSettingsPath, api.Headers, &payload); err != nil {
		return domain.WorkTimeSettings{}, fmt.Errorf("fetch work time settings: %w", err)
	}

	return domain.WorkTimeSettings{
		MinutesADay:    payload.MinutesADay,
		WorkDays:       payload.WorkDays,
		FirstDayOfWeek: payload.FirstDayOfWeek,
		DaysAWeek:      payload.DaysAWeek,
	}, nil
}

// LogOut revokes the access token at the Hub. Servers without a revocation endpoint
// are treated as already logged out.
func (c *Client) LogOut(ctx context.Context, api domain.APIHandle) error {
	token := bearerToken(api.Headers)
	if token == "" {
		return nil
	}

	form := url.Values{}
	form.Set("token", token)
	err := c.postJSON(ctx, api.HubURL+revokePath+"?"+form.Encode(), api.Headers, nil, nil)
	if errors.Is(err, errNotFound) || errors.Is(err, domain.ErrUnsupported) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func bearerToken(headers map[string]string) string {
	_, token, ok := strings.Cut(headers["Authorization"], " ")
	if !ok {
		return ""
	}
	return token
}
