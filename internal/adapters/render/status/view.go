package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/application"
	"github.com/charmbracelet/lipgloss"
)

const tokenBarWidth = 24

type RenderOptions struct {
	Now time.Time
}

func accountCount(status application.Status) int {
	count := len(status.Others)
	if status.Active != nil {
		count++
	}
	return count
}

// renderSection returns the block for one section, or "" when the section has
// nothing to show.
func renderSection(sec section, status application.Status, opts RenderOptions, s styles) string {
	switch sec {
	case sectionHeader:
		return renderHeader(status, s)
	case sectionActive:
		if status.Active == nil {
			return ""
		}
		return s.section.Render(renderActive(status, opts, s))
	case sectionOthers:
		if len(status.Others) == 0 {
			return ""
		}
		others := []string{s.header.Render("other accounts")}
		for _, other := range status.Others {
			others = append(others, renderOther(other, opts, s))
		}
		return s.section.Render(lipgloss.JoinVertical(lipgloss.Left, others...))
	default:
		return ""
	}
}

func renderHeader(status application.Status, s styles) string {
	count := accountCount(status)
	lines := []string{
		s.title.Render("Tracker Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", count)),
	}
	if count == 0 {
		lines = append(lines, s.empty.Render("No accounts. Run `ta account add <url>` to connect a server."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderActive(status application.Status, opts RenderOptions, s styles) string {
	active := *status.Active
	parts := []string{
		s.account.Render("* " + accountTitle(active)),
		s.detail.Render(fmt.Sprintf("server: %s", serverLabel(active))),
		tokenLine(active, opts, s),
	}

	if status.AgreementPending {
		parts = append(parts, s.warning.Render("user agreement pending: run `ta agreement accept` or `ta agreement decline`"))
	}

	parts = append(parts,
		s.detail.Render(fmt.Sprintf("permissions: %d  projects: %d  push: %s", status.Permissions, status.Projects, pushLabel(active.DeviceRegistered))),
	)
	if settings := status.WorkTimeSettings; settings != nil && settings.MinutesADay > 0 {
		parts = append(parts, s.detail.Render(fmt.Sprintf("work day: %s, %d days a week", formatMinutes(settings.MinutesADay), settings.DaysAWeek)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderOther(summary application.AccountSummary, opts RenderOptions, s styles) string {
	state := s.ok.Render("authorized")
	if !summary.Authorized {
		state = s.warning.Render("needs login")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.other.Render("  "+accountTitle(summary)),
		" ",
		state,
		" ",
		s.header.Render(fmt.Sprintf("(%d)", summary.CreationTimestamp)),
	)
}

func accountTitle(summary application.AccountSummary) string {
	user := summary.UserLogin
	if summary.UserName != "" && summary.UserName != user {
		user = fmt.Sprintf("%s (%s)", summary.UserName, summary.UserLogin)
	}
	if user == "" {
		return summary.BackendURL
	}
	return user + " @ " + summary.BackendURL
}

func serverLabel(summary application.AccountSummary) string {
	if summary.ServerVersion == "" {
		return summary.BackendURL
	}
	return fmt.Sprintf("%s (version %s)", summary.BackendURL, summary.ServerVersion)
}

func pushLabel(registered bool) string {
	if registered {
		return "registered"
	}
	return "off"
}

func tokenLine(summary application.AccountSummary, opts RenderOptions, s styles) string {
	label := s.key.Render("token:")
	if !summary.Authorized {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.warning.Render("not authorized"))
	}
	if summary.ExpiresAt.IsZero() {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.ok.Render("valid (no expiry)"))
	}

	left := lifetimeLeftPercent(summary.IssuedAt, summary.ExpiresAt, opts.Now)
	expiry := lipgloss.NewStyle().Foreground(interpolateColor(left, 0, 100)).Render(formatExpiry(summary.ExpiresAt, opts.Now))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		label,
		" ",
		renderProgressBar(left, tokenBarWidth, s),
		" ",
		expiry,
	)
}

// lifetimeLeftPercent is the share of the token lifetime still ahead of now.
func lifetimeLeftPercent(issuedAt, expiresAt, now time.Time) float64 {
	if now.IsZero() || issuedAt.IsZero() || !expiresAt.After(issuedAt) {
		return 100
	}
	total := expiresAt.Sub(issuedAt).Seconds()
	return clampPercent(expiresAt.Sub(now).Seconds() / total * 100)
}

func renderProgressBar(leftPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(leftPercent) / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatExpiry(expiresAt, now time.Time) string {
	if now.IsZero() {
		return "expires " + expiresAt.Format(time.RFC3339)
	}
	if !expiresAt.After(now) {
		return "expired"
	}

	remaining := expiresAt.Sub(now)
	if remaining < time.Hour {
		minutes := int(math.Ceil(remaining.Minutes()))
		return fmt.Sprintf("expires in %d %s (%s)", minutes, plural(minutes, "minute"), expiresAt.Format("15:04"))
	}
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		return fmt.Sprintf("expires in %d %s (%s)", hours, plural(hours, "hour"), expiresAt.Format("15:04"))
	}
	return "expires " + expiresAt.Format("15:04 on 02 Jan")
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp from faded (240) to bright (255).
	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
