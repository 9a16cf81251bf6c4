package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Navigator turns route changes into hints for the next command. Commands that drive
// an interactive step, such as logging in after RouteLogIn, read Last to decide.
type Navigator struct {
	mu     sync.Mutex
	out    io.Writer
	routes []domain.Route
	hint   lipgloss.Style
}

var _ ports.Navigator = (*Navigator)(nil)

func NewNavigator(out io.Writer) *Navigator {
	return &Navigator{
		out:  out,
		hint: lipgloss.NewStyle().Faint(true),
	}
}

func (n *Navigator) Navigate(route domain.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.routes = append(n.routes, route)
	if line := routeHint(route); line != "" && n.out != nil {
		_, _ = fmt.Fprintln(n.out, n.hint.Render(line))
	}
}

func (n *Navigator) Last() (domain.Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.routes) == 0 {
		return domain.Route{}, false
	}
	return n.routes[len(n.routes)-1], true
}

func (n *Navigator) Routes() []domain.Route {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]domain.Route(nil), n.routes...)
}

func routeHint(route domain.Route) string {
	switch route.Kind {
	case domain.RouteEnterServer:
		return "No active account. Connect one with `ta account add <url>`."
	case domain.RouteLogIn:
		if route.Err != nil {
			return fmt.Sprintf("Sign-in required for %s: %v", route.BackendURL, route.Err)
		}
		return fmt.Sprintf("Sign-in required for %s.", route.BackendURL)
	case domain.RouteAgreement:
		return "The server requires accepting its user agreement: `ta agreement accept` or `ta agreement decline`."
	case domain.RouteHome:
		if route.Err != nil {
			return fmt.Sprintf("Opened %s with errors: %v", route.BackendURL, route.Err)
		}
		if route.IssueID != "" {
			return fmt.Sprintf("Ready on %s (issue %s).", route.BackendURL, route.IssueID)
		}
		return fmt.Sprintf("Ready on %s.", route.BackendURL)
	}
	return ""
}
