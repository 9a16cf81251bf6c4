package terminal

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Notifier prints user-facing messages to a terminal stream. The display duration is
// meaningless for a line-oriented terminal and is only logged.
type Notifier struct {
	mu      sync.Mutex
	out     io.Writer
	logger  *slog.Logger
	info    lipgloss.Style
	failure lipgloss.Style
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(out io.Writer, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		out:     out,
		logger:  logger,
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (n *Notifier) Notify(message string, duration time.Duration) {
	n.logger.Debug("notify", slog.String("message", message), slog.Duration("duration", duration))
	n.println(n.info.Render(message))
}

func (n *Notifier) NotifyError(message string, err error) {
	n.logger.Error(message, slog.Any("error", err))
	n.println(n.failure.Render("error: " + message))
}

func (n *Notifier) println(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.out, line)
}
