package ports

import (
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
)

// Notifier shows messages to the user. Calls must not block.
type Notifier interface {
	Notify(message string, duration time.Duration)
	NotifyError(message string, err error)
}

type Navigator interface {
	Navigate(route domain.Route)
}
