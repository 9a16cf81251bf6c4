package ports

import (
	"context"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
)

// AccountStore persists the active account and the list of other accounts. Every
// write replaces the stored value as a whole and is durable when it returns.
// WriteAccounts replaces both values in one write; either both land or neither does.
type AccountStore interface {
	ReadState(ctx context.Context) (domain.AccountRecord, error)
	WriteState(ctx context.Context, record domain.AccountRecord) error
	ReadOtherAccounts(ctx context.Context) (domain.AccountList, error)
	WriteOtherAccounts(ctx context.Context, accounts domain.AccountList) error
	WriteAccounts(ctx context.Context, active domain.AccountRecord, others domain.AccountList) error
	MergePartial(ctx context.Context, fields domain.PartialRecord) error
}
