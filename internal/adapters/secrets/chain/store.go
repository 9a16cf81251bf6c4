package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	filestore "github.com/bnema/tracker-accounts-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/tracker-accounts-cli/internal/adapters/secrets/pass"
	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

// Store writes to the primary backend and falls back to the secondary one when the
// primary is unusable. Reads consult both so secrets written during an outage of
// the primary stay reachable.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
	logger   *slog.Logger
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) *Store {
	store, err := NewStoreChecked(primary, fallback, nil)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SecretStore, fallback ports.SecretStore, logger *slog.Logger) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{primary: primary, fallback: fallback, logger: logger}, nil
}

func NewPassFirstWithFileFallback(fileRoot string, logger *slog.Logger, passOpts ...passstore.Option) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(passOpts...), filestore.NewStore(fileRoot), logger)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	s.logger.Debug("primary secret backend put failed, using fallback", slog.String("key", key), slog.Any("error", err))
	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete removes the key from both backends. A key missing from one of them is not
// an error; missing from both reports domain.ErrSecretNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}
	fallbackErr := s.fallback.Delete(ctx, key)

	primaryMissing := errors.Is(err, domain.ErrSecretNotFound)
	fallbackMissing := errors.Is(fallbackErr, domain.ErrSecretNotFound)
	switch {
	case err == nil && (fallbackErr == nil || fallbackMissing):
		return nil
	case fallbackErr == nil && primaryMissing:
		return nil
	case primaryMissing && fallbackMissing:
		return fmt.Errorf("delete secret %q: %w", key, domain.ErrSecretNotFound)
	case err == nil:
		s.logger.Warn("fallback secret backend delete failed", slog.String("key", key), slog.Any("error", fallbackErr))
		return nil
	case fallbackErr == nil:
		s.logger.Warn("primary secret backend delete failed", slog.String("key", key), slog.Any("error", err))
		return nil
	}

	return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
