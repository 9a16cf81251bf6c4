package toml

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StatePathKey     = "state.path"
	stateFileMode    = 0o600
	stateDirMode     = 0o700
	stateFileName    = "accounts.toml"
	tempFilePattern  = ".accounts-*.toml.tmp"
	secretKeyPrefix  = "tracker/accounts"
	secretHashLength = 16
)

// Repository stores the active account and the other accounts in a single TOML
// document. Token material goes to the secret store when one is configured.
type Repository struct {
	statePath string
	mu        *sync.RWMutex
	secrets   ports.SecretStore
	logger    *slog.Logger
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.AccountStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper, secrets ports.SecretStore, logger *slog.Logger) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaultPath, err := DefaultStatePath()
	if err != nil {
		return nil, err
	}
	cfg.SetDefault(StatePathKey, defaultPath)

	statePath := cfg.GetString(StatePathKey)
	if statePath == "" {
		return nil, errors.New("state path is empty")
	}
	statePath, err = normalizeStatePath(statePath)
	if err != nil {
		return nil, err
	}

	return &Repository{
		statePath: statePath,
		mu:        lockForPath(statePath),
		secrets:   secrets,
		logger:    logger,
	}, nil
}

func DefaultStatePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(configDir, "tracker-accounts", stateFileName), nil
}

func (r *Repository) Path() string {
	return r.statePath
}

func (r *Repository) ReadState(ctx context.Context) (domain.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.AccountRecord{}, storageError(err)
	}
	if file.Active == nil {
		return domain.DefaultAccountRecord(), nil
	}

	record, err := r.fromSchema(ctx, *file.Active)
	if err != nil {
		return domain.AccountRecord{}, storageError(err)
	}
	return record, nil
}

func (r *Repository) ReadOtherAccounts(ctx context.Context) (domain.AccountList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, storageError(err)
	}

	accounts := make(domain.AccountList, 0, len(file.Others))
	for _, entry := range file.Others {
		record, err := r.fromSchema(ctx, entry)
		if err != nil {
			return nil, storageError(err)
		}
		accounts = append(accounts, record)
	}

	return accounts, nil
}

func (r *Repository) WriteState(ctx context.Context, record domain.AccountRecord) error {
	return r.update(ctx, func(file *fileSchema, enc *secretEncoder) error {
		return setActive(file, enc, record)
	})
}

func (r *Repository) WriteOtherAccounts(ctx context.Context, accounts domain.AccountList) error {
	if err := domain.ValidateUnique(domain.AccountRecord{}, accounts); err != nil {
		return storageError(err)
	}

	return r.update(ctx, func(file *fileSchema, enc *secretEncoder) error {
		return setOthers(file, enc, accounts)
	})
}

// WriteAccounts replaces the active account and the other accounts in a single
// document write.
func (r *Repository) WriteAccounts(ctx context.Context, active domain.AccountRecord, others domain.AccountList) error {
	if err := domain.ValidateUnique(active, others); err != nil {
		return storageError(err)
	}

	return r.update(ctx, func(file *fileSchema, enc *secretEncoder) error {
		if err := setActive(file, enc, active); err != nil {
			return err
		}
		return setOthers(file, enc, others)
	})
}

func setActive(file *fileSchema, enc *secretEncoder, record domain.AccountRecord) error {
	if record.IsZero() {
		file.Active = nil
		return nil
	}
	encoded, err := enc.encode(record)
	if err != nil {
		return err
	}
	file.Active = &encoded
	return nil
}

func setOthers(file *fileSchema, enc *secretEncoder, accounts domain.AccountList) error {
	others := make([]accountSchema, 0, len(accounts))
	for _, record := range accounts {
		encoded, err := enc.encode(record)
		if err != nil {
			return err
		}
		others = append(others, encoded)
	}
	file.Others = others
	return nil
}

func (r *Repository) MergePartial(ctx context.Context, fields domain.PartialRecord) error {
	return r.update(ctx, func(file *fileSchema, enc *secretEncoder) error {
		current := domain.DefaultAccountRecord()
		if file.Active != nil {
			decoded, err := r.fromSchema(ctx, *file.Active)
			if err != nil {
				return err
			}
			current = decoded
		}

		encoded, err := enc.encode(fields.Apply(current))
		if err != nil {
			return err
		}
		file.Active = &encoded
		return nil
	})
}

// update runs mutate on the current document under the write lock and replaces the
// file. Secrets created by a failed update are removed again; secrets no longer
// referenced after a successful one are deleted.
func (r *Repository) update(ctx context.Context, mutate func(*fileSchema, *secretEncoder) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return storageError(err)
	}

	previous := referencedSecrets(file)
	enc := &secretEncoder{ctx: ctx, secrets: r.secrets, existing: maps.Clone(previous)}

	if err := mutate(&file, enc); err != nil {
		return storageError(errors.Join(err, enc.rollback()))
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(err, enc.rollback())
	}
	if err := r.writeSchema(file); err != nil {
		return storageError(errors.Join(err, enc.rollback()))
	}

	if r.secrets == nil {
		return nil
	}
	current := referencedSecrets(file)
	for ref := range previous {
		if _, ok := current[ref]; ok {
			continue
		}
		if err := r.secrets.Delete(ctx, ref); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
			r.logger.Warn("delete superseded token secret failed", slog.String("secret_ref", ref), slog.Any("error", err))
		}
	}

	return nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read accounts file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode accounts file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.statePath), stateDirMode); err != nil {
		return fmt.Errorf("create accounts directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode accounts file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.statePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp accounts file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp accounts file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp accounts file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp accounts file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp accounts file: %w", err)
	}

	if err := os.Rename(tempName, r.statePath); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}

	cleanup = false
	syncDir(filepath.Dir(r.statePath))

	return nil
}

// syncDir flushes the rename to disk where the platform allows opening directories.
func syncDir(dir string) {
	handle, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = handle.Sync()
	_ = handle.Close()
}

func normalizeStatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

func referencedSecrets(file fileSchema) map[string]struct{} {
	refs := map[string]struct{}{}
	add := func(account accountSchema) {
		if account.Auth != nil && account.Auth.SecretRef != "" {
			refs[account.Auth.SecretRef] = struct{}{}
		}
	}
	if file.Active != nil {
		add(*file.Active)
	}
	for _, account := range file.Others {
		add(account)
	}
	return refs
}

// secretEncoder converts records to their schema and stores token secrets that are
// not referenced yet, remembering them for rollback.
type secretEncoder struct {
	ctx      context.Context
	secrets  ports.SecretStore
	existing map[string]struct{}
	created  []string
}

func (e *secretEncoder) encode(record domain.AccountRecord) (accountSchema, error) {
	encoded := toSchema(record)
	if record.AuthParams == nil || !record.AuthParams.Valid() {
		encoded.Auth = nil
		return encoded, nil
	}
	if e.secrets == nil {
		encoded.Auth.AccessToken = record.AuthParams.AccessToken
		encoded.Auth.RefreshToken = record.AuthParams.RefreshToken
		return encoded, nil
	}

	payload, err := toml.Marshal(tokenSecret{
		AccessToken:  record.AuthParams.AccessToken,
		RefreshToken: record.AuthParams.RefreshToken,
	})
	if err != nil {
		return accountSchema{}, fmt.Errorf("encode token secret: %w", err)
	}

	ref := secretKey(record.CreationTimestamp, payload)
	if _, ok := e.existing[ref]; !ok {
		if err := e.secrets.Put(e.ctx, ref, string(payload)); err != nil {
			return accountSchema{}, fmt.Errorf("store token secret: %w", err)
		}
		e.existing[ref] = struct{}{}
		e.created = append(e.created, ref)
	}
	encoded.Auth.SecretRef = ref
	return encoded, nil
}

func (e *secretEncoder) rollback() error {
	var rollbackErr error
	for _, ref := range e.created {
		if err := e.secrets.Delete(e.ctx, ref); err != nil {
			rollbackErr = errors.Join(rollbackErr, fmt.Errorf("delete token secret %s: %w", ref, err))
		}
	}
	e.created = nil
	return rollbackErr
}

func secretKey(creationTimestamp int64, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s/%d/auth-%s", secretKeyPrefix, creationTimestamp, hex.EncodeToString(sum[:])[:secretHashLength])
}

func (r *Repository) fromSchema(ctx context.Context, account accountSchema) (domain.AccountRecord, error) {
	auth, err := r.decodeAuth(ctx, account.Auth)
	if err != nil {
		return domain.AccountRecord{}, err
	}

	record := domain.AccountRecord{
		Config: domain.ServerConfig{
			BackendURL: account.Config.BackendURL,
			Version:    account.Config.Version,
			Build:      account.Config.Build,
			HubURL:     account.Config.HubURL,
			ClientID:   account.Config.ClientID,
			Features:   account.Config.Features,
		},
		AuthParams:        auth,
		CreationTimestamp: account.CreationTimestamp,
		DeviceRegistered:  account.DeviceRegistered,
		AppVersion:        account.AppVersion,
	}

	if account.User != nil {
		user := domain.User{ID: account.User.ID, Login: account.User.Login, Name: account.User.Name}
		if account.User.Consent != nil {
			user.AgreementConsent = &domain.AgreementConsent{
				Accepted:     account.User.Consent.Accepted,
				MajorVersion: account.User.Consent.MajorVersion,
				MinorVersion: account.User.Consent.MinorVersion,
			}
		}
		if account.User.Profiles != nil {
			user.Profiles = &domain.UserProfiles{
				General:    domain.GeneralProfile{SearchContext: account.User.Profiles.SearchContext},
				Appearance: domain.AppearanceProfile{NaturalCommentsOrder: account.User.Profiles.NaturalCommentsOrder},
			}
		}
		record.CurrentUser = &user
	}

	if len(account.Permissions) > 0 {
		record.Permissions = make([]domain.PermissionCacheItem, 0, len(account.Permissions))
		for _, item := range account.Permissions {
			record.Permissions = append(record.Permissions, domain.PermissionCacheItem{Permission: item.Permission, ProjectID: item.ProjectID})
		}
	}
	if len(account.Projects) > 0 {
		record.Projects = make([]domain.Project, 0, len(account.Projects))
		for _, project := range account.Projects {
			record.Projects = append(record.Projects, domain.Project{
				ID:        project.ID,
				ShortName: project.ShortName,
				Name:      project.Name,
				Pinned:    project.Pinned,
			})
		}
	}

	return record, nil
}

// decodeAuth returns nil params when the referenced secret is gone; the account then
// needs a new login.
func (r *Repository) decodeAuth(ctx context.Context, auth *authSchema) (*domain.AuthParams, error) {
	if auth == nil {
		return nil, nil
	}

	params := domain.AuthParams{
		TokenType:    auth.TokenType,
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		Scope:        auth.Scope,
		IssuedAt:     parseTime(auth.IssuedAt),
		ExpiresAt:    parseTime(auth.ExpiresAt),
	}

	if auth.SecretRef != "" {
		if r.secrets == nil {
			r.logger.Warn("token secret referenced but no secret store configured", slog.String("secret_ref", auth.SecretRef))
			return nil, nil
		}
		value, err := r.secrets.Get(ctx, auth.SecretRef)
		if errors.Is(err, domain.ErrSecretNotFound) {
			r.logger.Warn("token secret missing", slog.String("secret_ref", auth.SecretRef))
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read token secret: %w", err)
		}

		var secret tokenSecret
		if err := toml.Unmarshal([]byte(value), &secret); err != nil {
			return nil, fmt.Errorf("decode token secret: %w", err)
		}
		params.AccessToken = secret.AccessToken
		params.RefreshToken = secret.RefreshToken
	}

	if !params.Valid() {
		return nil, nil
	}
	return &params, nil
}

func toSchema(record domain.AccountRecord) accountSchema {
	encoded := accountSchema{
		CreationTimestamp: record.CreationTimestamp,
		AppVersion:        record.AppVersion,
		DeviceRegistered:  record.DeviceRegistered,
		Config: configSchema{
			BackendURL: record.Config.BackendURL,
			Version:    record.Config.Version,
			Build:      record.Config.Build,
			HubURL:     record.Config.HubURL,
			ClientID:   record.Config.ClientID,
			Features:   record.Config.Features,
		},
	}

	if record.AuthParams != nil {
		encoded.Auth = &authSchema{
			TokenType: record.AuthParams.TokenType,
			Scope:     record.AuthParams.Scope,
			IssuedAt:  formatTime(record.AuthParams.IssuedAt),
			ExpiresAt: formatTime(record.AuthParams.ExpiresAt),
		}
	}

	if user := record.CurrentUser; user != nil {
		encoded.User = &userSchema{ID: user.ID, Login: user.Login, Name: user.Name}
		if user.AgreementConsent != nil {
			encoded.User.Consent = &consentSchema{
				Accepted:     user.AgreementConsent.Accepted,
				MajorVersion: user.AgreementConsent.MajorVersion,
				MinorVersion: user.AgreementConsent.MinorVersion,
			}
		}
		if user.Profiles != nil {
			encoded.User.Profiles = &profilesSchema{
				SearchContext:        user.Profiles.General.SearchContext,
				NaturalCommentsOrder: user.Profiles.Appearance.NaturalCommentsOrder,
			}
		}
	}

	for _, item := range record.Permissions {
		encoded.Permissions = append(encoded.Permissions, permissionSchema{Permission: item.Permission, ProjectID: item.ProjectID})
	}
	for _, project := range record.Projects {
		encoded.Projects = append(encoded.Projects, projectSchema{
			ID:        project.ID,
			ShortName: project.ShortName,
			Name:      project.Name,
			Pinned:    project.Pinned,
		})
	}

	return encoded
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
