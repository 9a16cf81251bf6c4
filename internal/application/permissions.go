package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

const (
	PermissionsUnavailableMessage = "Failed to load permissions. You're unable to make any changes."
	permissionsWarningDuration    = 7 * time.Second
)

type permissionGrant struct {
	global   bool
	projects map[string]struct{}
}

// PermissionSnapshot is the permission list of the active user. Lookups are served
// from an index rebuilt on every load or replace.
type PermissionSnapshot struct {
	fetcher  ports.PermissionFetcher
	notifier ports.Notifier
	persist  PersistFunc
	metrics  ports.SessionMetrics
	logger   *slog.Logger

	mu    sync.RWMutex
	items []domain.PermissionCacheItem
	index map[string]permissionGrant
}

func NewPermissionSnapshot(fetcher ports.PermissionFetcher, notifier ports.Notifier, persist PersistFunc, metrics ports.SessionMetrics, logger *slog.Logger) *PermissionSnapshot {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PermissionSnapshot{
		fetcher:  fetcher,
		notifier: notifier,
		persist:  persist,
		metrics:  metrics,
		logger:   logger,
		index:    map[string]permissionGrant{},
	}
}

// Load fetches the permission list for the given credentials. A failed fetch leaves
// an empty snapshot, warns the user and reports false; the error itself is only logged.
func (p *PermissionSnapshot) Load(ctx context.Context, tokenType, accessToken, permissionsURL string) ([]domain.PermissionCacheItem, bool) {
	items, err := p.fetcher.FetchPermissions(ctx, tokenType, accessToken, permissionsURL)
	if err != nil {
		p.logger.Warn("load permissions failed", slog.String("url", permissionsURL), slog.Any("error", err))
		p.Replace(nil)
		if p.notifier != nil {
			p.notifier.Notify(PermissionsUnavailableMessage, permissionsWarningDuration)
		}
		p.metrics.PermissionsLoaded(false, 0)
		return []domain.PermissionCacheItem{}, false
	}

	p.Replace(items)
	p.metrics.PermissionsLoaded(true, len(items))
	return p.Items(), true
}

// Has reports whether permission is granted for scopeID. Global grants match every
// scope; an empty scopeID only matches global grants.
func (p *PermissionSnapshot) Has(permission, scopeID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	grant, ok := p.index[permission]
	if !ok {
		return false
	}
	if grant.global {
		return true
	}
	if scopeID == "" {
		return false
	}
	_, ok = grant.projects[scopeID]
	return ok
}

func (p *PermissionSnapshot) Replace(items []domain.PermissionCacheItem) {
	index := make(map[string]permissionGrant, len(items))
	for _, item := range items {
		grant := index[item.Permission]
		if item.Global() {
			grant.global = true
		} else {
			if grant.projects == nil {
				grant.projects = map[string]struct{}{}
			}
			grant.projects[*item.ProjectID] = struct{}{}
		}
		index[item.Permission] = grant
	}

	cloned := domain.ClonePermissions(items)
	if cloned == nil {
		cloned = []domain.PermissionCacheItem{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = cloned
	p.index = index
}

func (p *PermissionSnapshot) Items() []domain.PermissionCacheItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.ClonePermissions(p.items)
}

// Persist writes items into the active record. Failures are logged only.
func (p *PermissionSnapshot) Persist(ctx context.Context, items []domain.PermissionCacheItem) {
	if p.persist == nil {
		return
	}
	if err := p.persist(ctx, domain.PartialRecord{Permissions: &items}); err != nil {
		p.logger.Warn("persist permissions failed", slog.Any("error", err))
	}
}
