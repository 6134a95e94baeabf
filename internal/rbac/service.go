package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound indicates that the requested role does not exist.
var ErrNotFound = errors.New("rbac: not found")

// ReloadTimeout bounds a shared reload. The load is detached from the
// caller that started it because other callers may be waiting on it.
const ReloadTimeout = 30 * time.Second

// Service orchestrates role table loading and exposes read queries.
type Service struct {
	registry *Registry
	source   Source
	logger   *slog.Logger
	notifier Broadcaster
	observer ReloadObserver
	group    singleflight.Group
}

// Broadcaster announces a completed reload to peer instances.
type Broadcaster interface {
	Publish(ctx context.Context) error
}

// ReloadObserver records reload outcomes. observability.Metrics satisfies it.
type ReloadObserver interface {
	ObserveReload(source string, roles int, err error)
}

// NewService constructs a Service. The registry must already hold a table.
func NewService(registry *Registry, source Source, logger *slog.Logger) *Service {
	if source == nil {
		source = DefaultSource()
	}
	return &Service{registry: registry, source: source, logger: logger}
}

// SetBroadcaster wires reload announcements.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.notifier = b
}

// SetObserver wires reload instrumentation.
func (s *Service) SetObserver(o ReloadObserver) {
	s.observer = o
}

// Registry returns the underlying registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// PermissionsFor returns the permissions granted to a role slug. Unknown
// roles yield an empty set.
func (s *Service) PermissionsFor(slug string) []string {
	return s.registry.PermissionsFor(slug)
}

// ListRoles returns the current role definitions.
func (s *Service) ListRoles() []Role {
	return s.registry.Table().Roles()
}

// GetRole fetches a role by slug.
func (s *Service) GetRole(slug string) (Role, error) {
	role, ok := s.registry.Table().Role(slug)
	if !ok {
		return Role{}, ErrNotFound
	}
	return role, nil
}

// ListPermissions returns the permission catalog.
func (s *Service) ListPermissions() []Permission {
	return Catalog()
}

// Reload rebuilds the table from the source and swaps it in. Concurrent
// callers share a single load, which keeps running when the caller that
// started it goes away. On failure the current table stays active.
func (s *Service) Reload(ctx context.Context) (*Table, error) {
	v, err, _ := s.group.Do("reload", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ReloadTimeout)
		defer cancel()
		table, err := s.load(loadCtx)
		if s.observer != nil {
			roles := 0
			if table != nil {
				roles = len(table.Roles())
			}
			s.observer.ObserveReload(s.source.Name(), roles, err)
		}
		if err != nil {
			return nil, err
		}
		s.registry.Swap(table)
		if s.logger != nil {
			s.logger.Info("rbac table loaded",
				slog.String("source", table.Source()),
				slog.Int("roles", len(table.Roles())))
		}
		return table, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("rbac reload", slog.Any("error", err))
		}
		return nil, err
	}
	return v.(*Table), nil
}

func (s *Service) load(ctx context.Context) (*Table, error) {
	roles, err := s.source.LoadRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("rbac: load roles from %s: %w", s.source.Name(), err)
	}
	return NewTable(s.source.Name(), roles)
}

// ReloadAndBroadcast reloads locally and then tells peers to do the same.
func (s *Service) ReloadAndBroadcast(ctx context.Context) (*Table, error) {
	table, err := s.Reload(ctx)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.Publish(ctx); err != nil {
			return table, fmt.Errorf("rbac: broadcast reload: %w", err)
		}
	}
	return table, nil
}
