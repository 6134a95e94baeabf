package roles

import (
	"context"
	"fmt"

	"github.com/medref/medref/internal/rbac"
)

// Store persists role tables.
type Store interface {
	EnsureSchema(ctx context.Context) error
	SaveRoles(ctx context.Context, roles []rbac.Role) error
}

// Service publishes role tables to storage and to the live registry.
type Service struct {
	store Store
	rbac  *rbac.Service
}

// NewService builds Service instance.
func NewService(store Store, rbacService *rbac.Service) *Service {
	return &Service{store: store, rbac: rbacService}
}

// Seed validates roles and writes the normalized table to storage without
// touching the live registry.
func (s *Service) Seed(ctx context.Context, roles []rbac.Role) error {
	table, err := rbac.NewTable(SourceName, roles)
	if err != nil {
		return err
	}
	if err := s.store.EnsureSchema(ctx); err != nil {
		return err
	}
	return s.store.SaveRoles(ctx, table.Roles())
}

// Publish seeds roles and then reloads every instance.
func (s *Service) Publish(ctx context.Context, roles []rbac.Role) (*rbac.Table, error) {
	if err := s.Seed(ctx, roles); err != nil {
		return nil, err
	}
	if s.rbac == nil {
		return nil, fmt.Errorf("roles: rbac service not configured")
	}
	return s.rbac.ReloadAndBroadcast(ctx)
}

// Summaries lists the live roles for presentation.
func (s *Service) Summaries() []Summary {
	roles := s.rbac.ListRoles()
	out := make([]Summary, 0, len(roles))
	for _, r := range roles {
		out = append(out, toSummary(r))
	}
	return out
}

func toSummary(r rbac.Role) Summary {
	return Summary{
		Slug:        r.Slug,
		Name:        r.Name,
		Level:       r.Level,
		Color:       r.Color,
		Icon:        r.Icon,
		Permissions: len(r.Permissions),
	}
}
