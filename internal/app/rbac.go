package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medref/medref/internal/rbac"
	"github.com/medref/medref/internal/roles"
)

// RoleSource selects the role table source named by RBAC_SOURCE. pool is
// only consulted for the postgres source.
func RoleSource(cfg *Config, pool roles.Pool) (rbac.Source, error) {
	switch cfg.RBACSource {
	case RBACSourceDefaults, "":
		return rbac.DefaultSource(), nil
	case RBACSourceFile:
		return rbac.FileSource{Path: cfg.RBACRolesFile}, nil
	case RBACSourcePostgres:
		if pool == nil {
			return nil, fmt.Errorf("app: RBAC_SOURCE=%s requires a database pool", RBACSourcePostgres)
		}
		return roles.NewRepository(pool), nil
	}
	return nil, fmt.Errorf("app: unsupported RBAC_SOURCE %q", cfg.RBACSource)
}

// NewRBACService builds the registry and performs the first load. The
// built-in table is installed first so the registry is never empty; a
// failed first load from any other source aborts startup rather than
// serving the built-in grants.
func NewRBACService(ctx context.Context, source rbac.Source, logger *slog.Logger, observer rbac.ReloadObserver) (*rbac.Service, error) {
	service := rbac.NewService(rbac.NewRegistry(rbac.DefaultTable()), source, logger)
	if observer != nil {
		service.SetObserver(observer)
	}
	if _, err := service.Reload(ctx); err != nil {
		return nil, fmt.Errorf("app: initial role table load: %w", err)
	}
	return service, nil
}
