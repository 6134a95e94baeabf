package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/rbac"
)

// SourceName identifies role tables loaded from PostgreSQL.
const SourceName = "postgres"

const uniqueViolation = "23505"

// Pool is the subset of *pgxpool.Pool used by the repository.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Repository provides PostgreSQL backed persistence for the role table and
// serves as an rbac.Source.
type Repository struct {
	pool Pool
}

var _ rbac.Source = (*Repository)(nil)

// NewRepository constructs a repository.
func NewRepository(pool Pool) *Repository {
	return &Repository{pool: pool}
}

// Name implements rbac.Source.
func (r *Repository) Name() string { return SourceName }

// EnsureSchema creates the role tables when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("roles: ensure schema: %w", err)
	}
	return nil
}

// ListRecords returns all role rows ordered by level.
func (r *Repository) ListRecords(ctx context.Context) ([]Record, error) {
	rows, err := r.pool.Query(ctx, listRolesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Slug, &rec.Name, &rec.Level, &rec.Color, &rec.Icon, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ListGrants returns all role_permissions rows.
func (r *Repository) ListGrants(ctx context.Context) ([]Grant, error) {
	rows, err := r.pool.Query(ctx, listGrantsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.RoleSlug, &g.PermissionSlug); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

// LoadRoles implements rbac.Source.
func (r *Repository) LoadRoles(ctx context.Context) ([]rbac.Role, error) {
	records, err := r.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("roles: list roles: %w", err)
	}
	grants, err := r.ListGrants(ctx)
	if err != nil {
		return nil, fmt.Errorf("roles: list grants: %w", err)
	}
	return assemble(records, grants), nil
}

// SaveRoles replaces the persisted role table in one transaction. The
// permission catalog is upserted first so grants always reference it.
func (r *Repository) SaveRoles(ctx context.Context, roles []rbac.Role) error {
	catalog := rbac.Catalog()
	slugs := make([]string, 0, len(catalog))
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, p := range catalog {
			if _, err := tx.Exec(ctx, upsertPermissionSQL, p.Slug, string(p.Category)); err != nil {
				return fmt.Errorf("roles: upsert permission %s: %w", p.Slug, err)
			}
			slugs = append(slugs, p.Slug)
		}
		if _, err := tx.Exec(ctx, deletePermissionsNotInSQL, slugs); err != nil {
			return fmt.Errorf("roles: prune permissions: %w", err)
		}
		if _, err := tx.Exec(ctx, deleteRolesSQL); err != nil {
			return fmt.Errorf("roles: clear roles: %w", err)
		}
		for _, role := range roles {
			name := role.Name
			if name == "" {
				name = rbac.DisplayName(role.Slug)
			}
			if _, err := tx.Exec(ctx, insertRoleSQL, role.Slug, name, role.Level, role.Color, role.Icon); err != nil {
				return mapWriteError(role.Slug, err)
			}
			for _, perm := range role.Permissions {
				if _, err := tx.Exec(ctx, insertGrantSQL, role.Slug, perm); err != nil {
					return mapWriteError(role.Slug, err)
				}
			}
		}
		return nil
	})
	return err
}

func mapWriteError(role string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: duplicate entry for role %s (%s)", rbac.ErrInvalidTable, role, pgErr.ConstraintName)
	}
	return fmt.Errorf("roles: write role %s: %w", role, err)
}

// assemble joins role rows with their grants. Grants for unknown roles are
// dropped.
func assemble(records []Record, grants []Grant) []rbac.Role {
	byRole := make(map[string][]string, len(records))
	for _, g := range grants {
		byRole[g.RoleSlug] = append(byRole[g.RoleSlug], g.PermissionSlug)
	}
	roles := make([]rbac.Role, 0, len(records))
	for _, rec := range records {
		roles = append(roles, rbac.Role{
			Slug:        rec.Slug,
			Name:        rec.Name,
			Level:       rec.Level,
			Color:       rec.Color,
			Icon:        rec.Icon,
			Permissions: byRole[rec.Slug],
		})
	}
	return roles
}
