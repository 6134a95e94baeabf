package rbac

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/medref/medref/internal/shared"
)

var (
	// ErrInvalidTable indicates a role table that fails validation.
	ErrInvalidTable = errors.New("rbac: invalid role table")
	// ErrUnknownPermission indicates a role grants a permission outside the catalog.
	ErrUnknownPermission = errors.New("rbac: unknown permission")
)

// Table is an immutable snapshot of role definitions. Tables are only ever
// replaced as a whole.
type Table struct {
	roles    []Role
	grants   map[string][]string
	source   string
	loadedAt time.Time
}

// NewTable validates roles and builds a snapshot. super_admin must be
// present and must grant exactly the full catalog; every other role lists
// its permissions explicitly.
func NewTable(source string, roles []Role) (*Table, error) {
	catalog := make(map[string]struct{})
	for _, p := range shared.AllScopes() {
		catalog[p] = struct{}{}
	}

	t := &Table{
		roles:    make([]Role, 0, len(roles)),
		grants:   make(map[string][]string, len(roles)),
		source:   source,
		loadedAt: time.Now().UTC(),
	}
	for _, r := range roles {
		slug := strings.TrimSpace(r.Slug)
		if slug == "" {
			return nil, fmt.Errorf("%w: role slug required", ErrInvalidTable)
		}
		if _, dup := t.grants[slug]; dup {
			return nil, fmt.Errorf("%w: duplicate role %s", ErrInvalidTable, slug)
		}
		perms, err := normalizeGrants(slug, r.Permissions, catalog)
		if err != nil {
			return nil, err
		}
		role := r
		role.Slug = slug
		if role.Name == "" {
			role.Name = DisplayName(slug)
		}
		role.Permissions = perms
		t.grants[slug] = perms
		t.roles = append(t.roles, role)
	}

	super, ok := t.grants[shared.RoleSuperAdmin]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing", ErrInvalidTable, shared.RoleSuperAdmin)
	}
	if len(super) != len(catalog) {
		return nil, fmt.Errorf("%w: %s must grant the full catalog (%d of %d)", ErrInvalidTable, shared.RoleSuperAdmin, len(super), len(catalog))
	}

	sort.SliceStable(t.roles, func(i, j int) bool {
		if t.roles[i].Level != t.roles[j].Level {
			return t.roles[i].Level > t.roles[j].Level
		}
		return t.roles[i].Slug < t.roles[j].Slug
	})
	return t, nil
}

func normalizeGrants(role string, perms []string, catalog map[string]struct{}) ([]string, error) {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		if _, ok := catalog[p]; !ok {
			return nil, fmt.Errorf("%w: %s grants %q", ErrUnknownPermission, role, p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// PermissionsFor returns a copy of the permissions granted to slug. Unknown
// roles receive an empty set.
func (t *Table) PermissionsFor(slug string) []string {
	if t == nil {
		return []string{}
	}
	perms, ok := t.grants[slug]
	if !ok {
		return []string{}
	}
	return append([]string(nil), perms...)
}

// Grants reports whether slug holds perm.
func (t *Table) Grants(slug, perm string) bool {
	if t == nil {
		return false
	}
	perms := t.grants[slug]
	i := sort.SearchStrings(perms, perm)
	return i < len(perms) && perms[i] == perm
}

// Roles returns a copy of the role definitions ordered by level.
func (t *Table) Roles() []Role {
	if t == nil {
		return nil
	}
	out := make([]Role, len(t.roles))
	for i, r := range t.roles {
		r.Permissions = append([]string(nil), r.Permissions...)
		out[i] = r
	}
	return out
}

// Role looks up a role by slug.
func (t *Table) Role(slug string) (Role, bool) {
	if t == nil {
		return Role{}, false
	}
	for _, r := range t.roles {
		if r.Slug == slug {
			r.Permissions = append([]string(nil), r.Permissions...)
			return r, true
		}
	}
	return Role{}, false
}

// Source names where the table was loaded from.
func (t *Table) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// LoadedAt reports when the table was built.
func (t *Table) LoadedAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.loadedAt
}
