package rbac

import "sync/atomic"

// Registry holds the current role table. Readers never lock; reloads swap
// in a complete new table.
type Registry struct {
	current atomic.Pointer[Table]
}

// NewRegistry constructs a Registry seeded with table.
func NewRegistry(table *Table) *Registry {
	r := &Registry{}
	r.current.Store(table)
	return r
}

// Table returns the current snapshot.
func (r *Registry) Table() *Table {
	return r.current.Load()
}

// Swap installs table and returns the previous snapshot. A nil table is
// ignored.
func (r *Registry) Swap(table *Table) *Table {
	if table == nil {
		return r.current.Load()
	}
	return r.current.Swap(table)
}

// PermissionsFor returns the permissions granted to the role slug.
func (r *Registry) PermissionsFor(slug string) []string {
	return r.current.Load().PermissionsFor(slug)
}
