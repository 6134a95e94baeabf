package rbac

import "github.com/medref/medref/internal/shared"

// Role represents a role slug with its presentation metadata and the
// permissions it grants. Level is display metadata only and is never
// compared by any decision.
type Role struct {
	Slug        string   `json:"slug" yaml:"slug"`
	Name        string   `json:"name" yaml:"name"`
	Level       int      `json:"level" yaml:"level"`
	Color       string   `json:"color,omitempty" yaml:"color,omitempty"`
	Icon        string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

// Permission represents an atomic capability from the catalog.
type Permission struct {
	Slug     string          `json:"slug"`
	Category shared.Category `json:"category"`
}

// CategoryGroup lists the permissions of one category.
type CategoryGroup struct {
	Category    shared.Category `json:"category"`
	Permissions []string        `json:"permissions"`
}

// Catalog returns every permission with its category.
func Catalog() []Permission {
	var perms []Permission
	for _, c := range shared.Categories() {
		for _, p := range shared.ScopesFor(c) {
			perms = append(perms, Permission{Slug: p, Category: c})
		}
	}
	return perms
}

// GroupedCatalog returns the catalog grouped by category.
func GroupedCatalog() []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(shared.Categories()))
	for _, c := range shared.Categories() {
		groups = append(groups, CategoryGroup{Category: c, Permissions: shared.ScopesFor(c)})
	}
	return groups
}
