package roles

import "time"

// Record is a persisted role row.
type Record struct {
	Slug      string
	Name      string
	Level     int
	Color     string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Grant is a persisted role_permissions row.
type Grant struct {
	RoleSlug       string
	PermissionSlug string
}

// Summary is the presentation view of a role returned by the HTTP handler.
type Summary struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Permissions int    `json:"permission_count"`
}
