package roles

// Schema creates the role tables when missing. The tables are written at
// seed time and read at startup and on reload.
const Schema = `
CREATE TABLE IF NOT EXISTS roles (
	slug       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	level      INTEGER NOT NULL DEFAULT 0,
	color      TEXT NOT NULL DEFAULT '',
	icon       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS permissions (
	slug     TEXT PRIMARY KEY,
	category TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS role_permissions (
	role_slug       TEXT NOT NULL REFERENCES roles(slug) ON DELETE CASCADE,
	permission_slug TEXT NOT NULL REFERENCES permissions(slug) ON DELETE CASCADE,
	PRIMARY KEY (role_slug, permission_slug)
);`

const listRolesSQL = `SELECT slug, name, level, color, icon, created_at, updated_at FROM roles ORDER BY level DESC, slug`

const listGrantsSQL = `SELECT role_slug, permission_slug FROM role_permissions ORDER BY role_slug, permission_slug`

const upsertPermissionSQL = `INSERT INTO permissions (slug, category) VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET category = EXCLUDED.category`

const deletePermissionsNotInSQL = `DELETE FROM permissions WHERE NOT (slug = ANY($1))`

const deleteRolesSQL = `DELETE FROM roles`

const insertRoleSQL = `INSERT INTO roles (slug, name, level, color, icon) VALUES ($1, $2, $3, $4, $5)`

const insertGrantSQL = `INSERT INTO role_permissions (role_slug, permission_slug) VALUES ($1, $2)`
