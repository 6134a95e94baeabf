package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medref/medref/internal/shared"
)

func TestDefaultTableIsValid(t *testing.T) {
	table := DefaultTable()

	require.Len(t, table.Roles(), len(shared.KnownRoles()))
	for _, slug := range shared.KnownRoles() {
		_, ok := table.Role(slug)
		require.True(t, ok, slug)
	}
	require.ElementsMatch(t, shared.AllScopes(), table.PermissionsFor(shared.RoleSuperAdmin))
}

func TestDefaultRolesAreOrderedByLevelForDisplay(t *testing.T) {
	roles := DefaultTable().Roles()
	require.Equal(t, shared.RoleSuperAdmin, roles[0].Slug)
	require.Equal(t, shared.RolePatient, roles[len(roles)-1].Slug)
	require.Equal(t, "Hospital Admin", roles[1].Name)
}

func TestNonAdminRolesAreExplicitSubsets(t *testing.T) {
	table := DefaultTable()
	// Level is display metadata: a higher level does not imply a superset.
	dispatcher := table.PermissionsFor(shared.RoleDispatcher)
	nurse := table.PermissionsFor(shared.RoleNurse)
	require.Contains(t, nurse, shared.PermPatientsView)
	require.NotContains(t, dispatcher, shared.PermPatientsView)

	require.False(t, table.Grants(shared.RoleNurse, shared.PermPatientsViewMedicalRecords))
	require.True(t, table.Grants(shared.RoleDoctor, shared.PermReferralsAccept))
	require.True(t, table.Grants(shared.RolePatient, shared.PermMedicalHistoryViewOwn))
}

func TestUnknownRoleHasEmptySet(t *testing.T) {
	table := DefaultTable()
	perms := table.PermissionsFor("janitor")
	require.NotNil(t, perms)
	require.Empty(t, perms)
	require.False(t, table.Grants("janitor", shared.PermProfileView))

	var missing *Table
	require.Empty(t, missing.PermissionsFor(shared.RoleSuperAdmin))
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	table := DefaultTable()
	perms := table.PermissionsFor(shared.RoleNurse)
	perms[0] = "tampered"
	require.NotContains(t, table.PermissionsFor(shared.RoleNurse), "tampered")
}

func TestNewTableRejectsInvalidDefinitions(t *testing.T) {
	full := Role{Slug: shared.RoleSuperAdmin, Permissions: shared.AllScopes()}

	cases := map[string]struct {
		roles []Role
		want  error
	}{
		"missing super admin": {
			roles: []Role{{Slug: shared.RoleNurse, Permissions: []string{shared.PermPatientsView}}},
			want:  ErrInvalidTable,
		},
		"partial super admin": {
			roles: []Role{{Slug: shared.RoleSuperAdmin, Permissions: []string{shared.PermUsersView}}},
			want:  ErrInvalidTable,
		},
		"duplicate slug": {
			roles: []Role{full, {Slug: shared.RoleSuperAdmin, Permissions: shared.AllScopes()}},
			want:  ErrInvalidTable,
		},
		"blank slug": {
			roles: []Role{full, {Slug: "  "}},
			want:  ErrInvalidTable,
		},
		"unknown permission": {
			roles: []Role{full, {Slug: shared.RoleNurse, Permissions: []string{"patients.teleport"}}},
			want:  ErrUnknownPermission,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable("test", tc.roles)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.want), err.Error())
		})
	}
}

func TestNewTableNormalizesGrants(t *testing.T) {
	table, err := NewTable("test", []Role{
		{Slug: shared.RoleSuperAdmin, Permissions: append(shared.AllScopes(), shared.PermUsersView)},
		{Slug: shared.RoleNurse, Permissions: []string{" Patients.View ", shared.PermPatientsView, ""}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{shared.PermPatientsView}, table.PermissionsFor(shared.RoleNurse))
	require.Equal(t, "test", table.Source())
	require.False(t, table.LoadedAt().IsZero())
}
