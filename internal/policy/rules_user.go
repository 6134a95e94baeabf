package policy

import "github.com/medref/medref/internal/shared"

func userRules() *Table {
	superAdmin := Roles(shared.RoleSuperAdmin)
	hospitalAdmin := Roles(shared.RoleHospitalAdmin)
	notSelf := otherUser
	notSuperAdmin := Not(targetSuperAdmin)

	return newTable(KindUser).
		on(ActionViewAny,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin)},
		).
		on(ActionView,
			Clause{Roles: superAdmin},
			Clause{Roles: hospitalAdmin, Predicate: sameFacility},
			Clause{Roles: Anyone(), Predicate: ownRecord},
		).
		on(ActionCreate,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin)},
		).
		// Self-update bypasses role checks for every role, patient included.
		on(ActionUpdate,
			Clause{Roles: superAdmin, Predicate: Or(notSuperAdmin, ownRecord)},
			Clause{Roles: hospitalAdmin, Predicate: And(sameFacility, notSuperAdmin)},
			Clause{Roles: Anyone(), Predicate: ownRecord},
		).
		// Nobody deletes themselves and super_admin accounts are never deleted.
		on(ActionDelete,
			Clause{Roles: superAdmin, Predicate: And(notSelf, notSuperAdmin)},
			Clause{Roles: hospitalAdmin, Predicate: And(notSelf, notSuperAdmin, sameFacility)},
		).
		on(ActionForceDelete,
			Clause{Roles: superAdmin, Predicate: And(notSelf, notSuperAdmin)},
		).
		on(ActionRestore,
			Clause{Roles: superAdmin},
			Clause{Roles: hospitalAdmin, Predicate: sameFacility},
		).
		on(ActionUpdateStatus,
			Clause{Roles: superAdmin, Predicate: notSelf},
			Clause{Roles: hospitalAdmin, Predicate: And(notSelf, notSuperAdmin, sameFacility)},
		).
		on(ActionResetPassword,
			Clause{Roles: superAdmin, Predicate: Or(ownRecord, notSuperAdmin)},
			Clause{Roles: hospitalAdmin, Predicate: And(sameFacility, notSuperAdmin)},
		).
		on(ActionBulkAction,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin)},
		).
		on(ActionCreateSuperAdmin,
			Clause{Roles: superAdmin},
		)
}
