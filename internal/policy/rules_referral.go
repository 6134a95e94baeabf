package policy

import "github.com/medref/medref/internal/shared"

func referralRules() *Table {
	admins := Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin)

	return newTable(KindReferral).
		on(ActionViewAny,
			Clause{Roles: AllRolesExcept(shared.RolePatient)},
		).
		on(ActionView,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin, shared.RoleDispatcher)},
			Clause{Roles: Roles(shared.RoleDoctor), Predicate: Or(involvedDoctor, involvedFacility)},
			Clause{Roles: Roles(shared.RoleNurse), Predicate: involvedFacility},
		).
		on(ActionCreate,
			Clause{Roles: Roles(shared.RoleSuperAdmin, shared.RoleHospitalAdmin, shared.RoleDoctor, shared.RoleNurse)},
		).
		on(ActionUpdate,
			Clause{Roles: admins},
			Clause{Roles: Roles(shared.RoleDoctor), Predicate: referringDoctor, Statuses: []Status{StatusPending, StatusInReview}},
			Clause{Roles: Roles(shared.RoleDoctor), Predicate: receivingDoctor, Statuses: []Status{StatusAccepted, StatusInProgress}},
			Clause{Roles: Roles(shared.RoleNurse), Predicate: involvedFacility},
		).
		on(ActionDelete,
			Clause{Roles: Roles(shared.RoleSuperAdmin)},
			Clause{Roles: Roles(shared.RoleHospitalAdmin), Predicate: involvedFacility, Statuses: []Status{StatusDraft, StatusPending, StatusCancelled}},
		).
		// accept and reject are single strict clauses: only a doctor at the
		// receiving facility, and only while the referral awaits a decision.
		on(ActionAccept,
			Clause{Roles: Roles(shared.RoleDoctor), Predicate: receivingDoctorIn(StatusPending)},
		).
		on(ActionReject,
			Clause{Roles: Roles(shared.RoleDoctor), Predicate: receivingDoctorIn(StatusPending, StatusInReview)},
		).
		on(ActionDispatchAmbulance,
			Clause{Roles: Roles(shared.RoleSuperAdmin)},
			Clause{Roles: Roles(shared.RoleHospitalAdmin, shared.RoleDispatcher), Statuses: []Status{StatusAccepted, StatusInProgress}},
		)
}
