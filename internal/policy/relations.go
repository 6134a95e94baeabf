package policy

import "github.com/medref/medref/internal/shared"

// Resolver answers relationship questions between an actor and a resource.
// Every method is pure and returns false when a key it needs is empty on
// either side.
type Resolver interface {
	IsCrewOf(actor Actor, ambulance Ambulance) bool
	IsSameFacility(actor Actor, resource Resource) bool
	IsInvolvedDoctor(actor Actor, referral Referral) bool
	IsInvolvedDoctorForPatient(actor Actor, patient Patient) bool
	IsInvolvedFacility(actor Actor, referral Referral) bool
	IsOwnRecord(actor Actor, resource Resource) bool
	IsReferringDoctor(actor Actor, referral Referral) bool
	IsReceivingDoctor(actor Actor, referral Referral) bool
	IsReceivingDoctorInStatus(actor Actor, referral Referral, allowed []Status) bool
	IsSuperAdminTarget(user User) bool
}

// Relations is the default Resolver.
type Relations struct{}

var _ Resolver = Relations{}

// IsCrewOf reports whether the actor is currently assigned to the ambulance.
func (Relations) IsCrewOf(actor Actor, ambulance Ambulance) bool {
	if actor.ID == "" {
		return false
	}
	for _, id := range ambulance.CrewUserIDs {
		if id == actor.ID {
			return true
		}
	}
	return false
}

// IsSameFacility compares the actor's facility with the resource's. Only
// users and equipment carry a facility.
func (Relations) IsSameFacility(actor Actor, resource Resource) bool {
	var facilityID string
	switch r := normalize(resource).(type) {
	case User:
		facilityID = r.FacilityID
	case Equipment:
		facilityID = r.FacilityID
	default:
		return false
	}
	return matches(actor.FacilityID, facilityID)
}

// IsInvolvedDoctor reports whether the actor is the referring or receiving
// doctor of the referral.
func (Relations) IsInvolvedDoctor(actor Actor, referral Referral) bool {
	return matches(actor.DoctorID, referral.ReferringDoctorID) ||
		matches(actor.DoctorID, referral.ReceivingDoctorID)
}

// IsInvolvedDoctorForPatient reports whether the actor is involved in any of
// the patient's referrals. Referrals that belong to another patient are
// ignored.
func (rel Relations) IsInvolvedDoctorForPatient(actor Actor, patient Patient) bool {
	if patient.ID == "" {
		return false
	}
	for _, ref := range patient.Referrals {
		if ref.PatientID != patient.ID {
			continue
		}
		if rel.IsInvolvedDoctor(actor, ref) {
			return true
		}
	}
	return false
}

// IsInvolvedFacility reports whether the actor works at the referring or
// receiving facility.
func (Relations) IsInvolvedFacility(actor Actor, referral Referral) bool {
	return matches(actor.FacilityID, referral.ReferringFacilityID) ||
		matches(actor.FacilityID, referral.ReceivingFacilityID)
}

// IsOwnRecord reports self identity: a patient's own record or a user's own
// account.
func (Relations) IsOwnRecord(actor Actor, resource Resource) bool {
	switch r := normalize(resource).(type) {
	case Patient:
		return matches(actor.PatientID, r.ID)
	case User:
		return matches(actor.ID, r.ID)
	default:
		return false
	}
}

// IsReferringDoctor reports whether the actor is the referring doctor.
func (Relations) IsReferringDoctor(actor Actor, referral Referral) bool {
	return matches(actor.DoctorID, referral.ReferringDoctorID)
}

// IsReceivingDoctor reports whether the actor is the receiving doctor.
func (Relations) IsReceivingDoctor(actor Actor, referral Referral) bool {
	return matches(actor.DoctorID, referral.ReceivingDoctorID)
}

// IsReceivingDoctorInStatus reports whether the actor works at the receiving
// facility while the referral is in one of the allowed statuses.
func (Relations) IsReceivingDoctorInStatus(actor Actor, referral Referral, allowed []Status) bool {
	return matches(actor.FacilityID, referral.ReceivingFacilityID) && statusIn(referral.Status, allowed)
}

// IsSuperAdminTarget reports whether the target account holds super_admin.
func (Relations) IsSuperAdminTarget(user User) bool {
	return user.Role == shared.RoleSuperAdmin
}

func matches(a, b string) bool {
	return a != "" && b != "" && a == b
}
