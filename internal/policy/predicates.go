package policy

import "strings"

var (
	crewOf = &Predicate{Name: "crew_of", Test: func(rel Resolver, a Actor, r Resource) bool {
		amb, ok := r.(Ambulance)
		return ok && rel.IsCrewOf(a, amb)
	}}

	sameFacility = &Predicate{Name: "same_facility", Test: func(rel Resolver, a Actor, r Resource) bool {
		return rel.IsSameFacility(a, r)
	}}

	ownRecord = &Predicate{Name: "own_record", Test: func(rel Resolver, a Actor, r Resource) bool {
		return rel.IsOwnRecord(a, r)
	}}

	// otherUser holds only when both ids are present and differ, so a
	// snapshot missing an id never passes a self-exclusion guard.
	otherUser = &Predicate{Name: "other_user", Test: func(rel Resolver, a Actor, r Resource) bool {
		u, ok := r.(User)
		return ok && a.ID != "" && u.ID != "" && !rel.IsOwnRecord(a, u)
	}}

	// involvedDoctor covers referrals directly and patients through their
	// hydrated referrals.
	involvedDoctor = &Predicate{Name: "involved_doctor", Test: func(rel Resolver, a Actor, r Resource) bool {
		switch v := r.(type) {
		case Referral:
			return rel.IsInvolvedDoctor(a, v)
		case Patient:
			return rel.IsInvolvedDoctorForPatient(a, v)
		default:
			return false
		}
	}}

	involvedFacility = &Predicate{Name: "involved_facility", Test: func(rel Resolver, a Actor, r Resource) bool {
		ref, ok := r.(Referral)
		return ok && rel.IsInvolvedFacility(a, ref)
	}}

	referringDoctor = &Predicate{Name: "referring_doctor", Test: func(rel Resolver, a Actor, r Resource) bool {
		ref, ok := r.(Referral)
		return ok && rel.IsReferringDoctor(a, ref)
	}}

	receivingDoctor = &Predicate{Name: "receiving_doctor", Test: func(rel Resolver, a Actor, r Resource) bool {
		ref, ok := r.(Referral)
		return ok && rel.IsReceivingDoctor(a, ref)
	}}

	targetSuperAdmin = &Predicate{Name: "target_super_admin", Test: func(rel Resolver, a Actor, r Resource) bool {
		u, ok := r.(User)
		return ok && rel.IsSuperAdminTarget(u)
	}}
)

func receivingDoctorIn(statuses ...Status) *Predicate {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return &Predicate{
		Name: "receiving_doctor_in(" + strings.Join(names, ",") + ")",
		Test: func(rel Resolver, a Actor, r Resource) bool {
			ref, ok := r.(Referral)
			return ok && rel.IsReceivingDoctorInStatus(a, ref, statuses)
		},
	}
}
