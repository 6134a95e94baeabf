package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRelationsFailClosedOnMissingKeys(t *testing.T) {
	rel := Relations{}
	empty := Actor{Role: "doctor"}

	require.False(t, rel.IsCrewOf(empty, Ambulance{ID: "amb-1", CrewUserIDs: []string{""}}))
	require.False(t, rel.IsSameFacility(empty, User{ID: "u-1"}))
	require.False(t, rel.IsSameFacility(empty, Equipment{ID: "eq-1"}))
	require.False(t, rel.IsInvolvedDoctor(empty, Referral{ID: "r-1"}))
	require.False(t, rel.IsInvolvedFacility(empty, Referral{ID: "r-1"}))
	require.False(t, rel.IsOwnRecord(empty, Patient{}))
	require.False(t, rel.IsOwnRecord(empty, User{}))
	require.False(t, rel.IsReceivingDoctorInStatus(empty, Referral{Status: StatusPending}, []Status{StatusPending}))
}

func TestIsSameFacilityOnlyForFacilityResources(t *testing.T) {
	rel := Relations{}
	actor := Actor{ID: "u-1", FacilityID: "f-1"}

	require.True(t, rel.IsSameFacility(actor, Equipment{FacilityID: "f-1"}))
	require.True(t, rel.IsSameFacility(actor, &User{FacilityID: "f-1"}))
	require.False(t, rel.IsSameFacility(actor, User{FacilityID: "f-2"}))
	require.False(t, rel.IsSameFacility(actor, Referral{ReferringFacilityID: "f-1"}))
	require.False(t, rel.IsSameFacility(actor, nil))
}

func TestIsOwnRecordAcrossRoles(t *testing.T) {
	rel := Relations{}

	patient := Actor{ID: "u-9", Role: "patient", PatientID: "p-9"}
	require.True(t, rel.IsOwnRecord(patient, Patient{ID: "p-9"}))
	require.False(t, rel.IsOwnRecord(patient, Patient{ID: "p-1"}))
	require.True(t, rel.IsOwnRecord(patient, User{ID: "u-9"}))

	nurse := Actor{ID: "u-2", Role: "nurse"}
	require.True(t, rel.IsOwnRecord(nurse, User{ID: "u-2", Role: "nurse"}))
	require.False(t, rel.IsOwnRecord(nurse, Ambulance{ID: "u-2"}))
}

func TestIsInvolvedDoctorForPatientIgnoresForeignReferrals(t *testing.T) {
	rel := Relations{}
	doctor := Actor{ID: "u-1", Role: "doctor", DoctorID: "d-1"}

	patient := Patient{ID: "p-1", Referrals: []Referral{
		{ID: "r-1", PatientID: "p-2", ReferringDoctorID: "d-1"},
	}}
	require.False(t, rel.IsInvolvedDoctorForPatient(doctor, patient))

	patient.Referrals = append(patient.Referrals, Referral{ID: "r-2", PatientID: "p-1", ReceivingDoctorID: "d-1"})
	require.True(t, rel.IsInvolvedDoctorForPatient(doctor, patient))
}

func TestIsReceivingDoctorInStatusRequiresKnownStatus(t *testing.T) {
	rel := Relations{}
	doctor := Actor{ID: "u-1", Role: "doctor", FacilityID: "f-2"}
	ref := Referral{ReceivingFacilityID: "f-2", Status: "limbo"}

	require.False(t, rel.IsReceivingDoctorInStatus(doctor, ref, []Status{"limbo"}))
	ref.Status = StatusPending
	require.True(t, rel.IsReceivingDoctorInStatus(doctor, ref, []Status{StatusPending}))
	require.False(t, rel.IsReceivingDoctorInStatus(doctor, ref, nil))
}
