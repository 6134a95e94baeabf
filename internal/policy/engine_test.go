package policy

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medref/medref/internal/shared"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveDecision(kind, action, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, kind+"."+action+"="+outcome)
}

// sampleResources returns one snapshot per kind with no relationship to the
// actors used in the table-wide tests.
func sampleResources() map[Kind]Resource {
	return map[Kind]Resource{
		KindAmbulance: Ambulance{ID: "amb-1", CrewUserIDs: []string{"crew-1"}},
		KindPatient:   Patient{ID: "p-1"},
		KindReferral: Referral{
			ID:                  "r-1",
			PatientID:           "p-1",
			ReferringFacilityID: "f-1",
			ReceivingFacilityID: "f-2",
			ReferringDoctorID:   "d-1",
			ReceivingDoctorID:   "d-2",
			Status:              StatusAccepted,
		},
		KindUser:      User{ID: "u-target", FacilityID: "f-1", Role: shared.RoleDoctor},
		KindEquipment: Equipment{ID: "eq-1", FacilityID: "f-1", DepartmentID: "dep-1"},
	}
}

func TestDefaultDenyForRolesWithoutClauses(t *testing.T) {
	engine := NewEngine()
	for _, role := range []string{"", "janitor"} {
		actor := Actor{ID: "u-x", Role: role, FacilityID: "f-9"}
		for kind, res := range sampleResources() {
			for _, action := range engine.Actions(kind) {
				d := engine.Decide(actor, action, res)
				require.False(t, d.Allowed, "%q on %s.%s", role, kind, action)
				require.Equal(t, OutcomeDeny, d.Outcome)
				require.Equal(t, -1, d.Clause)
			}
		}
	}
}

func TestEveryKindDeclaresCanonicalActions(t *testing.T) {
	engine := NewEngine()
	for _, kind := range Kinds() {
		for _, action := range []Action{ActionViewAny, ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			require.True(t, engine.Supports(kind, action), "%s.%s", kind, action)
		}
	}
	require.True(t, engine.Supports(KindAmbulance, ActionManageCrew))
	require.True(t, engine.Supports(KindReferral, ActionDispatchAmbulance))
	require.True(t, engine.Supports(KindUser, ActionCreateSuperAdmin))
	require.True(t, engine.Supports(KindPatient, ActionViewMedicalRecords))
	require.False(t, engine.Supports(KindEquipment, ActionAccept))
}

func TestSuperAdminAllowedExceptExplicitExceptions(t *testing.T) {
	engine := NewEngine()
	admin := Actor{ID: "u-admin", Role: shared.RoleSuperAdmin, FacilityID: "f-9"}
	exceptions := map[Kind]map[Action]bool{
		KindReferral: {ActionAccept: true, ActionReject: true},
	}

	for kind, res := range sampleResources() {
		for _, action := range engine.Actions(kind) {
			got := engine.Authorize(admin, action, res)
			require.Equal(t, !exceptions[kind][action], got, "%s.%s", kind, action)
		}
	}

	self := User{ID: admin.ID, FacilityID: "f-9", Role: shared.RoleSuperAdmin}
	require.False(t, engine.Authorize(admin, ActionDelete, self))
	require.False(t, engine.Authorize(admin, ActionForceDelete, self))
	require.False(t, engine.Authorize(admin, ActionUpdateStatus, self))
	require.True(t, engine.Authorize(admin, ActionUpdate, self))
}

func TestAmbulanceViewFollowsCrewMembership(t *testing.T) {
	engine := NewEngine()
	medic := Actor{ID: "u-medic", Role: shared.RoleAmbulanceParamedic}
	amb := Ambulance{ID: "amb-1", CrewUserIDs: []string{"u-driver", "u-medic"}}

	require.True(t, engine.Authorize(medic, ActionView, amb))
	require.True(t, engine.Authorize(medic, ActionViewTracking, amb))
	require.True(t, engine.Authorize(medic, ActionUpdateLocation, amb))

	amb.CrewUserIDs = []string{"u-driver"}
	require.False(t, engine.Authorize(medic, ActionView, amb))
	require.False(t, engine.Authorize(medic, ActionUpdateLocation, amb))

	for _, role := range []string{shared.RoleSuperAdmin, shared.RoleHospitalAdmin, shared.RoleDispatcher} {
		require.True(t, engine.Authorize(Actor{ID: "u-1", Role: role}, ActionView, amb), role)
	}
	require.False(t, engine.Authorize(Actor{ID: "u-1", Role: shared.RoleDoctor}, ActionView, amb))
	// Crew membership does not grant crew management.
	require.False(t, engine.Authorize(Actor{ID: "u-driver", Role: shared.RoleAmbulanceDriver}, ActionManageCrew, amb))
}

func TestReferralAcceptIsStatusGated(t *testing.T) {
	engine := NewEngine()
	doctor := Actor{ID: "u-d2", Role: shared.RoleDoctor, DoctorID: "d-2", FacilityID: "f-2"}
	ref := Referral{ID: "r-1", ReferringFacilityID: "f-1", ReceivingFacilityID: "f-2", ReferringDoctorID: "d-1", Status: StatusPending}

	require.True(t, engine.Authorize(doctor, ActionAccept, ref))
	ref.Status = StatusAccepted
	require.False(t, engine.Authorize(doctor, ActionAccept, ref))

	// Same facility but wrong role.
	ref.Status = StatusPending
	nurse := Actor{ID: "u-n2", Role: shared.RoleNurse, FacilityID: "f-2"}
	require.False(t, engine.Authorize(nurse, ActionAccept, ref))
	// Doctor at the referring facility.
	require.False(t, engine.Authorize(Actor{ID: "u-d1", Role: shared.RoleDoctor, DoctorID: "d-1", FacilityID: "f-1"}, ActionAccept, ref))
}

func TestReferralRejectWindow(t *testing.T) {
	engine := NewEngine()
	doctor := Actor{ID: "u-d2", Role: shared.RoleDoctor, FacilityID: "f-2"}
	for _, status := range Statuses() {
		ref := Referral{ReceivingFacilityID: "f-2", Status: status}
		want := status == StatusPending || status == StatusInReview
		require.Equal(t, want, engine.Authorize(doctor, ActionReject, ref), status)
	}
}

func TestReferralUpdateByDoctorDependsOnSideAndStatus(t *testing.T) {
	engine := NewEngine()
	referring := Actor{ID: "u-d1", Role: shared.RoleDoctor, DoctorID: "d-1", FacilityID: "f-1"}
	receiving := Actor{ID: "u-d2", Role: shared.RoleDoctor, DoctorID: "d-2", FacilityID: "f-2"}
	ref := Referral{ReferringFacilityID: "f-1", ReceivingFacilityID: "f-2", ReferringDoctorID: "d-1", ReceivingDoctorID: "d-2"}

	cases := []struct {
		status    Status
		referring bool
		receiving bool
	}{
		{StatusDraft, false, false},
		{StatusPending, true, false},
		{StatusInReview, true, false},
		{StatusAccepted, false, true},
		{StatusInProgress, false, true},
		{StatusCompleted, false, false},
		{StatusRejected, false, false},
		{StatusCancelled, false, false},
	}
	for _, tc := range cases {
		ref.Status = tc.status
		require.Equal(t, tc.referring, engine.Authorize(referring, ActionUpdate, ref), "referring %s", tc.status)
		require.Equal(t, tc.receiving, engine.Authorize(receiving, ActionUpdate, ref), "receiving %s", tc.status)
	}

	nurse := Actor{ID: "u-n1", Role: shared.RoleNurse, FacilityID: "f-1"}
	ref.Status = StatusCompleted
	require.True(t, engine.Authorize(nurse, ActionUpdate, ref))
	nurse.FacilityID = "f-3"
	require.False(t, engine.Authorize(nurse, ActionUpdate, ref))
}

func TestReferralViewAnyDenyList(t *testing.T) {
	engine := NewEngine()
	for _, role := range shared.KnownRoles() {
		got := engine.Authorize(Actor{ID: "u-1", Role: role}, ActionViewAny, Referral{})
		require.Equal(t, role != shared.RolePatient, got, role)
	}
	require.False(t, engine.Authorize(Actor{ID: "u-1", Role: "auditor"}, ActionViewAny, Referral{}))
}

func TestUserSelfUpdateForEveryRole(t *testing.T) {
	engine := NewEngine()
	roles := append(shared.KnownRoles(), "auditor")
	for _, role := range roles {
		u := User{ID: "u-self", FacilityID: "f-1", Role: role}
		actor := Actor{ID: "u-self", Role: role, FacilityID: "f-1", PatientID: "p-self"}
		require.True(t, engine.Authorize(actor, ActionUpdate, u), role)
		require.False(t, engine.Authorize(actor, ActionDelete, u), role)
		require.False(t, engine.Authorize(actor, ActionUpdateStatus, u), role)
	}
}

func TestUserUpdateProtectsSuperAdmins(t *testing.T) {
	engine := NewEngine()
	admin := Actor{ID: "u-a", Role: shared.RoleSuperAdmin}
	hospital := Actor{ID: "u-h", Role: shared.RoleHospitalAdmin, FacilityID: "f-1"}
	otherAdmin := User{ID: "u-b", FacilityID: "f-1", Role: shared.RoleSuperAdmin}

	require.False(t, engine.Authorize(admin, ActionUpdate, otherAdmin))
	require.False(t, engine.Authorize(hospital, ActionUpdate, otherAdmin))
	require.False(t, engine.Authorize(admin, ActionDelete, otherAdmin))
	require.False(t, engine.Authorize(admin, ActionForceDelete, otherAdmin))
	require.False(t, engine.Authorize(admin, ActionResetPassword, otherAdmin))
	require.True(t, engine.Authorize(admin, ActionUpdateStatus, otherAdmin))

	staff := User{ID: "u-n", FacilityID: "f-1", Role: shared.RoleNurse}
	require.True(t, engine.Authorize(hospital, ActionUpdate, staff))
	require.True(t, engine.Authorize(hospital, ActionDelete, staff))
	require.True(t, engine.Authorize(hospital, ActionUpdateStatus, staff))
	require.False(t, engine.Authorize(hospital, ActionForceDelete, staff))

	staff.FacilityID = "f-2"
	require.False(t, engine.Authorize(hospital, ActionUpdate, staff))
	require.False(t, engine.Authorize(hospital, ActionDelete, staff))
	require.False(t, engine.Authorize(hospital, ActionView, staff))
}

func TestUserSelfExclusionFailsClosedOnMissingIDs(t *testing.T) {
	engine := NewEngine()
	target := User{ID: "u-n", FacilityID: "f-1", Role: shared.RoleNurse}

	anonymousAdmin := Actor{Role: shared.RoleSuperAdmin}
	require.False(t, engine.Authorize(anonymousAdmin, ActionDelete, target))
	require.False(t, engine.Authorize(anonymousAdmin, ActionUpdateStatus, target))

	admin := Actor{ID: "u-a", Role: shared.RoleSuperAdmin}
	require.False(t, engine.Authorize(admin, ActionForceDelete, User{Role: shared.RoleNurse}))
	require.True(t, engine.Authorize(admin, ActionForceDelete, target))
}

func TestPatientMedicalRecordsNarrowerThanView(t *testing.T) {
	engine := NewEngine()
	patient := Patient{ID: "p-1", Referrals: []Referral{{ID: "r-1", PatientID: "p-1", ReferringDoctorID: "d-1"}}}
	nurse := Actor{ID: "u-n", Role: shared.RoleNurse, FacilityID: "f-1"}

	require.True(t, engine.Authorize(nurse, ActionView, patient))
	require.False(t, engine.Authorize(nurse, ActionViewMedicalRecords, patient))

	involved := Actor{ID: "u-d1", Role: shared.RoleDoctor, DoctorID: "d-1"}
	stranger := Actor{ID: "u-d9", Role: shared.RoleDoctor, DoctorID: "d-9"}
	require.True(t, engine.Authorize(involved, ActionViewMedicalRecords, patient))
	require.False(t, engine.Authorize(stranger, ActionViewMedicalRecords, patient))

	self := Actor{ID: "u-p1", Role: shared.RolePatient, PatientID: "p-1"}
	other := Actor{ID: "u-p2", Role: shared.RolePatient, PatientID: "p-2"}
	require.True(t, engine.Authorize(self, ActionViewMedicalRecords, patient))
	require.True(t, engine.Authorize(self, ActionView, patient))
	require.False(t, engine.Authorize(other, ActionViewMedicalRecords, patient))
	require.False(t, engine.Authorize(other, ActionView, patient))

	require.True(t, engine.Authorize(Actor{ID: "u-h", Role: shared.RoleHospitalAdmin}, ActionViewMedicalRecords, patient))
}

func TestCrossFacilityReferralScenario(t *testing.T) {
	engine := NewEngine()
	d1 := Actor{ID: "u-d1", Role: shared.RoleDoctor, DoctorID: "d-1", FacilityID: "F1"}
	d2 := Actor{ID: "u-d2", Role: shared.RoleDoctor, DoctorID: "d-2", FacilityID: "F2"}
	nurseF1 := Actor{ID: "u-n1", Role: shared.RoleNurse, FacilityID: "F1"}
	nurseF3 := Actor{ID: "u-n3", Role: shared.RoleNurse, FacilityID: "F3"}

	require.True(t, engine.Authorize(d1, ActionCreate, Referral{}))

	ref := Referral{
		ID:                  "r-1",
		PatientID:           "p-1",
		ReferringFacilityID: "F1",
		ReceivingFacilityID: "F2",
		ReferringDoctorID:   "d-1",
		Status:              StatusPending,
	}
	require.True(t, engine.Authorize(d2, ActionAccept, ref))

	ref.Status = StatusAccepted
	ref.ReceivingDoctorID = "d-2"
	require.False(t, engine.Authorize(d2, ActionAccept, ref))

	require.True(t, engine.Authorize(nurseF1, ActionView, ref))
	require.False(t, engine.Authorize(nurseF3, ActionView, ref))
}

func TestEquipmentFacilityScoping(t *testing.T) {
	engine := NewEngine()
	eq := Equipment{ID: "eq-1", FacilityID: "f-1", DepartmentID: "icu"}

	require.True(t, engine.Authorize(Actor{ID: "u-1", Role: shared.RoleNurse, FacilityID: "f-1"}, ActionView, eq))
	require.False(t, engine.Authorize(Actor{ID: "u-1", Role: shared.RoleNurse, FacilityID: "f-2"}, ActionView, eq))
	require.False(t, engine.Authorize(Actor{ID: "u-1", Role: shared.RoleNurse, FacilityID: "f-1"}, ActionUpdate, eq))
	require.True(t, engine.Authorize(Actor{ID: "u-2", Role: shared.RoleHospitalAdmin, FacilityID: "f-1"}, ActionDelete, eq))
	require.False(t, engine.Authorize(Actor{ID: "u-2", Role: shared.RoleHospitalAdmin}, ActionDelete, eq))
}

func TestUnrecognizedActionIsFlagged(t *testing.T) {
	var buf bytes.Buffer
	observer := &recordingObserver{}
	engine := NewEngine(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithObserver(observer),
	)
	admin := Actor{ID: "u-a", Role: shared.RoleSuperAdmin}

	d := engine.Decide(admin, "teleport", Ambulance{ID: "amb-1"})
	require.False(t, d.Allowed)
	require.Equal(t, OutcomeMisconfigured, d.Outcome)
	require.True(t, errors.Is(d.Err, ErrUnrecognizedAction))
	require.Contains(t, buf.String(), "policy configuration defect")
	require.Contains(t, buf.String(), "teleport")

	require.True(t, engine.Authorize(admin, ActionView, Ambulance{ID: "amb-1"}))
	require.Equal(t, []string{
		"ambulance.unrecognized=misconfigured",
		"ambulance.view=allow",
	}, observer.outcomes)
}

func TestUnknownResourceIsFlagged(t *testing.T) {
	engine := NewEngine()
	admin := Actor{ID: "u-a", Role: shared.RoleSuperAdmin}

	d := engine.Decide(admin, ActionView, nil)
	require.Equal(t, OutcomeMisconfigured, d.Outcome)
	require.True(t, errors.Is(d.Err, ErrUnknownResource))

	var amb *Ambulance
	require.False(t, engine.Authorize(admin, ActionView, amb))
	require.True(t, engine.Authorize(admin, ActionView, &Ambulance{ID: "amb-1"}))
}

func TestDescribeListsEveryClause(t *testing.T) {
	engine := NewEngine()
	rows := engine.Describe()
	require.NotEmpty(t, rows)

	var acceptRows []Row
	for _, row := range rows {
		if row.Kind == KindReferral && row.Action == ActionAccept {
			acceptRows = append(acceptRows, row)
		}
	}
	require.Len(t, acceptRows, 1)
	require.Equal(t, "doctor", acceptRows[0].Roles)
	require.Equal(t, "receiving_doctor_in(pending)", acceptRows[0].Predicate)

	for i := 1; i < len(rows); i++ {
		require.LessOrEqual(t, rows[i-1].Kind, rows[i].Kind)
	}
}

type denyCrewResolver struct{ Relations }

func (denyCrewResolver) IsCrewOf(Actor, Ambulance) bool { return false }

func TestInjectedResolverIsConsulted(t *testing.T) {
	medic := Actor{ID: "u-medic", Role: shared.RoleAmbulanceParamedic}
	amb := Ambulance{ID: "amb-1", CrewUserIDs: []string{"u-medic"}}

	require.True(t, NewEngine().Authorize(medic, ActionView, amb))
	require.False(t, NewEngine(WithResolver(denyCrewResolver{})).Authorize(medic, ActionView, amb))
}

func TestAuthorizeIsSafeForConcurrentUse(t *testing.T) {
	engine := NewEngine()
	medic := Actor{ID: "u-medic", Role: shared.RoleAmbulanceParamedic}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			crew := []string{"u-other"}
			if i%2 == 0 {
				crew = append(crew, medic.ID)
			}
			got := engine.Authorize(medic, ActionView, Ambulance{ID: "amb", CrewUserIDs: crew})
			if got != (i%2 == 0) {
				t.Errorf("goroutine %d: got %v", i, got)
			}
		}(i)
	}
	wg.Wait()
}

func TestNotOfNilPredicateFailsClosed(t *testing.T) {
	p := Not(nil)
	require.Equal(t, "not(nil)", p.Name)

	c := Clause{Roles: Anyone(), Predicate: p}
	require.False(t, c.matches(Relations{}, Actor{ID: "u-1", Role: shared.RoleDoctor}, User{ID: "u-2"}))
}
