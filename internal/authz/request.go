package authz

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/medref/medref/internal/policy"
)

// CheckRequest is the body of POST /authz/check.
type CheckRequest struct {
	Actor    ActorInput    `json:"actor"`
	Action   string        `json:"action" validate:"required,max=64"`
	Resource ResourceInput `json:"resource"`
}

// ActorInput mirrors policy.Actor on the wire.
type ActorInput struct {
	ID         string `json:"id" validate:"required,max=128"`
	Role       string `json:"role" validate:"required,max=64"`
	FacilityID string `json:"facility_id,omitempty" validate:"max=128"`
	DoctorID   string `json:"doctor_id,omitempty" validate:"max=128"`
	PatientID  string `json:"patient_id,omitempty" validate:"max=128"`
}

// ResourceInput is a flat union of the resource snapshots. Kind selects
// which fields are read.
type ResourceInput struct {
	Kind string `json:"kind" validate:"required,resource_kind"`
	ID   string `json:"id" validate:"max=128"`

	// ambulance
	CrewUserIDs []string `json:"crew_user_ids,omitempty" validate:"max=64,dive,max=128"`

	// patient
	Referrals []ReferralInput `json:"referrals,omitempty" validate:"max=256,dive"`

	// referral
	ReferralInput `validate:"-"`

	// user and equipment
	FacilityID   string `json:"facility_id,omitempty" validate:"max=128"`
	Role         string `json:"role,omitempty" validate:"max=64"`
	DepartmentID string `json:"department_id,omitempty" validate:"max=128"`
}

// ReferralInput mirrors policy.Referral on the wire.
type ReferralInput struct {
	ReferralID          string `json:"referral_id,omitempty" validate:"max=128"`
	PatientID           string `json:"patient_id,omitempty" validate:"max=128"`
	ReferringFacilityID string `json:"referring_facility_id,omitempty" validate:"max=128"`
	ReceivingFacilityID string `json:"receiving_facility_id,omitempty" validate:"max=128"`
	ReferringDoctorID   string `json:"referring_doctor_id,omitempty" validate:"max=128"`
	ReceivingDoctorID   string `json:"receiving_doctor_id,omitempty" validate:"max=128"`
	Status              string `json:"status,omitempty" validate:"omitempty,referral_status"`
}

// NewValidator returns a validator with the resource_kind and
// referral_status tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("resource_kind", func(fl validator.FieldLevel) bool {
		kind := policy.Kind(fl.Field().String())
		for _, k := range policy.Kinds() {
			if k == kind {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("referral_status", func(fl validator.FieldLevel) bool {
		return policy.Status(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the request including the embedded referral fields.
func (req CheckRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(req); err != nil {
		return err
	}
	if policy.Kind(req.Resource.Kind) == policy.KindReferral {
		return v.Struct(req.Resource.ReferralInput)
	}
	return nil
}

// ActorValue converts the wire actor.
func (a ActorInput) ActorValue() policy.Actor {
	return policy.Actor{
		ID:         strings.TrimSpace(a.ID),
		Role:       strings.ToLower(strings.TrimSpace(a.Role)),
		FacilityID: a.FacilityID,
		DoctorID:   a.DoctorID,
		PatientID:  a.PatientID,
	}
}

func (in ReferralInput) referral(id string) policy.Referral {
	if id == "" {
		id = in.ReferralID
	}
	return policy.Referral{
		ID:                  id,
		PatientID:           in.PatientID,
		ReferringFacilityID: in.ReferringFacilityID,
		ReceivingFacilityID: in.ReceivingFacilityID,
		ReferringDoctorID:   in.ReferringDoctorID,
		ReceivingDoctorID:   in.ReceivingDoctorID,
		Status:              policy.Status(in.Status),
	}
}

// ResourceValue converts the wire resource into its policy snapshot.
func (in ResourceInput) ResourceValue() (policy.Resource, error) {
	switch policy.Kind(in.Kind) {
	case policy.KindAmbulance:
		return policy.Ambulance{ID: in.ID, CrewUserIDs: append([]string(nil), in.CrewUserIDs...)}, nil
	case policy.KindPatient:
		p := policy.Patient{ID: in.ID}
		for _, r := range in.Referrals {
			p.Referrals = append(p.Referrals, r.referral(""))
		}
		return p, nil
	case policy.KindReferral:
		return in.ReferralInput.referral(in.ID), nil
	case policy.KindUser:
		return policy.User{ID: in.ID, FacilityID: in.FacilityID, Role: strings.ToLower(in.Role)}, nil
	case policy.KindEquipment:
		return policy.Equipment{ID: in.ID, FacilityID: in.FacilityID, DepartmentID: in.DepartmentID}, nil
	}
	return nil, fmt.Errorf("%w: %q", policy.ErrUnknownResource, in.Kind)
}
