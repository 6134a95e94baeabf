package policy

import "context"

// Actor is the authenticated principal attempting an action. Optional keys
// are empty strings when absent.
type Actor struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	FacilityID string `json:"facility_id,omitempty"`
	DoctorID   string `json:"doctor_id,omitempty"`
	PatientID  string `json:"patient_id,omitempty"`
}

type actorContextKey struct{}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
