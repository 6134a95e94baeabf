package authz

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/policy"
	"github.com/medref/medref/internal/rbac"
)

// Service is the decision API. Authorize answers resource-scoped questions
// from the policy engine and PermissionsFor answers coarse capability
// questions from the live role table. The two never consult each other.
type Service struct {
	engine *policy.Engine
	roles  *rbac.Service
	logger *slog.Logger
}

// Result is a decision tagged with a correlation id.
type Result struct {
	ID       uuid.UUID
	Decision policy.Decision
}

// NewService wires the decision API.
func NewService(engine *policy.Engine, roles *rbac.Service, logger *slog.Logger) *Service {
	return &Service{engine: engine, roles: roles, logger: logger}
}

// Authorize reports whether actor may perform action on resource.
func (s *Service) Authorize(actor policy.Actor, action policy.Action, resource policy.Resource) bool {
	return s.engine.Authorize(actor, action, resource)
}

// Check evaluates a decision and assigns it a correlation id. The id and
// outcome are logged at debug level; resource identifiers are not.
func (s *Service) Check(actor policy.Actor, action policy.Action, resource policy.Resource) Result {
	res := Result{ID: uuid.New(), Decision: s.engine.Decide(actor, action, resource)}
	if s.logger != nil {
		s.logger.Debug("authz decision",
			slog.String("decision_id", res.ID.String()),
			slog.String("actor", actor.ID),
			slog.String("role", actor.Role),
			slog.String("kind", string(res.Decision.Kind)),
			slog.String("action", string(action)),
			slog.String("outcome", string(res.Decision.Outcome)))
	}
	return res
}

// PermissionsFor returns the permission set for a role slug. Unknown roles
// yield an empty set.
func (s *Service) PermissionsFor(role string) []string {
	return s.roles.PermissionsFor(role)
}
