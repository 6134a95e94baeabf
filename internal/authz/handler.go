package authz

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medref/medref/internal/platform/httpx"
	"github.com/medref/medref/internal/policy"
)

// Handler exposes the decision API over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: NewValidator(),
	}
}

// MountRoutes registers authz routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/check", h.check)
	r.Get("/permissions/{role}", h.permissions)
}

// CheckResponse is the body returned by POST /authz/check. Allow and Deny
// both answer 200.
type CheckResponse struct {
	Allowed    bool   `json:"allowed"`
	DecisionID string `json:"decision_id"`
}

// PermissionsResponse is the body returned by GET /authz/permissions/{role}.
type PermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := req.Validate(h.validator); err != nil {
		httpx.RespondError(w, validationError(err))
		return
	}
	resource, err := req.Resource.ResourceValue()
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	res := h.service.Check(req.Actor.ActorValue(), policy.Action(req.Action), resource)
	httpx.JSON(w, http.StatusOK, CheckResponse{
		Allowed:    res.Decision.Allowed,
		DecisionID: res.ID.String(),
	})
}

func (h *Handler) permissions(w http.ResponseWriter, r *http.Request) {
	role := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "role")))
	httpx.JSON(w, http.StatusOK, PermissionsResponse{
		Role:        role,
		Permissions: h.service.PermissionsFor(role),
	})
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", httpx.ErrValidation, strings.Join(msgs, "; "))
}
