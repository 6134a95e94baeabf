package rbac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/medref/medref/internal/policy"
	"github.com/medref/medref/internal/shared"
)

func TestPermissionsHandlerListsCatalogForAdmins(t *testing.T) {
	service := NewService(NewRegistry(DefaultTable()), nil, nil)
	h := NewPermissionsHandler(nil, service, Middleware{Service: service})
	r := chi.NewRouter()
	r.Route("/permissions", h.MountRoutes)

	get := func(path string, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req = req.WithContext(policy.ContextWithActor(req.Context(), policy.Actor{ID: "u-1", Role: role}))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := get("/permissions/", shared.RoleSuperAdmin)
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Permissions []Permission `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Permissions, len(shared.AllScopes()))

	rr = get("/permissions/categories", shared.RoleSuperAdmin)
	require.Equal(t, http.StatusOK, rr.Code)
	var grouped struct {
		Categories []CategoryGroup `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grouped))
	require.Len(t, grouped.Categories, len(shared.Categories()))

	require.Equal(t, http.StatusForbidden, get("/permissions/", shared.RoleNurse).Code)
}
