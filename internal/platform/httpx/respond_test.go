package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorHidesForbiddenDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("%w: referral r-1 belongs to F2", ErrForbidden))

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	require.NotContains(t, rr.Body.String(), "r-1")
}

func TestRespondErrorDefaultsToInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "boom")
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var target struct {
		Action string `json:"action"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"view","extra":1}`))
	err := DecodeJSON(httptest.NewRecorder(), req, &target)
	require.ErrorIs(t, err, ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"view"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &target))
	require.Equal(t, "view", target.Action)
}
