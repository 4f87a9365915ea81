package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"fitness-backend/internal/apperrors"
)

func TestJSONEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]int{"id": 7})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "success", body.Message)
	require.Equal(t, 7, body.Data["id"])
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.Invalid("bad input"), http.StatusBadRequest},
		{apperrors.Unauthorized("who are you"), http.StatusUnauthorized},
		{apperrors.Forbidden("no"), http.StatusForbidden},
		{apperrors.NotFound("gone"), http.StatusNotFound},
		{apperrors.Conflict("already"), http.StatusConflict},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		Error(w, tc.err)
		require.Equal(t, tc.code, w.Code)
	}
}

func TestErrorHidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, errors.New("pq: connection refused at 10.0.0.5"))

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "internal server error", body.Message)
}
