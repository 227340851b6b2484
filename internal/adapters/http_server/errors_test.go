package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue_booking/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.Errorf(domain.ErrNotFound, "Venue not found"), http.StatusNotFound},
		{domain.Errorf(domain.ErrConflict, "User already exists"), http.StatusConflict},
		{domain.Invalid("bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrUnauthorized), http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("dial tcp 10.0.0.3:3306: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, envelope{Code: 500, Status: "error", Message: "Internal server error"}, body)
}

func TestWriteError_UsesDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("service: %w", domain.Errorf(domain.ErrNotFound, "Booking not found"))
	writeError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"code":404,"status":"error","message":"Booking not found"}`, rec.Body.String())
}

func TestCalcETag_StableForSameBody(t *testing.T) {
	a, body := calcETagAndBody(map[string]int{"id": 1})
	b, _ := calcETagAndBody(map[string]int{"id": 1})
	c, _ := calcETagAndBody(map[string]int{"id": 2})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^W/"[0-9a-f]{40}"$`, a)
	assert.JSONEq(t, `{"id":1}`, string(body))
}
