package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/delegateflow/types"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]int{"count": 3})

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        *types.Error
		wantStatus int
	}{
		{
			name:       "validation maps to 422",
			err:        types.NewValidationError("industry", "industry is required"),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no candidates maps to 404",
			err:        types.NewError(types.ErrNoCandidateAgents, "no agents"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "reservation conflict maps to 409",
			err:        types.NewError(types.ErrReservationConflict, "fully booked"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "explicit status wins over the mapping",
			err:        types.NewError(types.ErrUnknownIndustry, "nope").WithHTTPStatus(http.StatusNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unmapped code falls back to 500",
			err:        types.NewError("SOMETHING_ELSE", "boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err, zap.NewNop())

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(tt.err.Code), resp.Error.Code)
			assert.Equal(t, tt.err.Field, resp.Error.Field)
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		w := httptest.NewRecorder()

		var dst payload
		require.NoError(t, DecodeJSONBody(w, r, &dst, zap.NewNop()))
		assert.Equal(t, "x", dst.Name)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
		w := httptest.NewRecorder()

		var dst payload
		require.Error(t, DecodeJSONBody(w, r, &dst, zap.NewNop()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()

		var dst payload
		require.Error(t, DecodeJSONBody(w, r, &dst, zap.NewNop()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK) // second call must not overwrite

	assert.Equal(t, http.StatusTeapot, rw.StatusCode)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestResponseWriter_WriteDefaultsTo200(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	_, err := rw.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.StatusCode)
	assert.True(t, rw.Written)
}
