package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/delegateflow/config"
	"github.com/BaSui01/delegateflow/types"
)

func TestReferenceHandler_ListIndustries(t *testing.T) {
	h := NewReferenceHandler(config.DefaultReferenceTable(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/reference", nil)
	w := httptest.NewRecorder()
	h.HandleListIndustries(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []IndustryInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 6)
	// Industries() is sorted, so the listing order is stable
	assert.Equal(t, "education", resp.Data[0].Industry)
}

func TestReferenceHandler_GetIndustry(t *testing.T) {
	h := NewReferenceHandler(config.DefaultReferenceTable(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/reference/healthcare", nil)
	r.SetPathValue("industry", "healthcare")
	w := httptest.NewRecorder()
	h.HandleGetIndustry(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data IndustryInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthcare", resp.Data.Industry)
	assert.True(t, resp.Data.Regulated)
	assert.InDelta(t, 0.25, resp.Data.RiskWeight, 1e-9)
	assert.Contains(t, resp.Data.ComplianceFrameworks, "HIPAA")
}

func TestReferenceHandler_UnknownIndustry(t *testing.T) {
	h := NewReferenceHandler(config.DefaultReferenceTable(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/reference/aerospace", nil)
	r.SetPathValue("industry", "aerospace")
	w := httptest.NewRecorder()
	h.HandleGetIndustry(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrUnknownIndustry), resp.Error.Code)
}

func TestReferenceHandler_MethodNotAllowed(t *testing.T) {
	h := NewReferenceHandler(config.DefaultReferenceTable(), nil)

	r := httptest.NewRequest(http.MethodPost, "/v1/reference", nil)
	w := httptest.NewRecorder()
	h.HandleListIndustries(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
