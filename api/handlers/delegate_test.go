package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/delegateflow/catalog"
	"github.com/BaSui01/delegateflow/planner"
	"github.com/BaSui01/delegateflow/types"
)

func testHandlerAgent(id string, availability, performance float64, specialization string) types.Agent {
	return types.Agent{
		ID:             id,
		Name:           id,
		Type:           types.AgentAI,
		Specialization: specialization,
		Availability:   availability,
		Performance:    performance,
		Capabilities:   map[string]float64{specialization: 0.9},
	}
}

func newDelegateHandler(t *testing.T, agents ...types.Agent) *DelegateHandler {
	t.Helper()
	cat := catalog.NewMemoryCatalog(nil)
	for _, agent := range agents {
		require.NoError(t, cat.Register(context.Background(), "retail", agent))
	}
	return NewDelegateHandler(planner.NewOrchestrator(cat, nil, nil), nil)
}

func TestDelegateHandler_Success(t *testing.T) {
	h := newDelegateHandler(t,
		testHandlerAgent("agent-1", 0.9, 0.8, "diagnosis"),
		testHandlerAgent("agent-2", 0.5, 0.5, "welding"),
	)

	body := `{
		"type": "diagnosis",
		"industry": "retail",
		"complexity": "medium",
		"priority": "medium",
		"data_size": "small"
	}`
	r := httptest.NewRequest(http.MethodPost, "/v1/tasks/delegate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleDelegate(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    types.DelegationDecision `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "agent-1", resp.Data.SelectedAgent.ID)
	assert.NotEmpty(t, resp.Data.TaskID)
	assert.NotEmpty(t, resp.Data.Reasoning)
	assert.Len(t, resp.Data.AlternativeAgents, 1)
	assert.Nil(t, resp.Data.CoordinationPlan)
}

func TestDelegateHandler_ValidationError(t *testing.T) {
	h := newDelegateHandler(t, testHandlerAgent("agent-1", 0.9, 0.8, "diagnosis"))

	body := `{"type": "diagnosis", "complexity": "medium", "priority": "medium"}`
	r := httptest.NewRequest(http.MethodPost, "/v1/tasks/delegate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleDelegate(w, r)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrValidation), resp.Error.Code)
	assert.Equal(t, "industry", resp.Error.Field)
}

func TestDelegateHandler_UnknownIndustry(t *testing.T) {
	h := newDelegateHandler(t, testHandlerAgent("agent-1", 0.9, 0.8, "diagnosis"))

	body := `{"type": "diagnosis", "industry": "aerospace", "complexity": "medium", "priority": "medium"}`
	r := httptest.NewRequest(http.MethodPost, "/v1/tasks/delegate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleDelegate(w, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDelegateHandler_NoCandidates(t *testing.T) {
	h := newDelegateHandler(t) // empty catalog

	body := `{"type": "diagnosis", "industry": "retail", "complexity": "medium", "priority": "medium"}`
	r := httptest.NewRequest(http.MethodPost, "/v1/tasks/delegate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleDelegate(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrNoCandidateAgents), resp.Error.Code)
}

func TestDelegateHandler_MalformedBody(t *testing.T) {
	h := newDelegateHandler(t, testHandlerAgent("agent-1", 0.9, 0.8, "diagnosis"))

	r := httptest.NewRequest(http.MethodPost, "/v1/tasks/delegate", strings.NewReader("{oops"))
	w := httptest.NewRecorder()
	h.HandleDelegate(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelegateHandler_MethodNotAllowed(t *testing.T) {
	h := newDelegateHandler(t, testHandlerAgent("agent-1", 0.9, 0.8, "diagnosis"))

	r := httptest.NewRequest(http.MethodGet, "/v1/tasks/delegate", nil)
	w := httptest.NewRecorder()
	h.HandleDelegate(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
