package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/delegateflow/catalog"
	"github.com/BaSui01/delegateflow/internal/metrics"
	"github.com/BaSui01/delegateflow/types"
)

// =============================================================================
// Agent Catalog Handler
// =============================================================================

// AgentHandler manages the agent catalog over HTTP. Registrations apply
// to the in-memory catalog first and are persisted through the store
// when one is attached; the persisted copy only matters across restarts.
type AgentHandler struct {
	catalog   *catalog.MemoryCatalog
	store     *catalog.Store
	reserver  *catalog.Reserver
	collector *metrics.Collector
	logger    *zap.Logger
}

// NewAgentHandler creates an agent catalog handler. Store, reserver and
// collector may be nil; the matching endpoints degrade accordingly.
func NewAgentHandler(cat *catalog.MemoryCatalog, store *catalog.Store, reserver *catalog.Reserver, collector *metrics.Collector, logger *zap.Logger) *AgentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentHandler{
		catalog:   cat,
		store:     store,
		reserver:  reserver,
		collector: collector,
		logger:    logger.With(zap.String("component", "agent_handler")),
	}
}

// RegisterAgentRequest is the registration request body.
type RegisterAgentRequest struct {
	Industry string      `json:"industry"`
	Agent    types.Agent `json:"agent"`
}

// AgentListing is one catalog entry in list responses.
type AgentListing struct {
	Industry string      `json:"industry"`
	Agent    types.Agent `json:"agent"`
}

// ReserveRequest is the capacity reservation request body.
type ReserveRequest struct {
	Capacity int `json:"capacity"`
}

// ReserveResponse reports the reservation state after a reserve or
// release call.
type ReserveResponse struct {
	AgentID  string `json:"agent_id"`
	Reserved int    `json:"reserved"`
}

// HandleAgents handles GET and POST /v1/agents.
func (h *AgentHandler) HandleAgents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listAgents(w, r)
	case http.MethodPost:
		h.registerAgent(w, r)
	default:
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
	}
}

// listAgents lists registered agents, optionally filtered by the
// industry query parameter.
func (h *AgentHandler) listAgents(w http.ResponseWriter, r *http.Request) {
	snap, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		WriteErrorMessage(w, http.StatusServiceUnavailable, types.ErrServiceUnavailable,
			"agent catalog unavailable", h.logger)
		return
	}

	industries := snap.Industries()
	if industry := r.URL.Query().Get("industry"); industry != "" {
		industries = []string{industry}
	}

	listings := make([]AgentListing, 0)
	for _, industry := range industries {
		for _, agent := range snap.ByIndustry(industry) {
			listings = append(listings, AgentListing{Industry: industry, Agent: agent})
		}
	}

	WriteSuccess(w, listings)
}

// registerAgent registers a new agent in the catalog.
func (h *AgentHandler) registerAgent(w http.ResponseWriter, r *http.Request) {
	var req RegisterAgentRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if err := h.catalog.Register(r.Context(), req.Industry, req.Agent); err != nil {
		h.writeStructured(w, err)
		return
	}

	if h.store != nil {
		if err := h.store.SaveAgent(r.Context(), req.Industry, req.Agent); err != nil {
			// the live catalog already has the agent; losing the
			// durable copy only affects restarts
			h.logger.Warn("failed to persist agent",
				zap.String("agent_id", req.Agent.ID),
				zap.Error(err),
			)
		}
	}

	h.updateCatalogGauges(r)

	h.logger.Info("agent registered",
		zap.String("agent_id", req.Agent.ID),
		zap.String("industry", req.Industry),
	)
	WriteJSON(w, http.StatusCreated, Response{
		Success:   true,
		Data:      AgentListing{Industry: req.Industry, Agent: req.Agent},
		Timestamp: time.Now(),
	})
}

// HandleAgentByID handles DELETE /v1/agents/{id}.
func (h *AgentHandler) HandleAgentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	agentID := r.PathValue("id")
	if err := h.catalog.Deregister(r.Context(), agentID); err != nil {
		h.writeStructured(w, err)
		return
	}

	if h.store != nil {
		if err := h.store.DeleteAgent(r.Context(), agentID); err != nil && types.GetErrorCode(err) != types.ErrAgentNotFound {
			h.logger.Warn("failed to delete persisted agent",
				zap.String("agent_id", agentID),
				zap.Error(err),
			)
		}
	}

	h.updateCatalogGauges(r)
	WriteSuccess(w, map[string]string{"agent_id": agentID})
}

// HandleReserve handles POST /v1/agents/{id}/reserve.
func (h *AgentHandler) HandleReserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}
	if h.reserver == nil {
		WriteErrorMessage(w, http.StatusServiceUnavailable, types.ErrServiceUnavailable,
			"capacity reservation requires redis", h.logger)
		return
	}

	agentID := r.PathValue("id")
	if _, _, err := h.catalog.Get(r.Context(), agentID); err != nil {
		h.writeStructured(w, err)
		return
	}

	var req ReserveRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if err := h.reserver.Reserve(r.Context(), agentID, req.Capacity); err != nil {
		if h.collector != nil {
			outcome := "error"
			if types.GetErrorCode(err) == types.ErrReservationConflict {
				outcome = "conflict"
			}
			h.collector.RecordReservation(outcome)
		}
		h.writeStructured(w, err)
		return
	}
	if h.collector != nil {
		h.collector.RecordReservation("reserved")
	}

	reserved, err := h.reserver.Reserved(r.Context(), agentID)
	if err != nil {
		h.writeStructured(w, err)
		return
	}
	WriteSuccess(w, ReserveResponse{AgentID: agentID, Reserved: reserved})
}

// HandleRelease handles POST /v1/agents/{id}/release.
func (h *AgentHandler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}
	if h.reserver == nil {
		WriteErrorMessage(w, http.StatusServiceUnavailable, types.ErrServiceUnavailable,
			"capacity reservation requires redis", h.logger)
		return
	}

	agentID := r.PathValue("id")
	if err := h.reserver.Release(r.Context(), agentID); err != nil {
		h.writeStructured(w, err)
		return
	}

	reserved, err := h.reserver.Reserved(r.Context(), agentID)
	if err != nil {
		h.writeStructured(w, err)
		return
	}
	WriteSuccess(w, ReserveResponse{AgentID: agentID, Reserved: reserved})
}

func (h *AgentHandler) writeStructured(w http.ResponseWriter, err error) {
	var derr *types.Error
	if errors.As(err, &derr) {
		WriteError(w, derr, h.logger)
		return
	}
	WriteErrorMessage(w, http.StatusInternalServerError, types.ErrInternalError, err.Error(), h.logger)
}

func (h *AgentHandler) updateCatalogGauges(r *http.Request) {
	if h.collector == nil {
		return
	}
	snap, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		return
	}
	for _, industry := range snap.Industries() {
		h.collector.SetCatalogAgents(industry, len(snap.ByIndustry(industry)))
	}
}
