package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/delegateflow/config"
	"github.com/BaSui01/delegateflow/types"
)

// =============================================================================
// Industry Reference Handler
// =============================================================================

// ReferenceHandler exposes the read-only industry reference table so
// operators can verify what compliance data a deployment is running
// with. The table itself is swapped by configuration, never over HTTP.
type ReferenceHandler struct {
	ref    *config.ReferenceTable
	logger *zap.Logger
}

// NewReferenceHandler creates a reference handler.
func NewReferenceHandler(ref *config.ReferenceTable, logger *zap.Logger) *ReferenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceHandler{
		ref:    ref,
		logger: logger.With(zap.String("component", "reference_handler")),
	}
}

// IndustryInfo is one reference entry with its industry name attached.
type IndustryInfo struct {
	Industry string `json:"industry"`
	config.IndustryReference
}

// HandleListIndustries handles GET /v1/reference.
func (h *ReferenceHandler) HandleListIndustries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	industries := h.ref.Industries()
	infos := make([]IndustryInfo, 0, len(industries))
	for _, industry := range industries {
		ref, ok := h.ref.Lookup(industry)
		if !ok {
			continue
		}
		infos = append(infos, IndustryInfo{Industry: industry, IndustryReference: ref})
	}

	WriteSuccess(w, infos)
}

// HandleGetIndustry handles GET /v1/reference/{industry}.
func (h *ReferenceHandler) HandleGetIndustry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	industry := r.PathValue("industry")
	ref, ok := h.ref.Lookup(industry)
	if !ok {
		WriteError(w, types.NewError(types.ErrUnknownIndustry,
			fmt.Sprintf("unknown industry %q", industry)).
			WithField("industry").
			WithHTTPStatus(http.StatusNotFound), h.logger)
		return
	}

	WriteSuccess(w, IndustryInfo{Industry: industry, IndustryReference: ref})
}
