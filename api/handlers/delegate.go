package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/delegateflow/planner"
	"github.com/BaSui01/delegateflow/types"
)

// =============================================================================
// Task Delegation Handler
// =============================================================================

// DelegateHandler serves the synchronous delegation endpoint.
type DelegateHandler struct {
	orchestrator *planner.Orchestrator
	logger       *zap.Logger
}

// NewDelegateHandler creates a delegation handler.
func NewDelegateHandler(orchestrator *planner.Orchestrator, logger *zap.Logger) *DelegateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DelegateHandler{
		orchestrator: orchestrator,
		logger:       logger.With(zap.String("component", "delegate_handler")),
	}
}

// HandleDelegate handles POST /v1/tasks/delegate.
//
// The request body is a Task document; the response wraps the complete
// DelegationDecision. Validation failures and an empty candidate pool
// reject with a structured 4xx error naming the problem; nothing else
// can fail once validation has passed.
func (h *DelegateHandler) HandleDelegate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	var task types.Task
	if err := DecodeJSONBody(w, r, &task, h.logger); err != nil {
		return
	}

	decision, err := h.orchestrator.Delegate(r.Context(), &task)
	if err != nil {
		var derr *types.Error
		if errors.As(err, &derr) {
			WriteError(w, derr, h.logger)
			return
		}
		WriteErrorMessage(w, http.StatusInternalServerError, types.ErrInternalError,
			"failed to delegate task", h.logger)
		return
	}

	WriteSuccess(w, decision)
}
