package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/scoring"
)

// rescoreRequest carries caller-supplied calibration. Omitted weights
// default to zero, so callers send the full set they want applied;
// omitted boundaries fall back to the defaults.
type rescoreRequest struct {
	Weights    scoring.Weights     `json:"weights"`
	Boundaries *scoring.Boundaries `json:"boundaries,omitempty"`
}

// handleRescore recomputes only the composite stage of an already
// scored case under new weights and boundaries. The cached result is
// left untouched; the response is a preview for interactive
// recalibration.
func (h *Handler) handleRescore(w http.ResponseWriter, r *http.Request) {
	caseID := strings.ToUpper(r.PathValue("caseID"))

	var req rescoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	bounds := scoring.DefaultBoundaries()
	if req.Boundaries != nil {
		bounds = *req.Boundaries
	}

	result, err := h.pipe.Rescore(r.Context(), caseID, req.Weights, bounds)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "case not scored yet; score it before recalibrating")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "rescore: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
