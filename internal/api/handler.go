// Package api implements the hosted integrity-index REST API: case
// catalog, computed results, and interactive recalibration backed by
// the shared store.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Vishai/nba-integrity/internal/pipeline"
	"github.com/Vishai/nba-integrity/internal/registry"
	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/config"
	"github.com/Vishai/nba-integrity/pkg/season"
)

// Handler is the top-level API handler for the hosted service.
type Handler struct {
	pipe *pipeline.Pipeline
	reg  *registry.Registry
}

// NewHandler creates a new API handler.
func NewHandler(pipe *pipeline.Pipeline, reg *registry.Registry) *Handler {
	return &Handler{pipe: pipe, reg: reg}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)

	// Case catalog
	mux.HandleFunc("GET /api/cases", h.handleListCases)
	mux.HandleFunc("POST /api/cases", h.handleAddCase)
	mux.HandleFunc("GET /api/cases/{caseID}", h.handleGetCase)
	mux.HandleFunc("POST /api/cases/{caseID}/prefs", h.handleSetPrefs)

	// Results
	mux.HandleFunc("GET /api/cases/{caseID}/result", h.handleGetResult)
	mux.HandleFunc("POST /api/cases/{caseID}/score", h.handleScore)
	mux.HandleFunc("POST /api/cases/{caseID}/rescore", h.handleRescore)

	// Activity
	mux.HandleFunc("GET /api/activity", h.handleActivity)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// caseEntry is a catalog row: the case plus its display preferences.
type caseEntry struct {
	season.Case
	Pinned bool `json:"pinned,omitempty"`
	Hidden bool `json:"hidden,omitempty"`
}

func (h *Handler) handleListCases(w http.ResponseWriter, r *http.Request) {
	var entries []caseEntry
	for _, c := range config.BuiltInCases() {
		entries = append(entries, caseEntry{Case: c})
	}
	recs, err := h.reg.Cases()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list cases: "+err.Error())
		return
	}
	for _, rec := range recs {
		entries = append(entries, caseEntry{Case: rec.Case})
	}

	includeHidden := r.URL.Query().Get("hidden") == "true"
	out := entries[:0]
	for _, e := range entries {
		p, err := h.reg.Prefs(e.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "load prefs: "+err.Error())
			return
		}
		e.Pinned, e.Hidden = p.Pinned, p.Hidden
		if e.Hidden && !includeHidden {
			continue
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": out})
}

type addCaseRequest struct {
	Team       string `json:"team"`
	Season     string `json:"season"`
	Archetype  string `json:"archetype,omitempty"`
	Expected   string `json:"expected_classification,omitempty"`
	CutoffSeed int    `json:"playoff_cutoff_seed,omitempty"`
	AddedBy    string `json:"added_by,omitempty"`
}

func (h *Handler) handleAddCase(w http.ResponseWriter, r *http.Request) {
	var req addCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Team == "" || req.Season == "" {
		writeError(w, http.StatusBadRequest, "team and season are required")
		return
	}

	team, err := season.LookupTeam(req.Team)
	if err != nil {
		var ambiguous *season.AmbiguousTeamError
		if errors.As(err, &ambiguous) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":      ambiguous.Error(),
				"candidates": ambiguous.Candidates,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.reg.Add(season.Case{
		TeamID:     team.ID,
		TeamAbbr:   team.Abbr,
		TeamName:   team.Name,
		Season:     req.Season,
		Archetype:  req.Archetype,
		Expected:   req.Expected,
		CutoffSeed: req.CutoffSeed,
	}, req.AddedBy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "register case: "+err.Error())
		return
	}

	rec, err := h.reg.Case(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load case: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.lookupCase(r.PathValue("caseID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type prefsRequest struct {
	Pinned *bool `json:"pinned,omitempty"`
	Hidden *bool `json:"hidden,omitempty"`
}

func (h *Handler) handleSetPrefs(w http.ResponseWriter, r *http.Request) {
	caseID := strings.ToUpper(r.PathValue("caseID"))
	if _, err := h.lookupCase(caseID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req prefsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Pinned != nil {
		if err := h.reg.SetPinned(caseID, *req.Pinned); err != nil {
			writeError(w, http.StatusInternalServerError, "save prefs: "+err.Error())
			return
		}
	}
	if req.Hidden != nil {
		if err := h.reg.SetHidden(caseID, *req.Hidden); err != nil {
			writeError(w, http.StatusInternalServerError, "save prefs: "+err.Error())
			return
		}
	}

	p, err := h.reg.Prefs(caseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load prefs: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	caseID := strings.ToUpper(r.PathValue("caseID"))
	result, err := h.pipe.CachedResult(r.Context(), caseID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "case not scored yet")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load result: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	c, err := h.lookupCase(r.PathValue("caseID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	force := r.URL.Query().Get("force") == "true"
	result, err := h.pipe.Score(r.Context(), c, force)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "score: "+err.Error())
		return
	}

	if err := h.reg.LogEvent(registry.Event{Action: "score", CaseID: c.ID}); err != nil {
		writeError(w, http.StatusInternalServerError, "log activity: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reg.SummarizeActivity()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "summarize activity: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// lookupCase resolves built-in letter ids first, then the registry.
func (h *Handler) lookupCase(id string) (season.Case, error) {
	if c, err := config.BuiltInCase(id); err == nil {
		return c, nil
	}
	rec, err := h.reg.Case(id)
	if err != nil {
		return season.Case{}, err
	}
	return rec.Case, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
