package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vishai/nba-integrity/internal/pipeline"
	"github.com/Vishai/nba-integrity/internal/registry"
	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/config"
	"github.com/Vishai/nba-integrity/pkg/scoring"
	"github.com/Vishai/nba-integrity/pkg/season"
)

const wizardsID = 1610612764

func newTestMux(t *testing.T) (*http.ServeMux, store.Store) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Seasons.BaselineSeasons = nil

	st := store.NewMemoryStore()
	pipe, err := pipeline.New(cfg, st)
	if err != nil {
		t.Fatalf("pipeline.New() error: %v", err)
	}
	reg := registry.New(t.TempDir())

	mux := http.NewServeMux()
	NewHandler(pipe, reg).RegisterRoutes(mux)
	return mux, st
}

// seedWizardsSeason stores a 10-loss Wizards season: with an 8th-seed
// cutoff of 6 wins the team is eliminated at game 5.
func seedWizardsSeason(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	var games []season.Game
	var playerGames []season.PlayerGame
	for i := 1; i <= 10; i++ {
		net := -5.0
		g := season.Game{
			GameID:  fmt.Sprintf("G%03d", i),
			Date:    fmt.Sprintf("2024-01-%02d", i),
			Number:  i,
			Points:  100,
			Ratings: &season.Efficiency{Offensive: 105, Defensive: 110, Net: net},
		}
		games = append(games, g)
		if i <= 5 {
			playerGames = append(playerGames, season.PlayerGame{
				PlayerID: 10, PlayerName: "Test Player",
				GameID: g.GameID, Date: g.Date, Minutes: 36, NetRating: &net,
			})
		}
	}
	standings := []season.Standing{
		{TeamID: wizardsID, TeamName: "Washington Wizards", Conference: "East", Wins: 0, Losses: 10},
	}
	for i := 1; i <= 8; i++ {
		standings = append(standings, season.Standing{
			TeamID: int64(i), TeamName: fmt.Sprintf("East Team %d", i),
			Conference: "East", Wins: 5 + i, Losses: 10 - i,
		})
	}

	put := func(teamID int64, kind string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", kind, err)
		}
		if err := st.PutDataset(ctx, teamID, "2023-24", kind, data); err != nil {
			t.Fatalf("put %s: %v", kind, err)
		}
	}
	put(wizardsID, season.DatasetGames, games)
	put(wizardsID, season.DatasetPlayerGames, playerGames)
	put(wizardsID, season.DatasetPlayerBox, playerGames)
	put(0, season.DatasetStandings, standings)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	mux, _ := newTestMux(t)
	rr := doJSON(t, mux, "GET", "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d, want 200", rr.Code)
	}
}

func TestListCasesIncludesBuiltins(t *testing.T) {
	mux, _ := newTestMux(t)
	rr := doJSON(t, mux, "GET", "/api/cases", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list cases = %d, want 200", rr.Code)
	}

	var resp struct {
		Cases []season.Case `json:"cases"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Cases) != 8 {
		t.Errorf("cases = %d, want the 8 built-ins", len(resp.Cases))
	}
	found := false
	for _, c := range resp.Cases {
		if c.ID == "D" && c.TeamAbbr == "WAS" {
			found = true
		}
	}
	if !found {
		t.Error("built-in case D missing from listing")
	}
}

func TestAddCaseAmbiguousTeam(t *testing.T) {
	mux, _ := newTestMux(t)
	rr := doJSON(t, mux, "POST", "/api/cases",
		map[string]string{"team": "new", "season": "2023-24"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("ambiguous add = %d, want 400", rr.Code)
	}

	var resp struct {
		Error      string        `json:"error"`
		Candidates []season.Team `json:"candidates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Candidates) < 2 {
		t.Errorf("candidates = %v, want the ambiguous matches", resp.Candidates)
	}
	if !strings.Contains(resp.Error, "ambiguous") {
		t.Errorf("error = %q, want ambiguity message", resp.Error)
	}
}

func TestScoreFlow(t *testing.T) {
	mux, st := newTestMux(t)
	seedWizardsSeason(t, st)

	// Result before scoring is a 404, not an empty result.
	rr := doJSON(t, mux, "GET", "/api/cases/WAS-2023-24/result", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("result before scoring = %d, want 404", rr.Code)
	}

	rr = doJSON(t, mux, "POST", "/api/cases", map[string]any{
		"team": "wizards", "season": "2023-24", "playoff_cutoff_seed": 8,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add case = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var added registry.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &added); err != nil {
		t.Fatalf("decode added case: %v", err)
	}
	if added.ID != "WAS-2023-24" {
		t.Fatalf("added id = %q, want WAS-2023-24", added.ID)
	}

	rr = doJSON(t, mux, "POST", "/api/cases/WAS-2023-24/score", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("score = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var result scoring.CaseResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Components) != 4 {
		t.Fatalf("components = %d, want 4", len(result.Components))
	}

	rr = doJSON(t, mux, "GET", "/api/cases/WAS-2023-24/result", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("result after scoring = %d, want 200", rr.Code)
	}

	// Scoring shows up in the activity log.
	rr = doJSON(t, mux, "GET", "/api/activity", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("activity = %d, want 200", rr.Code)
	}
	var summary registry.ActivitySummary
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	if summary.ByAction["score"] != 1 {
		t.Errorf("ByAction[score] = %d, want 1", summary.ByAction["score"])
	}
}

func TestRescore(t *testing.T) {
	mux, st := newTestMux(t)
	seedWizardsSeason(t, st)

	rr := doJSON(t, mux, "POST", "/api/cases", map[string]any{
		"team": "wizards", "season": "2023-24", "playoff_cutoff_seed": 8,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add case = %d: %s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, mux, "POST", "/api/cases/WAS-2023-24/score", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("score = %d: %s", rr.Code, rr.Body.String())
	}
	var original scoring.CaseResult
	if err := json.Unmarshal(rr.Body.Bytes(), &original); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	var availabilityScore float64
	for _, cr := range original.Components {
		if cr.Key == scoring.KeyAvailability {
			availabilityScore = cr.Score
		}
	}

	rr = doJSON(t, mux, "POST", "/api/cases/WAS-2023-24/rescore", map[string]any{
		"weights": map[string]float64{"availability": 1.0},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("rescore = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var preview scoring.CaseResult
	if err := json.Unmarshal(rr.Body.Bytes(), &preview); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if preview.Composite != availabilityScore {
		t.Errorf("preview composite = %v, want availability score %v",
			preview.Composite, availabilityScore)
	}

	// The cached result is untouched by the preview.
	rr = doJSON(t, mux, "GET", "/api/cases/WAS-2023-24/result", nil)
	var cached scoring.CaseResult
	if err := json.Unmarshal(rr.Body.Bytes(), &cached); err != nil {
		t.Fatalf("decode cached: %v", err)
	}
	if cached.Composite != original.Composite {
		t.Errorf("cached composite = %v, changed by rescore", cached.Composite)
	}

	// Descending boundaries are rejected.
	rr = doJSON(t, mux, "POST", "/api/cases/WAS-2023-24/rescore", map[string]any{
		"weights":    map[string]float64{"availability": 1.0},
		"boundaries": map[string]float64{"green": 80, "yellow": 50, "orange": 75},
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("rescore with bad boundaries = %d, want 400", rr.Code)
	}
}

func TestRescoreUnscoredCase(t *testing.T) {
	mux, _ := newTestMux(t)
	rr := doJSON(t, mux, "POST", "/api/cases/A/rescore", map[string]any{
		"weights": map[string]float64{"availability": 1.0},
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("rescore unscored = %d, want 404", rr.Code)
	}
}

func TestPrefs(t *testing.T) {
	mux, _ := newTestMux(t)

	pinned := true
	rr := doJSON(t, mux, "POST", "/api/cases/A/prefs", prefsRequest{Pinned: &pinned})
	if rr.Code != http.StatusOK {
		t.Fatalf("set prefs = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	hidden := true
	rr = doJSON(t, mux, "POST", "/api/cases/B/prefs", prefsRequest{Hidden: &hidden})
	if rr.Code != http.StatusOK {
		t.Fatalf("set prefs = %d, want 200", rr.Code)
	}

	rr = doJSON(t, mux, "POST", "/api/cases/NOPE/prefs", prefsRequest{Pinned: &pinned})
	if rr.Code != http.StatusNotFound {
		t.Errorf("prefs for unknown case = %d, want 404", rr.Code)
	}

	// Hidden cases drop out of the default listing.
	rr = doJSON(t, mux, "GET", "/api/cases", nil)
	var resp struct {
		Cases []caseEntry `json:"cases"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(resp.Cases) != 7 {
		t.Errorf("visible cases = %d, want 7 with B hidden", len(resp.Cases))
	}
	for _, e := range resp.Cases {
		if e.ID == "A" && !e.Pinned {
			t.Error("case A should be pinned in the listing")
		}
		if e.ID == "B" {
			t.Error("hidden case B present in default listing")
		}
	}

	rr = doJSON(t, mux, "GET", "/api/cases?hidden=true", nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(resp.Cases) != 8 {
		t.Errorf("cases with hidden = %d, want 8", len(resp.Cases))
	}
}

func TestAPIKeyAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := APIKeyAuth("secret")(inner)

	req := httptest.NewRequest("GET", "/api/cases", nil)
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing key = %d, want 401", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/cases", nil)
	req.Header.Set("X-API-Key", "secret")
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("valid key = %d, want 200", rr.Code)
	}

	// Empty key disables auth entirely.
	open := APIKeyAuth("")(inner)
	req = httptest.NewRequest("GET", "/api/cases", nil)
	rr = httptest.NewRecorder()
	open.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("no-op auth = %d, want 200", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the inner handler")
	}))

	req := httptest.NewRequest("OPTIONS", "/api/cases", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("preflight = %d, want 200", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}

func TestRateLimit(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := RateLimit(1, time.Minute)(inner)

	req := httptest.NewRequest("GET", "/api/cases", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	limited.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	limited.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	// A different client IP gets its own bucket.
	req2 := httptest.NewRequest("GET", "/api/cases", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	rr = httptest.NewRecorder()
	limited.ServeHTTP(rr, req2)
	if rr.Code != http.StatusOK {
		t.Errorf("other client = %d, want 200", rr.Code)
	}
}
