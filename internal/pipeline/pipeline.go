// Package pipeline orchestrates the integrity-index stages for one
// case: dataset loading, elimination resolution, metric-bundle
// extraction, component scoring, and the composite. Every stage result
// is cached in the store; recomputation is idempotent, so cached
// artifacts are reused unless force is set.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/config"
	"github.com/Vishai/nba-integrity/pkg/metrics"
	"github.com/Vishai/nba-integrity/pkg/scoring"
	"github.com/Vishai/nba-integrity/pkg/season"
)

// League-wide datasets (standings panels) are stored under team id 0.
const leagueTeamID = 0

// Pipeline runs the computation stages against one store.
type Pipeline struct {
	cfg    *config.Config
	st     store.Store
	engine *scoring.Engine
}

// New builds a pipeline from validated configuration.
func New(cfg *config.Config, st store.Store) (*Pipeline, error) {
	engine, err := cfg.Engine()
	if err != nil {
		return nil, fmt.Errorf("build scoring engine: %w", err)
	}
	return &Pipeline{cfg: cfg, st: st, engine: engine}, nil
}

// Inputs holds the raw datasets for one case. Any slice may be empty;
// each metric builder degrades with its own error marker.
type Inputs struct {
	Games       []season.Game
	PlayerGames []season.PlayerGame
	PlayerBox   []season.PlayerGame
	Standings   []season.Standing
	Historical  map[string][]season.Standing
}

// ImportDir loads a season export directory into the store. Expected
// layout is one JSON file per dataset kind; missing files are skipped,
// since components degrade individually.
func (p *Pipeline) ImportDir(ctx context.Context, c season.Case, dir string) error {
	kinds := []string{
		season.DatasetGames,
		season.DatasetPlayerGames,
		season.DatasetPlayerBox,
	}
	for _, kind := range kinds {
		data, err := os.ReadFile(filepath.Join(dir, kind+".json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read export %s: %w", kind, err)
		}
		if err := p.st.PutDataset(ctx, c.TeamID, c.Season, kind, data); err != nil {
			return err
		}
	}

	// Standings are league-wide, keyed per season under the league id.
	data, err := os.ReadFile(filepath.Join(dir, season.DatasetStandings+".json"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read export %s: %w", season.DatasetStandings, err)
	}
	return p.st.PutDataset(ctx, leagueTeamID, c.Season, season.DatasetStandings, data)
}

// ImportStandings stores a league standings table for one season,
// usually a baseline-panel season.
func (p *Pipeline) ImportStandings(ctx context.Context, seasonLabel string, standings []season.Standing) error {
	data, err := json.Marshal(standings)
	if err != nil {
		return fmt.Errorf("marshal standings: %w", err)
	}
	return p.st.PutDataset(ctx, leagueTeamID, seasonLabel, season.DatasetStandings, data)
}

// LoadInputs reads the case's datasets out of the store. Missing
// datasets leave their slice empty rather than failing the load.
func (p *Pipeline) LoadInputs(ctx context.Context, c season.Case) (*Inputs, error) {
	in := &Inputs{Historical: make(map[string][]season.Standing)}

	if err := p.loadDataset(ctx, c.TeamID, c.Season, season.DatasetGames, &in.Games); err != nil {
		return nil, err
	}
	season.SortGames(in.Games)

	if err := p.loadDataset(ctx, c.TeamID, c.Season, season.DatasetPlayerGames, &in.PlayerGames); err != nil {
		return nil, err
	}
	if err := p.loadDataset(ctx, c.TeamID, c.Season, season.DatasetPlayerBox, &in.PlayerBox); err != nil {
		return nil, err
	}
	if err := p.loadDataset(ctx, leagueTeamID, c.Season, season.DatasetStandings, &in.Standings); err != nil {
		return nil, err
	}

	for _, label := range p.cfg.Seasons.BaselineSeasons {
		var rows []season.Standing
		if err := p.loadDataset(ctx, leagueTeamID, label, season.DatasetStandings, &rows); err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			in.Historical[label] = rows
		}
	}
	return in, nil
}

func (p *Pipeline) loadDataset(ctx context.Context, teamID int64, seasonLabel, kind string, v any) error {
	data, err := p.st.GetDataset(ctx, teamID, seasonLabel, kind)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse dataset %s: %w", kind, err)
	}
	return nil
}

// Compute derives the metric bundles for a case, caching each under
// its component key. Cached bundles are reused unless force is set.
func (p *Pipeline) Compute(ctx context.Context, c season.Case, force bool) (*metrics.CaseMetrics, error) {
	if force {
		if err := p.st.DeleteComputed(ctx, c.ID); err != nil {
			return nil, err
		}
	} else if cm, err := p.cachedMetrics(ctx, c.ID); err == nil {
		return cm, nil
	}

	in, err := p.LoadInputs(ctx, c)
	if err != nil {
		return nil, err
	}

	cm := &metrics.CaseMetrics{}

	conference, err := season.ConferenceOf(c.TeamID)
	if err != nil {
		return nil, err
	}
	elim, err := season.ResolveElimination(in.Games, in.Standings, conference, c.CutoffSeed)
	if err != nil && !errors.Is(err, season.ErrMissingData) {
		return nil, err
	}
	cm.Elimination = elim

	cm.Availability = metrics.BuildAvailability(in.Games, in.PlayerGames, elim)
	cm.Trend = metrics.BuildTrend(in.Games, elim)
	cm.Rotation = metrics.BuildRotation(in.Games, in.PlayerBox, elim)
	cm.Context = metrics.BuildContext(metrics.ContextInput{
		TeamID:              c.TeamID,
		Games:               in.Games,
		Standings:           in.Standings,
		HistoricalStandings: in.Historical,
		BaselineSeasons:     p.cfg.Seasons.BaselineSeasons,
		Milestones:          p.cfg.Seasons.MilestonesFor(c.Season),
		Elimination:         elim,
	})

	if err := p.cacheMetrics(ctx, c, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

// Score runs the full pipeline for a case and caches the composite
// result.
func (p *Pipeline) Score(ctx context.Context, c season.Case, force bool) (*scoring.CaseResult, error) {
	cm, err := p.Compute(ctx, c, force)
	if err != nil {
		return nil, err
	}

	result, err := p.engine.Score(c, cm)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal case result: %w", err)
	}
	rec := &store.ComputedRecord{
		CaseID:    c.ID,
		TeamID:    c.TeamID,
		Season:    c.Season,
		Component: store.ComponentComposite,
		Data:      data,
		Score:     &result.Composite,
	}
	if err := p.st.PutComputed(ctx, rec); err != nil {
		return nil, err
	}
	return result, nil
}

// CachedResult returns the stored composite result for a case, or
// store.ErrNotFound if it has not been scored.
func (p *Pipeline) CachedResult(ctx context.Context, caseID string) (*scoring.CaseResult, error) {
	rec, err := p.st.GetComputed(ctx, caseID, store.ComponentComposite)
	if err != nil {
		return nil, err
	}
	var result scoring.CaseResult
	if err := json.Unmarshal(rec.Data, &result); err != nil {
		return nil, fmt.Errorf("parse cached result: %w", err)
	}
	return &result, nil
}

// Rescore recomputes only the composite stage of a previously scored
// case under caller-supplied weights and boundaries. The cached result
// is not modified; this is the cheap preview path for recalibration.
func (p *Pipeline) Rescore(ctx context.Context, caseID string, weights scoring.Weights, bounds scoring.Boundaries) (*scoring.CaseResult, error) {
	cached, err := p.CachedResult(ctx, caseID)
	if err != nil {
		return nil, err
	}

	classifier, err := scoring.NewClassifier(bounds)
	if err != nil {
		return nil, err
	}

	result := *cached
	result.Components = append([]scoring.ComponentResult(nil), cached.Components...)
	composite, label, warnings := scoring.Reweight(result.Components, weights, classifier)
	result.Composite = composite
	result.Classification = label
	result.Warnings = warnings
	if result.Expected != "" {
		c := season.Case{Expected: result.Expected}
		result.ExpectedMatch = c.ExpectedMatches(label)
	}
	return &result, nil
}

// cachedMetrics reassembles CaseMetrics from per-component records.
// Any missing component record fails the lookup so Compute falls back
// to a full rebuild.
func (p *Pipeline) cachedMetrics(ctx context.Context, caseID string) (*metrics.CaseMetrics, error) {
	cm := &metrics.CaseMetrics{}
	for component, v := range map[string]any{
		store.ComponentElimination: &cm.Elimination,
		scoring.KeyAvailability:    &cm.Availability,
		scoring.KeyTrend:           &cm.Trend,
		scoring.KeyRotation:        &cm.Rotation,
		scoring.KeyContext:         &cm.Context,
	} {
		rec, err := p.st.GetComputed(ctx, caseID, component)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rec.Data, v); err != nil {
			return nil, fmt.Errorf("parse cached %s: %w", component, err)
		}
	}
	return cm, nil
}

func (p *Pipeline) cacheMetrics(ctx context.Context, c season.Case, cm *metrics.CaseMetrics) error {
	for component, v := range map[string]any{
		store.ComponentElimination: cm.Elimination,
		scoring.KeyAvailability:    cm.Availability,
		scoring.KeyTrend:           cm.Trend,
		scoring.KeyRotation:        cm.Rotation,
		scoring.KeyContext:         cm.Context,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s bundle: %w", component, err)
		}
		rec := &store.ComputedRecord{
			CaseID:    c.ID,
			TeamID:    c.TeamID,
			Season:    c.Season,
			Component: component,
			Data:      data,
		}
		if err := p.st.PutComputed(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
