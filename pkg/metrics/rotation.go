package metrics

import (
	"math"
	"sort"

	"github.com/Vishai/nba-integrity/pkg/season"
)

const (
	// RotationSize is the number of players that make up the rotation
	// under comparison, ranked by average minutes.
	RotationSize = 8

	// correlationMinMinutes excludes garbage-time-only players from the
	// minutes/quality correlation.
	correlationMinMinutes = 5.0

	// correlationMinPlayers is the minimum number of qualifying players
	// for the correlation to be defined at all.
	correlationMinPlayers = 5
)

// RotationPlayer is one pre-elimination rotation member.
type RotationPlayer struct {
	PlayerID      int64   `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	PreAvgMinutes float64 `json:"pre_avg_minutes"`
	PreGames      int     `json:"pre_games"`
	PreNetRating  float64 `json:"pre_net_rating"`
}

// RotationChange tracks one rotation member's post-elimination usage.
type RotationChange struct {
	PlayerName string  `json:"player_name"`
	PreAvgMin  float64 `json:"pre_avg_min"`
	PostAvgMin float64 `json:"post_avg_min"`
	MinChange  float64 `json:"min_change"`
	PctChange  float64 `json:"pct_change"`
	PostGames  int     `json:"post_games"`
}

// NewRotationPlayer is a player in the post-elimination top rotation who
// was not part of the pre-elimination rotation.
type NewRotationPlayer struct {
	PlayerName string  `json:"player_name"`
	PostAvgMin float64 `json:"post_avg_min"`
	PostGames  int     `json:"post_games"`
}

// BaselineRotation is the pre-elimination top rotation by minutes.
type BaselineRotation struct {
	PreElimGames    int              `json:"pre_elim_games"`
	TotalPrePlayers int              `json:"total_pre_players"`
	Top             []RotationPlayer `json:"top_8"`
}

// PostElimChanges summarizes how the baseline rotation was used after
// elimination.
type PostElimChanges struct {
	PostElimGames        int                 `json:"post_elim_games"`
	Changes              []RotationChange    `json:"changes"`
	NewRotationPlayers   []NewRotationPlayer `json:"new_rotation_players"`
	AvgMinutesChange     float64             `json:"avg_minutes_change"`
	SignificantDecreases int                 `json:"significant_decreases"`
	DisruptionFlag       bool                `json:"rotation_disruption_flag"`
}

// QualityCorrelation is the Pearson correlation between average minutes
// and average net rating across rotation-depth players, computed for the
// pre- and post-elimination windows. A nil QualityCorrelation on the
// bundle means the correlation was undefined (fewer than
// correlationMinPlayers qualifying players in one of the windows); the
// scorer skips the sub-score entirely in that case rather than
// substituting 0.
type QualityCorrelation struct {
	PreCorr         float64 `json:"pre_elim_corr"`
	PostCorr        float64 `json:"post_elim_corr"`
	Shift           float64 `json:"correlation_shift"`
	MeritocracyFlag bool    `json:"meritocracy_decline_flag"`
}

// Experimentation measures lineup churn: distinct players used per game
// before vs after elimination.
type Experimentation struct {
	PreAvgPlayersPerGame  float64 `json:"pre_avg_players_per_game"`
	PostAvgPlayersPerGame float64 `json:"post_avg_players_per_game"`
	PreTotalUnique        int     `json:"pre_total_unique_players"`
	PostTotalUnique       int     `json:"post_total_unique_players"`
	Increase              float64 `json:"experimentation_increase"`
}

// RotationBundle is the metrics input to the rotation-disruption scorer.
type RotationBundle struct {
	Baseline        BaselineRotation    `json:"baseline_rotation"`
	PostElimChanges PostElimChanges     `json:"post_elim_changes"`
	Correlation     *QualityCorrelation `json:"quality_correlation,omitempty"`
	Experimentation Experimentation     `json:"experimentation"`
	Error           string              `json:"error,omitempty"`
}

// BuildRotation derives the rotation-disruption bundle. Unlike the other
// builders it structurally requires a resolved elimination point: without
// one there is no pre/post split to compare, and the bundle carries a
// missing-context marker.
func BuildRotation(games []season.Game, playerBox []season.PlayerGame, elim *season.EliminationResult) *RotationBundle {
	b := &RotationBundle{}
	if len(playerBox) == 0 {
		b.Error = errNoPlayerBox
		return b
	}
	if len(games) == 0 {
		b.Error = errNoGameData
		return b
	}
	if elim == nil || !elim.Eliminated {
		b.Error = errNoElimination
		return b
	}

	preGames, postGames := season.SplitAtElimination(games, elim)
	preIDs := gameIDSet(preGames)
	postIDs := gameIDSet(postGames)

	var preBox, postBox []season.PlayerGame
	for _, pg := range playerBox {
		switch {
		case preIDs[pg.GameID]:
			preBox = append(preBox, pg)
		case postIDs[pg.GameID]:
			postBox = append(postBox, pg)
		}
	}

	preSummary := summarizePlayers(preBox)
	postSummary := summarizePlayers(postBox)

	if len(preSummary) > 0 {
		top := preSummary
		if len(top) > RotationSize {
			top = top[:RotationSize]
		}
		b.Baseline.PreElimGames = len(preGames)
		b.Baseline.TotalPrePlayers = len(preSummary)
		for _, p := range top {
			b.Baseline.Top = append(b.Baseline.Top, RotationPlayer{
				PlayerID:      p.id,
				PlayerName:    p.name,
				PreAvgMinutes: round1(p.avgMinutes),
				PreGames:      p.games,
				PreNetRating:  round1(p.avgNet),
			})
		}
	}

	if len(postSummary) > 0 && len(b.Baseline.Top) > 0 {
		b.PostElimChanges = buildPostElimChanges(b.Baseline.Top, postSummary, len(postGames))
	}

	if len(preSummary) > 0 && len(postSummary) > 0 {
		b.Correlation = buildCorrelation(preSummary, postSummary)
		b.Experimentation = buildExperimentation(preBox, postBox)
	}
	return b
}

type playerSummary struct {
	id         int64
	name       string
	games      int
	avgMinutes float64
	avgNet     float64
}

// summarizePlayers aggregates per-player averages and sorts by average
// minutes descending.
func summarizePlayers(box []season.PlayerGame) []playerSummary {
	type agg struct {
		name    string
		minutes []float64
		nets    []float64
	}
	byPlayer := make(map[int64]*agg)
	var order []int64
	for _, pg := range box {
		a, ok := byPlayer[pg.PlayerID]
		if !ok {
			a = &agg{name: pg.PlayerName}
			byPlayer[pg.PlayerID] = a
			order = append(order, pg.PlayerID)
		}
		a.minutes = append(a.minutes, pg.Minutes)
		if pg.NetRating != nil {
			a.nets = append(a.nets, *pg.NetRating)
		}
	}

	out := make([]playerSummary, 0, len(order))
	for _, id := range order {
		a := byPlayer[id]
		out = append(out, playerSummary{
			id:         id,
			name:       a.name,
			games:      len(a.minutes),
			avgMinutes: mean(a.minutes),
			avgNet:     mean(a.nets),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].avgMinutes != out[j].avgMinutes {
			return out[i].avgMinutes > out[j].avgMinutes
		}
		return out[i].id < out[j].id
	})
	return out
}

func buildPostElimChanges(baseline []RotationPlayer, postSummary []playerSummary, postGameCount int) PostElimChanges {
	postByID := make(map[int64]playerSummary, len(postSummary))
	for _, p := range postSummary {
		postByID[p.id] = p
	}

	c := PostElimChanges{PostElimGames: postGameCount}
	var changes []float64
	baselineIDs := make(map[int64]bool, len(baseline))

	for _, pre := range baseline {
		baselineIDs[pre.PlayerID] = true
		ch := RotationChange{PlayerName: pre.PlayerName, PreAvgMin: pre.PreAvgMinutes}
		if post, ok := postByID[pre.PlayerID]; ok {
			ch.PostAvgMin = round1(post.avgMinutes)
			ch.PostGames = post.games
		}
		ch.MinChange = round1(ch.PostAvgMin - ch.PreAvgMin)
		if ch.PreAvgMin > 0 {
			ch.PctChange = round1(ch.MinChange / ch.PreAvgMin * 100)
		}
		if ch.PctChange < -20 {
			c.SignificantDecreases++
		}
		changes = append(changes, ch.MinChange)
		c.Changes = append(c.Changes, ch)
	}

	top := postSummary
	if len(top) > RotationSize {
		top = top[:RotationSize]
	}
	for _, p := range top {
		if !baselineIDs[p.id] {
			c.NewRotationPlayers = append(c.NewRotationPlayers, NewRotationPlayer{
				PlayerName: p.name,
				PostAvgMin: round1(p.avgMinutes),
				PostGames:  p.games,
			})
		}
	}

	c.AvgMinutesChange = round1(mean(changes))
	c.DisruptionFlag = c.SignificantDecreases >= 3
	return c
}

func buildCorrelation(preSummary, postSummary []playerSummary) *QualityCorrelation {
	pre, preOK := minutesQualityCorr(preSummary)
	post, postOK := minutesQualityCorr(postSummary)
	if !preOK || !postOK {
		return nil
	}
	shift := round3(post - pre)
	return &QualityCorrelation{
		PreCorr:         round3(pre),
		PostCorr:        round3(post),
		Shift:           shift,
		MeritocracyFlag: shift < -0.15,
	}
}

// minutesQualityCorr computes the Pearson correlation between average
// minutes and average net rating across players above the garbage-time
// floor. Returns ok=false when fewer than correlationMinPlayers qualify.
func minutesQualityCorr(summary []playerSummary) (float64, bool) {
	var mins, nets []float64
	for _, p := range summary {
		if p.avgMinutes > correlationMinMinutes {
			mins = append(mins, p.avgMinutes)
			nets = append(nets, p.avgNet)
		}
	}
	if len(mins) < correlationMinPlayers {
		return 0, false
	}
	return pearson(mins, nets), true
}

func pearson(xs, ys []float64) float64 {
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

func buildExperimentation(preBox, postBox []season.PlayerGame) Experimentation {
	prePerGame, preUnique := playersPerGame(preBox)
	postPerGame, postUnique := playersPerGame(postBox)
	return Experimentation{
		PreAvgPlayersPerGame:  round1(prePerGame),
		PostAvgPlayersPerGame: round1(postPerGame),
		PreTotalUnique:        preUnique,
		PostTotalUnique:       postUnique,
		Increase:              round1(postPerGame - prePerGame),
	}
}

func playersPerGame(box []season.PlayerGame) (avg float64, unique int) {
	perGame := make(map[string]map[int64]bool)
	allPlayers := make(map[int64]bool)
	for _, pg := range box {
		if perGame[pg.GameID] == nil {
			perGame[pg.GameID] = make(map[int64]bool)
		}
		perGame[pg.GameID][pg.PlayerID] = true
		allPlayers[pg.PlayerID] = true
	}
	if len(perGame) == 0 {
		return 0, 0
	}
	var total int
	for _, players := range perGame {
		total += len(players)
	}
	return float64(total) / float64(len(perGame)), len(allPlayers)
}

func gameIDSet(games []season.Game) map[string]bool {
	s := make(map[string]bool, len(games))
	for _, g := range games {
		s[g.GameID] = true
	}
	return s
}
