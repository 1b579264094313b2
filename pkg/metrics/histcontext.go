package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/Vishai/nba-integrity/pkg/season"
)

// bottomTierSize is the number of lowest-win teams that define the
// league's bottom tier for baseline comparison.
const bottomTierSize = 6

// Calendar period names. Periods whose bounding milestone is absent for
// a season are omitted from the table, never defaulted.
const (
	PeriodPreDeadline     = "Pre-trade deadline"
	PeriodDeadlineToBreak = "Post-deadline to ASB"
	PeriodBreakToElim     = "Post-ASB to elimination"
	PeriodPostBreak       = "Post-ASB"
	PeriodPostElim        = "Post-elimination"
)

// BottomTeam is one entry in the season's bottom tier.
type BottomTeam struct {
	TeamName string `json:"team_name"`
	Wins     int    `json:"wins"`
}

// LeagueContext compares the season's bottom-tier win average to a
// multi-season historical baseline, expressed in standard deviations.
type LeagueContext struct {
	TeamWins         int          `json:"team_wins"`
	TeamLosses       int          `json:"team_losses"`
	TeamRecord       string       `json:"team_record"`
	BottomTeams      []BottomTeam `json:"bottom_6_teams"`
	HistoricalAvg    float64      `json:"historical_avg"`
	HistoricalStd    float64      `json:"historical_std"`
	CurrentBottomAvg float64      `json:"current_bottom6_avg"`
	Deviation        float64      `json:"deviation_from_baseline"`
	TeamsUnder22     int          `json:"teams_under_22_wins"`
	LeagueWideFlag   bool         `json:"league_wide_flag"`
	SeasonsAnalyzed  int          `json:"seasons_analyzed"`
}

// TemporalPattern compares win percentage before and after the All-Star
// break. Present is false when the break date is unknown for the season.
type TemporalPattern struct {
	Present         bool    `json:"present"`
	PreBreakPct     float64 `json:"pre_asb_win_pct"`
	PreBreakRecord  string  `json:"pre_asb_record"`
	PostBreakPct    float64 `json:"post_asb_win_pct"`
	PostBreakRecord string  `json:"post_asb_record"`
	PostPctOfPre    float64 `json:"post_as_pct_of_pre"`
	Below50         bool    `json:"below_50_threshold"`
	Flagged         bool    `json:"flag"`
}

// PeriodRecord is the team's record within one calendar period.
type PeriodRecord struct {
	WinRate float64 `json:"win_rate"`
	Record  string  `json:"record"`
	Games   int     `json:"games"`
}

// CalendarCorrelation slices the season into milestone-bounded periods.
type CalendarCorrelation struct {
	Periods         map[string]PeriodRecord `json:"periods"`
	TradeDeadline   string                  `json:"trade_deadline,omitempty"`
	AllStarBreak    string                  `json:"asb_date,omitempty"`
	EliminationDate string                  `json:"elimination_date,omitempty"`
}

// ContextBundle is the metrics input to the historical-context scorer.
type ContextBundle struct {
	League   LeagueContext       `json:"league_context"`
	Temporal TemporalPattern     `json:"temporal_pattern"`
	Calendar CalendarCorrelation `json:"calendar_correlation"`
	Error    string              `json:"error,omitempty"`
}

// ContextInput gathers everything the historical-context builder needs.
type ContextInput struct {
	TeamID              int64
	Games               []season.Game
	Standings           []season.Standing
	HistoricalStandings map[string][]season.Standing // keyed by baseline season
	BaselineSeasons     []string
	Milestones          season.Milestones
	Elimination         *season.EliminationResult
}

// BuildContext derives the historical-context bundle.
func BuildContext(in ContextInput) *ContextBundle {
	b := &ContextBundle{}
	if len(in.Standings) == 0 {
		b.Error = errNoStandings
		return b
	}

	teamRow, ok := findStanding(in.Standings, in.TeamID)
	if !ok {
		b.Error = fmt.Sprintf("%s: team %d", errTeamNotInTable, in.TeamID)
		return b
	}

	b.League = buildLeagueContext(teamRow, in.Standings, in.HistoricalStandings, in.BaselineSeasons)
	b.Temporal = buildTemporalPattern(in.Games, in.Milestones.AllStarBreak)
	b.Calendar = buildCalendar(in.Games, in.Milestones, in.Elimination)
	return b
}

func findStanding(standings []season.Standing, teamID int64) (season.Standing, bool) {
	for _, s := range standings {
		if s.TeamID == teamID {
			return s, true
		}
	}
	return season.Standing{}, false
}

func bottomTier(standings []season.Standing) []season.Standing {
	sorted := make([]season.Standing, len(standings))
	copy(sorted, standings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Wins != sorted[j].Wins {
			return sorted[i].Wins < sorted[j].Wins
		}
		return sorted[i].TeamID < sorted[j].TeamID
	})
	if len(sorted) > bottomTierSize {
		sorted = sorted[:bottomTierSize]
	}
	return sorted
}

func buildLeagueContext(team season.Standing, standings []season.Standing, historical map[string][]season.Standing, baselineSeasons []string) LeagueContext {
	lc := LeagueContext{
		TeamWins:   team.Wins,
		TeamLosses: team.Losses,
		TeamRecord: season.FormatRecord(team.Wins, team.Losses),
	}

	bottom := bottomTier(standings)
	var bottomWins []float64
	for _, s := range bottom {
		lc.BottomTeams = append(lc.BottomTeams, BottomTeam{TeamName: s.TeamName, Wins: s.Wins})
		bottomWins = append(bottomWins, float64(s.Wins))
	}
	lc.CurrentBottomAvg = round1(mean(bottomWins))

	var histAvgs []float64
	for _, hs := range baselineSeasons {
		rows := historical[hs]
		if len(rows) == 0 {
			continue
		}
		var wins []float64
		for _, s := range bottomTier(rows) {
			wins = append(wins, float64(s.Wins))
		}
		histAvgs = append(histAvgs, mean(wins))
	}
	lc.SeasonsAnalyzed = len(histAvgs)

	if len(histAvgs) > 0 {
		histMean := mean(histAvgs)
		histStd := sampleStd(histAvgs)
		lc.HistoricalAvg = round1(histMean)
		lc.HistoricalStd = round1(histStd)
		if histStd > 0 {
			lc.Deviation = round2((mean(bottomWins) - histMean) / histStd)
		}
	}

	for _, s := range standings {
		if s.Wins < 22 {
			lc.TeamsUnder22++
		}
	}
	lc.LeagueWideFlag = lc.TeamsUnder22 >= 4
	return lc
}

func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func buildTemporalPattern(games []season.Game, breakDate string) TemporalPattern {
	if breakDate == "" || len(games) == 0 {
		return TemporalPattern{Present: false}
	}
	pre, post := season.SplitByDate(games, breakDate)
	if len(pre) == 0 || len(post) == 0 {
		return TemporalPattern{Present: false}
	}

	preW, preL := season.Record(pre)
	postW, postL := season.Record(post)
	prePct := season.WinRate(pre)
	postPct := season.WinRate(post)

	tp := TemporalPattern{
		Present:         true,
		PreBreakPct:     round3(prePct),
		PreBreakRecord:  season.FormatRecord(preW, preL),
		PostBreakPct:    round3(postPct),
		PostBreakRecord: season.FormatRecord(postW, postL),
	}
	if prePct > 0 {
		tp.PostPctOfPre = round1(postPct / prePct * 100)
	}
	tp.Below50 = tp.PostPctOfPre < 50
	tp.Flagged = tp.Below50
	return tp
}

func buildCalendar(games []season.Game, ms season.Milestones, elim *season.EliminationResult) CalendarCorrelation {
	cc := CalendarCorrelation{
		Periods:       make(map[string]PeriodRecord),
		TradeDeadline: ms.TradeDeadline,
		AllStarBreak:  ms.AllStarBreak,
	}
	elimDate := ""
	if elim != nil && elim.Eliminated {
		elimDate = elim.Date
	}
	cc.EliminationDate = elimDate

	add := func(name string, gs []season.Game) {
		if len(gs) == 0 {
			return
		}
		w, l := season.Record(gs)
		cc.Periods[name] = PeriodRecord{
			WinRate: round3(season.WinRate(gs)),
			Record:  season.FormatRecord(w, l),
			Games:   len(gs),
		}
	}

	between := func(from, to string) []season.Game {
		var out []season.Game
		for _, g := range games {
			if g.Date >= from && g.Date < to {
				out = append(out, g)
			}
		}
		return out
	}

	if ms.TradeDeadline != "" {
		pre, _ := season.SplitByDate(games, ms.TradeDeadline)
		add(PeriodPreDeadline, pre)
	}
	if ms.TradeDeadline != "" && ms.AllStarBreak != "" {
		add(PeriodDeadlineToBreak, between(ms.TradeDeadline, ms.AllStarBreak))
	}
	if ms.AllStarBreak != "" && elimDate != "" {
		add(PeriodBreakToElim, between(ms.AllStarBreak, elimDate))
	} else if ms.AllStarBreak != "" {
		_, post := season.SplitByDate(games, ms.AllStarBreak)
		add(PeriodPostBreak, post)
	}
	if elimDate != "" {
		_, post := season.SplitByDate(games, elimDate)
		add(PeriodPostElim, post)
	}
	return cc
}
