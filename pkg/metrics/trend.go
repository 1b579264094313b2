package metrics

import "github.com/Vishai/nba-integrity/pkg/season"

// RollingWindow is the game count for the moving net-rating average.
const RollingWindow = 15

// CloseGameNetRating is the |net rating| bound that marks a game as
// "close". Applied to the full-game net rating as a proxy for late-game
// margin, since play-by-play data is not ingested.
const CloseGameNetRating = 8.0

// RollingSnapshot is one sampled point of the rolling net-rating curve.
type RollingSnapshot struct {
	GameNumber int     `json:"game_number"`
	Rolling    float64 `json:"rolling_net_rating"`
}

// RollingNetRating summarizes the season's rolling net-rating curve and
// its steepest peak-to-subsequent-trough decline.
type RollingNetRating struct {
	SeasonNetRating float64           `json:"season_net_rating"`
	First15         float64           `json:"first_15_net_rating"`
	Last15          float64           `json:"last_15_net_rating"`
	Peak            float64           `json:"peak_rolling"`
	PeakGame        int               `json:"peak_game"`
	Trough          float64           `json:"trough_rolling"`
	TroughGame      int               `json:"trough_game"`
	MaxDecline      float64           `json:"max_decline"`
	Snapshots       []RollingSnapshot `json:"snapshots,omitempty"`
}

// CloseGames isolates performance in close games and blowout losses.
type CloseGames struct {
	CloseGames     int     `json:"close_games"`
	CloseWins      int     `json:"close_wins"`
	CloseLosses    int     `json:"close_losses"`
	CloseWinPct    float64 `json:"close_game_win_pct"`
	BlowoutLosses  int     `json:"blowout_losses"`
	BlowoutLossPct float64 `json:"blowout_loss_pct"`
}

// PrePostElim compares average ratings before and after elimination.
// Present is false when the season has no elimination point.
type PrePostElim struct {
	Present         bool    `json:"present"`
	EliminationDate string  `json:"elimination_date,omitempty"`
	EliminationGame int     `json:"elimination_game,omitempty"`
	PreElimGames    int     `json:"pre_elim_games"`
	PostElimGames   int     `json:"post_elim_games"`
	PreNetRating    float64 `json:"pre_elim_net_rating"`
	PostNetRating   float64 `json:"post_elim_net_rating"`
	NetRatingChange float64 `json:"net_rating_change"`
	PreOffRating    float64 `json:"pre_elim_off_rating"`
	PostOffRating   float64 `json:"post_elim_off_rating"`
	PreDefRating    float64 `json:"pre_elim_def_rating"`
	PostDefRating   float64 `json:"post_elim_def_rating"`
	CollapseFlag    bool    `json:"collapse_flag"`
}

// TrendBundle is the metrics input to the trend-collapse scorer.
type TrendBundle struct {
	Rolling     RollingNetRating `json:"rolling_net_rating"`
	CloseGames  CloseGames       `json:"close_games"`
	PrePostElim PrePostElim      `json:"pre_post_elim"`
	Error       string           `json:"error,omitempty"`
}

// BuildTrend derives the trend-collapse bundle. Games missing advanced
// ratings make the bundle carry an explicit error marker instead of
// failing; the scorer returns 0 for such bundles.
func BuildTrend(games []season.Game, elim *season.EliminationResult) *TrendBundle {
	b := &TrendBundle{}
	if len(games) == 0 {
		b.Error = errNoGameData
		return b
	}

	rated := ratedGames(games)
	if len(rated) == 0 {
		b.Error = errNoRatings
		return b
	}

	b.Rolling = buildRolling(rated)
	b.CloseGames = buildCloseGames(rated)
	b.PrePostElim = buildPrePostElim(rated, elim)
	return b
}

func ratedGames(games []season.Game) []season.Game {
	var out []season.Game
	for _, g := range games {
		if g.Ratings != nil {
			out = append(out, g)
		}
	}
	return out
}

func netRatings(games []season.Game) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = g.Ratings.Net
	}
	return out
}

func buildRolling(games []season.Game) RollingNetRating {
	nrs := netRatings(games)
	r := RollingNetRating{SeasonNetRating: round1(mean(nrs))}

	if len(nrs) >= RollingWindow {
		r.First15 = round1(mean(nrs[:RollingWindow]))
		r.Last15 = round1(mean(nrs[len(nrs)-RollingWindow:]))
	}
	if len(nrs) < RollingWindow {
		return r
	}

	// Rolling mean, full windows only. rolling[i] covers games
	// i-window+1 .. i.
	rolling := make([]float64, len(nrs))
	valid := make([]bool, len(nrs))
	var sum float64
	for i, v := range nrs {
		sum += v
		if i >= RollingWindow {
			sum -= nrs[i-RollingWindow]
		}
		if i >= RollingWindow-1 {
			rolling[i] = sum / RollingWindow
			valid[i] = true
		}
	}

	peakIdx, troughIdx := -1, -1
	for i := range rolling {
		if !valid[i] {
			continue
		}
		if peakIdx < 0 || rolling[i] > rolling[peakIdx] {
			peakIdx = i
		}
		if troughIdx < 0 || rolling[i] < rolling[troughIdx] {
			troughIdx = i
		}
	}

	r.Peak = round1(rolling[peakIdx])
	r.PeakGame = peakIdx + 1
	r.Trough = round1(rolling[troughIdx])
	r.TroughGame = troughIdx + 1

	// Steepest decline requires the peak to precede the trough. When the
	// global peak comes after the trough, search for the best peak at or
	// before the trough index instead.
	if peakIdx <= troughIdx {
		r.MaxDecline = round1(r.Peak - r.Trough)
	} else {
		alt := -1
		for i := 0; i <= troughIdx; i++ {
			if valid[i] && (alt < 0 || rolling[i] > rolling[alt]) {
				alt = i
			}
		}
		if alt >= 0 {
			r.MaxDecline = round1(round1(rolling[alt]) - r.Trough)
		}
	}

	// Sample every 10th game for display.
	for i := RollingWindow - 1; i < len(rolling); i += 10 {
		r.Snapshots = append(r.Snapshots, RollingSnapshot{
			GameNumber: i + 1,
			Rolling:    round1(rolling[i]),
		})
	}
	return r
}

func buildCloseGames(games []season.Game) CloseGames {
	var c CloseGames
	for _, g := range games {
		nr := g.Ratings.Net
		if nr >= -CloseGameNetRating && nr <= CloseGameNetRating {
			c.CloseGames++
			if g.Won {
				c.CloseWins++
			}
		}
		if !g.Won && nr < -15 {
			c.BlowoutLosses++
		}
	}
	c.CloseLosses = c.CloseGames - c.CloseWins
	if c.CloseGames > 0 {
		c.CloseWinPct = round3(float64(c.CloseWins) / float64(c.CloseGames))
	}
	if len(games) > 0 {
		c.BlowoutLossPct = round3(float64(c.BlowoutLosses) / float64(len(games)))
	}
	return c
}

func buildPrePostElim(games []season.Game, elim *season.EliminationResult) PrePostElim {
	if elim == nil || !elim.Eliminated {
		return PrePostElim{Present: false}
	}

	pre, post := season.SplitAtElimination(games, elim)
	if len(pre) == 0 || len(post) == 0 {
		return PrePostElim{Present: false}
	}

	avg := func(gs []season.Game, f func(*season.Efficiency) float64) float64 {
		vals := make([]float64, len(gs))
		for i, g := range gs {
			vals[i] = f(g.Ratings)
		}
		return round1(mean(vals))
	}

	p := PrePostElim{
		Present:         true,
		EliminationDate: elim.Date,
		EliminationGame: elim.GameNumber,
		PreElimGames:    len(pre),
		PostElimGames:   len(post),
		PreNetRating:    avg(pre, func(e *season.Efficiency) float64 { return e.Net }),
		PostNetRating:   avg(post, func(e *season.Efficiency) float64 { return e.Net }),
		PreOffRating:    avg(pre, func(e *season.Efficiency) float64 { return e.Offensive }),
		PostOffRating:   avg(post, func(e *season.Efficiency) float64 { return e.Offensive }),
		PreDefRating:    avg(pre, func(e *season.Efficiency) float64 { return e.Defensive }),
		PostDefRating:   avg(post, func(e *season.Efficiency) float64 { return e.Defensive }),
	}
	p.NetRatingChange = round1(p.PostNetRating - p.PreNetRating)
	p.CollapseFlag = p.NetRatingChange < -3.0
	return p
}
