package metrics

import (
	"sort"

	"github.com/Vishai/nba-integrity/pkg/season"
)

// QualifiedMinutes is the season average minutes a player must log to be
// counted in availability analysis.
const QualifiedMinutes = 25.0

// PlayerAvailability summarizes one qualified player's absences.
type PlayerAvailability struct {
	PlayerID        int64   `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	AvgMinutes      float64 `json:"avg_minutes"`
	AvgPoints       float64 `json:"avg_pts"`
	GamesPlayed     int     `json:"games_played"`
	AbsentFromLog   int     `json:"absent_from_log"`
	DNPCount        int     `json:"dnp_count"`
	TotalMissed     int     `json:"total_missed"`
	PreElimMissed   int     `json:"pre_elim_missed"`
	PostElimMissed  int     `json:"post_elim_missed"`
	LossGamesMissed int     `json:"loss_games_missed"`
	WinGamesMissed  int     `json:"win_games_missed"`
}

// AbsenceSummary aggregates absences across all qualified players.
type AbsenceSummary struct {
	TotalAbsences       int     `json:"total_star_absences"`
	PossibleAppearances int     `json:"total_possible_appearances"`
	AbsenceRate         float64 `json:"absence_rate"`
	NumQualified        int     `json:"num_qualified"`
}

// Clustering compares post-elimination absence rates to pre-elimination.
// Present is false when the season has no elimination point; the cluster
// ratio is then not applicable.
type Clustering struct {
	Present          bool    `json:"present"`
	EliminationDate  string  `json:"elimination_date,omitempty"`
	EliminationGame  int     `json:"elimination_game_number,omitempty"`
	PreElimGames     int     `json:"pre_elim_games,omitempty"`
	PostElimGames    int     `json:"post_elim_games,omitempty"`
	PreElimAbsences  int     `json:"pre_elim_absences"`
	PostElimAbsences int     `json:"post_elim_absences"`
	PreElimRate      float64 `json:"pre_elim_absence_rate"`
	PostElimRate     float64 `json:"post_elim_absence_rate"`
	ClusterRatio     float64 `json:"cluster_ratio"`
	Flagged          bool    `json:"flag"`
}

// Distribution splits absences by game outcome. A loss-heavy skew is the
// rest-in-losses pattern the availability scorer penalizes.
type Distribution struct {
	TeamWins         int     `json:"team_wins"`
	TeamLosses       int     `json:"team_losses"`
	AbsencesInLosses int     `json:"absences_in_losses"`
	AbsencesInWins   int     `json:"absences_in_wins"`
	LossAbsenceRate  float64 `json:"loss_absence_rate"`
	WinAbsenceRate   float64 `json:"win_absence_rate"`
}

// AvailabilityBundle is the metrics input to the availability scorer.
type AvailabilityBundle struct {
	QualifiedPlayers []PlayerAvailability `json:"qualified_players"`
	TotalGames       int                  `json:"total_games"`
	AbsenceSummary   AbsenceSummary       `json:"absence_summary"`
	Clustering       Clustering           `json:"clustering"`
	Distribution     Distribution         `json:"distribution"`
	Error            string               `json:"error,omitempty"`
}

// BuildAvailability derives the availability bundle from the team and
// player game logs. An absence for a qualified player is either a game
// with no record at all ("absent from log") or a record with zero or
// negative minutes (DNP); both count toward total absences.
func BuildAvailability(games []season.Game, playerGames []season.PlayerGame, elim *season.EliminationResult) *AvailabilityBundle {
	b := &AvailabilityBundle{}
	if len(playerGames) == 0 || len(games) == 0 {
		b.Error = errNoPlayerData
		return b
	}

	totalGames := len(games)
	b.TotalGames = totalGames
	gameByID := make(map[string]season.Game, totalGames)
	for _, g := range games {
		gameByID[g.GameID] = g
	}

	elimDate := ""
	if elim != nil && elim.Eliminated {
		elimDate = elim.Date
	}

	// Group player games by player, preserving first-seen order before
	// sorting by minutes so output stays deterministic.
	type agg struct {
		name    string
		minutes []float64
		points  []float64
		games   map[string]bool
		dnps    int
	}
	byPlayer := make(map[int64]*agg)
	var order []int64
	for _, pg := range playerGames {
		a, ok := byPlayer[pg.PlayerID]
		if !ok {
			a = &agg{name: pg.PlayerName, games: make(map[string]bool)}
			byPlayer[pg.PlayerID] = a
			order = append(order, pg.PlayerID)
		}
		a.minutes = append(a.minutes, pg.Minutes)
		a.points = append(a.points, float64(pg.Points))
		if pg.Minutes <= 0 {
			a.dnps++
		} else {
			a.games[pg.GameID] = true
		}
	}

	var players []PlayerAvailability
	for _, pid := range order {
		a := byPlayer[pid]
		avgMin := mean(a.minutes)
		if avgMin < QualifiedMinutes {
			continue
		}

		p := PlayerAvailability{
			PlayerID:    pid,
			PlayerName:  a.name,
			AvgMinutes:  round1(avgMin),
			AvgPoints:   round1(mean(a.points)),
			GamesPlayed: len(a.minutes),
			DNPCount:    a.dnps,
		}

		for _, g := range games {
			if a.games[g.GameID] {
				continue
			}
			if hasRecord(playerGames, pid, g.GameID) {
				// DNP row: counted toward TotalMissed via DNPCount, but the
				// pre/post and win/loss splits only track games the player
				// was absent from entirely.
				continue
			}
			p.AbsentFromLog++
			if elimDate != "" {
				if g.Date >= elimDate {
					p.PostElimMissed++
				} else {
					p.PreElimMissed++
				}
			}
			if g.Won {
				p.WinGamesMissed++
			} else {
				p.LossGamesMissed++
			}
		}
		p.TotalMissed = p.AbsentFromLog + p.DNPCount
		players = append(players, p)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].AvgMinutes != players[j].AvgMinutes {
			return players[i].AvgMinutes > players[j].AvgMinutes
		}
		return players[i].PlayerID < players[j].PlayerID
	})
	b.QualifiedPlayers = players

	totalAbsences := 0
	for _, p := range players {
		totalAbsences += p.TotalMissed
	}
	possible := len(players) * totalGames
	rate := 0.0
	if possible > 0 {
		rate = float64(totalAbsences) / float64(possible)
	}
	b.AbsenceSummary = AbsenceSummary{
		TotalAbsences:       totalAbsences,
		PossibleAppearances: possible,
		AbsenceRate:         round3(rate),
		NumQualified:        len(players),
	}

	b.Clustering = buildClustering(players, totalGames, elim)
	b.Distribution = buildDistribution(players, games)
	return b
}

func hasRecord(playerGames []season.PlayerGame, playerID int64, gameID string) bool {
	for _, pg := range playerGames {
		if pg.PlayerID == playerID && pg.GameID == gameID {
			return true
		}
	}
	return false
}

func buildClustering(players []PlayerAvailability, totalGames int, elim *season.EliminationResult) Clustering {
	if elim == nil || !elim.Eliminated || len(players) == 0 {
		return Clustering{Present: false}
	}

	preGames := elim.GameNumber
	postGames := totalGames - elim.GameNumber

	var preAbs, postAbs int
	for _, p := range players {
		preAbs += p.PreElimMissed
		postAbs += p.PostElimMissed
	}

	var preRate, postRate float64
	if preGames > 0 {
		preRate = float64(preAbs) / float64(len(players)*preGames)
	}
	if postGames > 0 {
		postRate = float64(postAbs) / float64(len(players)*postGames)
	}

	ratio := 0.0
	if preRate > 0 {
		ratio = postRate / preRate
	}

	return Clustering{
		Present:          true,
		EliminationDate:  elim.Date,
		EliminationGame:  elim.GameNumber,
		PreElimGames:     preGames,
		PostElimGames:    postGames,
		PreElimAbsences:  preAbs,
		PostElimAbsences: postAbs,
		PreElimRate:      round3(preRate),
		PostElimRate:     round3(postRate),
		ClusterRatio:     round2(ratio),
		Flagged:          ratio >= 2.0,
	}
}

func buildDistribution(players []PlayerAvailability, games []season.Game) Distribution {
	wins, losses := season.Record(games)
	d := Distribution{TeamWins: wins, TeamLosses: losses}
	if len(players) == 0 {
		return d
	}
	for _, p := range players {
		d.AbsencesInLosses += p.LossGamesMissed
		d.AbsencesInWins += p.WinGamesMissed
	}
	if losses > 0 {
		d.LossAbsenceRate = round3(float64(d.AbsencesInLosses) / float64(len(players)*losses))
	}
	if wins > 0 {
		d.WinAbsenceRate = round3(float64(d.AbsencesInWins) / float64(len(players)*wins))
	}
	return d
}
