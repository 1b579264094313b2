package season

import (
	"fmt"
	"sort"
)

// EliminationResult marks the chronological point past which a team could
// not mathematically reach the playoff cutoff. Eliminated is false when
// the team's maximum possible win total never fell below the cutoff; the
// split fields are zero-valued in that case and downstream pre/post
// analysis must treat the season as having no elimination point.
type EliminationResult struct {
	Eliminated      bool   `json:"eliminated"`
	Date            string `json:"elimination_date,omitempty"`
	GameNumber      int    `json:"elimination_game_number,omitempty"`
	MaxPossibleWins int    `json:"max_possible_wins_at_elimination,omitempty"`
	CutoffWins      int    `json:"playoff_cutoff_wins"`
	CutoffSeed      int    `json:"playoff_cutoff_seed"`
	Conference      string `json:"conference"`
	FinalWins       int    `json:"final_wins"`
	FinalLosses     int    `json:"final_losses"`
	Note            string `json:"note,omitempty"`
}

// CutoffWins returns the win total of the seed-ranked team in the given
// conference. Fails when fewer than cutoffSeed teams are present.
func CutoffWins(standings []Standing, conference string, cutoffSeed int) (int, error) {
	var conf []Standing
	for _, s := range standings {
		if s.Conference == conference {
			conf = append(conf, s)
		}
	}
	if len(conf) < cutoffSeed {
		return 0, fmt.Errorf("%w: only %d teams in %s standings, need %d",
			ErrMissingData, len(conf), conference, cutoffSeed)
	}
	sort.Slice(conf, func(i, j int) bool { return conf[i].Wins > conf[j].Wins })
	return conf[cutoffSeed-1].Wins, nil
}

// ResolveElimination walks the game log in chronological order and finds
// the first game after which wins_so_far + remaining games falls short of
// the cutoff win total. Games must already be normalized via SortGames.
func ResolveElimination(games []Game, standings []Standing, conference string, cutoffSeed int) (*EliminationResult, error) {
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: no game records", ErrMissingData)
	}
	if len(standings) == 0 {
		return nil, fmt.Errorf("%w: no standings", ErrMissingData)
	}

	cutoff, err := CutoffWins(standings, conference, cutoffSeed)
	if err != nil {
		return nil, err
	}

	total := len(games)
	result := &EliminationResult{
		CutoffWins: cutoff,
		CutoffSeed: cutoffSeed,
		Conference: conference,
	}

	wins := 0
	for _, g := range games {
		if g.Won {
			wins++
		}
		maxPossible := wins + (total - g.Number)
		if !result.Eliminated && maxPossible < cutoff {
			result.Eliminated = true
			result.Date = g.Date
			result.GameNumber = g.Number
			result.MaxPossibleWins = maxPossible
		}
	}

	result.FinalWins, result.FinalLosses = Record(games)
	if !result.Eliminated {
		result.Note = fmt.Sprintf("finished %s, cutoff was %d wins (seed %d); never mathematically eliminated",
			FormatRecord(result.FinalWins, result.FinalLosses), cutoff, cutoffSeed)
	}
	return result, nil
}

// SplitAtElimination partitions games into the pre-elimination window
// (through the elimination game inclusive) and the post-elimination
// window. A nil or not-eliminated result yields all games as "pre".
func SplitAtElimination(games []Game, elim *EliminationResult) (pre, post []Game) {
	if elim == nil || !elim.Eliminated {
		return games, nil
	}
	for _, g := range games {
		if g.Number <= elim.GameNumber {
			pre = append(pre, g)
		} else {
			post = append(post, g)
		}
	}
	return pre, post
}
