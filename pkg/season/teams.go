package season

import (
	"fmt"
	"strings"
)

// Team is one franchise in the static registry.
type Team struct {
	ID         int64  `json:"id"`
	Abbr       string `json:"abbreviation"`
	Name       string `json:"full_name"`
	Conference string `json:"conference"`
}

// AmbiguousTeamError is returned when a human-provided team reference
// matches more than one franchise. It carries the candidate matches so
// callers can present them instead of silently picking one.
type AmbiguousTeamError struct {
	Query      string
	Candidates []Team
}

func (e *AmbiguousTeamError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, t := range e.Candidates {
		names[i] = t.Name
	}
	return fmt.Sprintf("ambiguous team %q: candidates %s", e.Query, strings.Join(names, ", "))
}

// Teams is the static table of the 30 NBA franchises.
var Teams = []Team{
	{1610612737, "ATL", "Atlanta Hawks", "East"},
	{1610612738, "BOS", "Boston Celtics", "East"},
	{1610612751, "BKN", "Brooklyn Nets", "East"},
	{1610612766, "CHA", "Charlotte Hornets", "East"},
	{1610612741, "CHI", "Chicago Bulls", "East"},
	{1610612739, "CLE", "Cleveland Cavaliers", "East"},
	{1610612742, "DAL", "Dallas Mavericks", "West"},
	{1610612743, "DEN", "Denver Nuggets", "West"},
	{1610612765, "DET", "Detroit Pistons", "East"},
	{1610612744, "GSW", "Golden State Warriors", "West"},
	{1610612745, "HOU", "Houston Rockets", "West"},
	{1610612754, "IND", "Indiana Pacers", "East"},
	{1610612746, "LAC", "LA Clippers", "West"},
	{1610612747, "LAL", "Los Angeles Lakers", "West"},
	{1610612763, "MEM", "Memphis Grizzlies", "West"},
	{1610612748, "MIA", "Miami Heat", "East"},
	{1610612749, "MIL", "Milwaukee Bucks", "East"},
	{1610612750, "MIN", "Minnesota Timberwolves", "West"},
	{1610612740, "NOP", "New Orleans Pelicans", "West"},
	{1610612752, "NYK", "New York Knicks", "East"},
	{1610612760, "OKC", "Oklahoma City Thunder", "West"},
	{1610612753, "ORL", "Orlando Magic", "East"},
	{1610612755, "PHI", "Philadelphia 76ers", "East"},
	{1610612756, "PHX", "Phoenix Suns", "West"},
	{1610612757, "POR", "Portland Trail Blazers", "West"},
	{1610612758, "SAC", "Sacramento Kings", "West"},
	{1610612759, "SAS", "San Antonio Spurs", "West"},
	{1610612761, "TOR", "Toronto Raptors", "East"},
	{1610612762, "UTA", "Utah Jazz", "West"},
	{1610612764, "WAS", "Washington Wizards", "East"},
}

// LookupTeam resolves a team by abbreviation ("UTA"), full name
// ("Utah Jazz"), or partial name ("jazz"). A query matching more than
// one franchise fails with *AmbiguousTeamError.
func LookupTeam(query string) (Team, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Team{}, fmt.Errorf("team is required")
	}

	if len(q) <= 4 {
		upper := strings.ToUpper(q)
		for _, t := range Teams {
			if t.Abbr == upper {
				return t, nil
			}
		}
	}

	lowered := strings.ToLower(q)
	var exact, partial []Team
	for _, t := range Teams {
		full := strings.ToLower(t.Name)
		if full == lowered {
			exact = append(exact, t)
		} else if strings.Contains(full, lowered) {
			partial = append(partial, t)
		}
	}

	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) == 0 && len(partial) == 1 {
		return partial[0], nil
	}

	candidates := exact
	candidates = append(candidates, partial...)
	if len(candidates) > 1 {
		return Team{}, &AmbiguousTeamError{Query: query, Candidates: candidates}
	}
	return Team{}, fmt.Errorf("team not found: %q", query)
}

// TeamByID returns the registry entry for a team id.
func TeamByID(id int64) (Team, bool) {
	for _, t := range Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// ConferenceOf returns "East" or "West" for a known team id.
func ConferenceOf(teamID int64) (string, error) {
	if t, ok := TeamByID(teamID); ok {
		return t.Conference, nil
	}
	return "", fmt.Errorf("unknown team id %d", teamID)
}
