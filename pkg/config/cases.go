package config

import (
	"fmt"
	"strings"

	"github.com/Vishai/nba-integrity/pkg/season"
)

// BuiltInCases returns the calibration case studies that ship with the
// binary. Each one is a historically documented team-season with a
// consensus expected classification, used to sanity-check scoring
// changes.
func BuiltInCases() []season.Case {
	return []season.Case{
		{
			ID: "A", TeamAbbr: "PHI", TeamID: 1610612755,
			TeamName: "Philadelphia 76ers", Season: "2013-14",
			Archetype: "The Obvious Tank", Expected: "Red",
			CutoffSeed: 8, BuiltIn: true,
		},
		{
			ID: "B", TeamAbbr: "PHI", TeamID: 1610612755,
			TeamName: "Philadelphia 76ers", Season: "2015-16",
			Archetype: "The Obvious Tank (sustained)", Expected: "Red",
			CutoffSeed: 8, BuiltIn: true,
		},
		{
			ID: "C", TeamAbbr: "POR", TeamID: 1610612757,
			TeamName: "Portland Trail Blazers", Season: "2022-23",
			Archetype: "Mid-Season Pivot / Integrity Failure", Expected: "Orange/Red",
			CutoffSeed: 10, BuiltIn: true,
		},
		{
			ID: "D", TeamAbbr: "WAS", TeamID: 1610612764,
			TeamName: "Washington Wizards", Season: "2023-24",
			Archetype: "Legitimate Rebuild vs. Obvious Tank (ambiguous)", Expected: "Yellow/Orange",
			CutoffSeed: 10, BuiltIn: true,
		},
		{
			ID: "E", TeamAbbr: "UTA", TeamID: 1610612762,
			TeamName: "Utah Jazz", Season: "2024-25",
			Archetype: "The Obvious Tank (current)", Expected: "Red",
			CutoffSeed: 10, BuiltIn: true,
		},
		{
			ID: "F", TeamAbbr: "MIN", TeamID: 1610612750,
			TeamName: "Minnesota Timberwolves", Season: "2014-15",
			Archetype: "Legitimate Rebuild (control)", Expected: "Green",
			CutoffSeed: 8, BuiltIn: true,
		},
		{
			ID: "G", TeamAbbr: "GSW", TeamID: 1610612744,
			TeamName: "Golden State Warriors", Season: "2019-20",
			Archetype: "Injury-Wrecked Contender (control)", Expected: "Green",
			CutoffSeed: 10, BuiltIn: true,
		},
		{
			ID: "H", TeamAbbr: "OKC", TeamID: 1610612760,
			TeamName: "Oklahoma City Thunder", Season: "2023-24",
			Archetype: "Competitive Team, Strategic Rest/Shelving", Expected: "Yellow",
			CutoffSeed: 10, BuiltIn: true,
		},
	}
}

// BuiltInCase resolves a built-in case by its letter id.
func BuiltInCase(id string) (season.Case, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	var valid []string
	for _, c := range BuiltInCases() {
		if c.ID == id {
			return c, nil
		}
		valid = append(valid, c.ID)
	}
	return season.Case{}, fmt.Errorf("unknown case %q, valid: %s", id, strings.Join(valid, ", "))
}
