package ledger

import (
	"strings"

	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

// Score is the goal tally derived from the ledger. The session engine keeps
// its own directly-mutated counters as the authoritative score; this
// derivation exists for cross-checking and audit.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// ComputeScore scans goal entries and attributes each to a side by matching
// the entry's team identifier against the fixture's team ids, falling back to
// team names. Matching is case- and whitespace-insensitive. An own goal
// credits the opposing side. Entries that match neither side stay in the
// ledger but are returned as data-integrity warnings instead of being
// silently dropped.
func ComputeScore(events []*models.MatchEvent, fixture models.Fixture) (Score, []models.MatchEvent) {
	var score Score
	var unmatched []models.MatchEvent

	for _, e := range events {
		if e.Type != models.EventGoal {
			continue
		}
		side, ok := matchSide(e.TeamID, fixture)
		if !ok {
			unmatched = append(unmatched, *e)
			continue
		}
		if e.IsOwnGoal {
			side = opposite(side)
		}
		if side == "home" {
			score.Home++
		} else {
			score.Away++
		}
	}
	return score, unmatched
}

// SideForTeam resolves a raw team identifier to "home" or "away" for a
// fixture, using the same normalized id/name matching as ComputeScore.
func SideForTeam(teamID string, fixture models.Fixture) (string, bool) {
	return matchSide(teamID, fixture)
}

func matchSide(teamID string, fixture models.Fixture) (string, bool) {
	id := normalize(teamID)
	if id == "" {
		return "", false
	}
	switch id {
	case normalize(fixture.HomeTeamID.String()), normalize(fixture.HomeTeamName), "home":
		return "home", true
	case normalize(fixture.AwayTeamID.String()), normalize(fixture.AwayTeamName), "away":
		return "away", true
	}
	return "", false
}

func opposite(side string) string {
	if side == "home" {
		return "away"
	}
	return "home"
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
