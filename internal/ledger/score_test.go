package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

func scoreFixture() models.Fixture {
	return models.Fixture{
		ID:           uuid.New(),
		HomeTeamID:   uuid.New(),
		AwayTeamID:   uuid.New(),
		HomeTeamName: "Paknam FC",
		AwayTeamName: "Bangna United",
	}
}

func TestComputeScoreByIDAndName(t *testing.T) {
	fixture := scoreFixture()
	l := New(fixture.ID)

	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: fixture.HomeTeamID.String(), Time: 100})
	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "  Paknam FC ", Time: 200})
	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "bangna united", Time: 300})
	l.Append(models.MatchEvent{Type: models.EventYellowCard, TeamID: "Paknam FC", Time: 400})

	score, unmatched := ComputeScore(l.Events(), fixture)
	if score.Home != 2 || score.Away != 1 {
		t.Fatalf("score = %d-%d, want 2-1", score.Home, score.Away)
	}
	if len(unmatched) != 0 {
		t.Fatalf("unmatched = %d, want 0", len(unmatched))
	}
}

func TestComputeScoreOwnGoalCreditsOpponent(t *testing.T) {
	fixture := scoreFixture()
	l := New(fixture.ID)

	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "home", Time: 100, IsOwnGoal: true})

	score, _ := ComputeScore(l.Events(), fixture)
	if score.Home != 0 || score.Away != 1 {
		t.Fatalf("score = %d-%d, want 0-1", score.Home, score.Away)
	}
}

func TestComputeScoreUnmatchedIsWarningNotDrop(t *testing.T) {
	fixture := scoreFixture()
	l := New(fixture.ID)

	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "Mystery FC", Time: 100})
	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "", Time: 150})
	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "home", Time: 200})

	score, unmatched := ComputeScore(l.Events(), fixture)
	if score.Home != 1 || score.Away != 0 {
		t.Fatalf("score = %d-%d, want 1-0", score.Home, score.Away)
	}
	if len(unmatched) != 2 {
		t.Fatalf("unmatched = %d, want 2", len(unmatched))
	}
	// The entries stay in the ledger either way.
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
}

func TestComputeScoreDeterministic(t *testing.T) {
	fixture := scoreFixture()
	l := New(fixture.ID)
	for i := 0; i < 4; i++ {
		l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "home", Time: 100 * i})
	}
	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "away", Time: 500})

	first, _ := ComputeScore(l.Events(), fixture)
	second, _ := ComputeScore(l.Events(), fixture)
	if first != second {
		t.Fatalf("recomputation differs: %+v vs %+v", first, second)
	}
	if first.Home != 4 || first.Away != 1 {
		t.Fatalf("score = %d-%d, want 4-1", first.Home, first.Away)
	}
}
