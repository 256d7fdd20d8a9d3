package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

func TestAppendAssignsIdentityAndUnsynced(t *testing.T) {
	fixtureID := uuid.New()
	l := New(fixtureID)

	entry := l.Append(models.MatchEvent{
		Type:       models.EventGoal,
		PlayerName: "Somchai",
		TeamID:     "home",
		Time:       600,
	})
	if entry.ID == uuid.Nil {
		t.Fatal("append did not assign an id")
	}
	if entry.FixtureID != fixtureID {
		t.Fatalf("fixture id = %s, want %s", entry.FixtureID, fixtureID)
	}
	if entry.Synced {
		t.Fatal("new entry must start unsynced")
	}
	if l.Len() != 1 || l.PendingCount() != 1 {
		t.Fatalf("len=%d pending=%d", l.Len(), l.PendingCount())
	}
}

func TestFindDuplicate(t *testing.T) {
	l := New(uuid.New())
	playerID := uuid.New()

	first := l.Append(models.MatchEvent{
		Type:     models.EventGoal,
		PlayerID: &playerID,
		TeamID:   "home",
		Time:     600,
	})

	dup := models.MatchEvent{
		Type:     models.EventGoal,
		PlayerID: &playerID,
		TeamID:   "home",
		Time:     600,
	}
	if got := l.FindDuplicate(dup); got == nil || got.ID != first.ID {
		t.Fatalf("FindDuplicate = %v, want entry %s", got, first.ID)
	}

	// Any difference in the identity tuple is not a duplicate.
	otherPlayer := uuid.New()
	variants := []models.MatchEvent{
		{Type: models.EventGoal, PlayerID: &playerID, TeamID: "home", Time: 601},
		{Type: models.EventGoal, PlayerID: &playerID, TeamID: "away", Time: 600},
		{Type: models.EventAssist, PlayerID: &playerID, TeamID: "home", Time: 600},
		{Type: models.EventGoal, PlayerID: &otherPlayer, TeamID: "home", Time: 600},
		{Type: models.EventGoal, PlayerID: &playerID, TeamID: "home", Time: 600, IsOwnGoal: true},
		{Type: models.EventGoal, PlayerID: nil, TeamID: "home", Time: 600},
	}
	for i, v := range variants {
		if got := l.FindDuplicate(v); got != nil {
			t.Fatalf("variant %d unexpectedly matched %s", i, got.ID)
		}
	}

	// Caller skips the append: ledger length unchanged.
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestUnsyncedAndMarkSynced(t *testing.T) {
	l := New(uuid.New())
	a := l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "home", Time: 100})
	b := l.Append(models.MatchEvent{Type: models.EventYellowCard, TeamID: "away", Time: 200})
	c := l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "away", Time: 300})

	unsynced := l.Unsynced()
	if len(unsynced) != 3 {
		t.Fatalf("unsynced = %d, want 3", len(unsynced))
	}
	// Append order preserved.
	if unsynced[0].ID != a.ID || unsynced[1].ID != b.ID || unsynced[2].ID != c.ID {
		t.Fatal("unsynced entries out of append order")
	}

	l.MarkSynced([]uuid.UUID{a.ID, c.ID})
	unsynced = l.Unsynced()
	if len(unsynced) != 1 || unsynced[0].ID != b.ID {
		t.Fatalf("unsynced after mark = %+v", unsynced)
	}
	if l.PendingCount() != 1 {
		t.Fatalf("pending = %d, want 1", l.PendingCount())
	}
	// Ledger length never decreases from syncing.
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
}

func TestResetDropsEverything(t *testing.T) {
	l := New(uuid.New())
	l.Append(models.MatchEvent{Type: models.EventGoal, TeamID: "home", Time: 100})
	l.Reset()
	if l.Len() != 0 || l.PendingCount() != 0 {
		t.Fatalf("reset left len=%d pending=%d", l.Len(), l.PendingCount())
	}
}
