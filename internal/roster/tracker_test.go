package roster

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

func testPlayer(name string, role models.PlayerRole) models.Player {
	return models.Player{
		ID:   uuid.New(),
		Name: name,
		Role: role,
	}
}

func TestAddPlayerStartsOnField(t *testing.T) {
	tr := NewTracker()
	p := testPlayer("Somchai", models.RoleStarter)

	session, err := tr.AddPlayer(p, "home", 120)
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if !session.IsPlaying {
		t.Fatal("new session should be playing")
	}
	if session.StartTime == nil || *session.StartTime != 120 {
		t.Fatalf("StartTime = %v, want 120", session.StartTime)
	}
	if session.TotalTime != 0 {
		t.Fatalf("TotalTime = %d, want 0", session.TotalTime)
	}

	if _, err := tr.AddPlayer(p, "home", 130); !errors.Is(err, ErrDuplicateTracking) {
		t.Fatalf("duplicate add error = %v, want ErrDuplicateTracking", err)
	}
}

func TestRemovePlayer(t *testing.T) {
	tr := NewTracker()
	p := testPlayer("Somchai", models.RoleOther)
	if _, err := tr.AddPlayer(p, "home", 0); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}

	if _, err := tr.RemovePlayer(p.ID); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if tr.Len() != 0 {
		t.Fatalf("Len = %d after removal", tr.Len())
	}
	if _, err := tr.RemovePlayer(p.ID); !errors.Is(err, ErrNotTracked) {
		t.Fatalf("second removal error = %v, want ErrNotTracked", err)
	}
}

func TestToggleAccumulatesStints(t *testing.T) {
	tr := NewTracker()
	p := testPlayer("Somchai", models.RoleStarter)
	if _, err := tr.AddPlayer(p, "home", 0); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}

	// Off at 9:00.
	session, err := tr.Toggle(p.ID, 540)
	if err != nil {
		t.Fatalf("Toggle off: %v", err)
	}
	if session.IsPlaying || session.StartTime != nil {
		t.Fatalf("toggle off left session playing: %+v", session)
	}
	if session.TotalTime != 540 {
		t.Fatalf("TotalTime = %d, want 540", session.TotalTime)
	}

	// Back on at 20:00, off again at 25:00.
	if _, err := tr.Toggle(p.ID, 1200); err != nil {
		t.Fatalf("Toggle on: %v", err)
	}
	session, err = tr.Toggle(p.ID, 1500)
	if err != nil {
		t.Fatalf("Toggle off: %v", err)
	}
	if session.TotalTime != 840 {
		t.Fatalf("TotalTime = %d, want 840 (540 + 300)", session.TotalTime)
	}

	if _, err := tr.Toggle(uuid.New(), 0); !errors.Is(err, ErrNotTracked) {
		t.Fatalf("toggle unknown error = %v, want ErrNotTracked", err)
	}
}

func TestActiveTimeIncludesOpenStint(t *testing.T) {
	tr := NewTracker()
	p := testPlayer("Somchai", models.RoleOther)
	session, _ := tr.AddPlayer(p, "home", 100)

	if got := session.ActiveTime(400); got != 300 {
		t.Fatalf("ActiveTime = %d, want 300", got)
	}
	if _, err := tr.Toggle(p.ID, 400); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if got := session.ActiveTime(900); got != 300 {
		t.Fatalf("ActiveTime while off = %d, want 300", got)
	}
}

func TestTickAdvancesHalfTimeForPlayingOnly(t *testing.T) {
	tr := NewTracker()
	on := testPlayer("On", models.RoleSClass)
	off := testPlayer("Off", models.RoleSClass)
	tr.AddPlayer(on, "home", 0)
	tr.AddPlayer(off, "home", 0)
	if _, err := tr.Toggle(off.ID, 0); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	for i := 0; i < 10; i++ {
		tr.Tick()
	}

	onSession, _ := tr.Get(on.ID)
	offSession, _ := tr.Get(off.ID)
	if onSession.CurrentHalfTime != 10 {
		t.Fatalf("on-field half time = %d, want 10", onSession.CurrentHalfTime)
	}
	if offSession.CurrentHalfTime != 0 {
		t.Fatalf("off-field half time = %d, want 0", offSession.CurrentHalfTime)
	}

	tr.ResetHalfTime()
	if onSession.CurrentHalfTime != 0 {
		t.Fatalf("half time not cleared: %d", onSession.CurrentHalfTime)
	}
}

func TestPlayerCountValidation(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 7; i++ {
		tr.AddPlayer(testPlayer("h", models.RoleOther), "home", 0)
	}
	for i := 0; i < 5; i++ {
		tr.AddPlayer(testPlayer("a", models.RoleOther), "away", 0)
	}

	home := tr.PlayerCountValidation("home")
	if !home.IsValid || home.Severity != "ok" || home.ActiveCount != 7 {
		t.Fatalf("home validation = %+v", home)
	}

	away := tr.PlayerCountValidation("away")
	if away.IsValid || away.Severity != "warning" || away.ActiveCount != 5 {
		t.Fatalf("away validation = %+v", away)
	}

	// Over-filled team is a warning too, not an error.
	for i := 0; i < 3; i++ {
		tr.AddPlayer(testPlayer("a", models.RoleOther), "away", 0)
	}
	away = tr.PlayerCountValidation("away")
	if away.IsValid || away.Severity != "warning" || away.ActiveCount != 8 {
		t.Fatalf("over-filled validation = %+v", away)
	}
}
