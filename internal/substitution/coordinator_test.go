package substitution

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/roster"
)

type fixture struct {
	tracker *roster.Tracker
	coord   *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tracker := roster.NewTracker()
	return &fixture{tracker: tracker, coord: NewCoordinator(tracker)}
}

// addPlaying tracks a player who is currently on the field.
func (f *fixture) addPlaying(t *testing.T, name string, totalTime int) uuid.UUID {
	t.Helper()
	p := models.Player{ID: uuid.New(), Name: name, Role: models.RoleOther}
	if _, err := f.tracker.AddPlayer(p, "home", 0); err != nil {
		t.Fatalf("AddPlayer %s: %v", name, err)
	}
	if totalTime > 0 {
		// Close a stint to accrue history, then re-enter.
		if _, err := f.tracker.Toggle(p.ID, totalTime); err != nil {
			t.Fatalf("Toggle %s: %v", name, err)
		}
		if _, err := f.tracker.Toggle(p.ID, totalTime); err != nil {
			t.Fatalf("Toggle %s: %v", name, err)
		}
	}
	return p.ID
}

// addBenched tracks a player who is off the field with the given history.
func (f *fixture) addBenched(t *testing.T, name string, totalTime int) uuid.UUID {
	t.Helper()
	id := f.addPlaying(t, name, 0)
	if _, err := f.tracker.Toggle(id, totalTime); err != nil {
		t.Fatalf("bench %s: %v", name, err)
	}
	return id
}

func TestInitiateSubOut(t *testing.T) {
	f := newFixture(t)
	a := f.addPlaying(t, "A", 300)

	res, err := f.coord.Toggle(a, 600)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if res.Outcome != OutcomePendingSubOut {
		t.Fatalf("outcome = %s, want PENDING_SUB_OUT", res.Outcome)
	}
	pending := f.coord.Pending()
	if pending == nil || pending.PlayerID != a || pending.Type != SubOut {
		t.Fatalf("pending = %+v", pending)
	}
	// No toggle happened yet.
	session, _ := f.tracker.Get(a)
	if !session.IsPlaying {
		t.Fatal("sub-out initiation must not move the player")
	}
}

func TestInitiateSubIn(t *testing.T) {
	f := newFixture(t)
	b := f.addBenched(t, "B", 400)

	res, err := f.coord.Toggle(b, 700)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if res.Outcome != OutcomePendingSubIn {
		t.Fatalf("outcome = %s, want PENDING_SUB_IN", res.Outcome)
	}
	session, _ := f.tracker.Get(b)
	if session.IsPlaying {
		t.Fatal("sub-in initiation must not move the player")
	}
}

func TestCompleteFromSubIn(t *testing.T) {
	f := newFixture(t)
	b := f.addBenched(t, "B", 400)
	a := f.addPlaying(t, "A", 0)

	if _, err := f.coord.Toggle(b, 700); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	res, err := f.coord.Toggle(a, 720)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Outcome != OutcomeCompleted {
		t.Fatalf("outcome = %s, want COMPLETE_SUBSTITUTION", res.Outcome)
	}
	if res.Outgoing.PlayerID != a || res.Incoming.PlayerID != b {
		t.Fatalf("pair = out:%s in:%s", res.Outgoing.Name, res.Incoming.Name)
	}

	aSession, _ := f.tracker.Get(a)
	bSession, _ := f.tracker.Get(b)
	if aSession.IsPlaying || !bSession.IsPlaying {
		t.Fatalf("swap not applied: a playing=%v b playing=%v", aSession.IsPlaying, bSession.IsPlaying)
	}
	if f.coord.Pending() != nil {
		t.Fatal("pending slot not cleared after completion")
	}
}

func TestCompleteFromSubOut(t *testing.T) {
	f := newFixture(t)
	a := f.addPlaying(t, "A", 300)
	b := f.addBenched(t, "B", 400)

	if _, err := f.coord.Toggle(a, 600); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	res, err := f.coord.Toggle(b, 630)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Outcome != OutcomeCompleted {
		t.Fatalf("outcome = %s, want COMPLETE_SUBSTITUTION", res.Outcome)
	}
	if res.Outgoing.PlayerID != a || res.Incoming.PlayerID != b {
		t.Fatalf("pair = out:%s in:%s", res.Outgoing.Name, res.Incoming.Name)
	}
	if f.coord.Pending() != nil {
		t.Fatal("pending slot not cleared")
	}
}

// A fresh player with no history bypasses pairing entirely, even while a
// sub-out is pending for somebody else.
func TestFreshPlayerStandardToggleLeavesPending(t *testing.T) {
	f := newFixture(t)
	a := f.addPlaying(t, "A", 300)
	b := f.addBenched(t, "B", 0)

	if _, err := f.coord.Toggle(a, 600); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	res, err := f.coord.Toggle(b, 610)
	if err != nil {
		t.Fatalf("toggle fresh: %v", err)
	}
	if res.Outcome != OutcomeToggled {
		t.Fatalf("outcome = %s, want STANDARD_TOGGLE", res.Outcome)
	}
	bSession, _ := f.tracker.Get(b)
	if !bSession.IsPlaying {
		t.Fatal("fresh player did not enter the field")
	}
	pending := f.coord.Pending()
	if pending == nil || pending.PlayerID != a {
		t.Fatalf("pending for A should remain, got %+v", pending)
	}
}

func TestSecondInitiationRejected(t *testing.T) {
	f := newFixture(t)
	b := f.addBenched(t, "B", 400)
	c := f.addBenched(t, "C", 500)

	if _, err := f.coord.Toggle(b, 700); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	_, err := f.coord.Toggle(c, 710)
	if !errors.Is(err, ErrSubstitutionAlreadyPending) {
		t.Fatalf("err = %v, want ErrSubstitutionAlreadyPending", err)
	}
	// Original pending record untouched.
	if p := f.coord.Pending(); p == nil || p.PlayerID != b {
		t.Fatalf("pending = %+v", p)
	}
}

func TestOnFieldTapRejectedWhileSubOutPending(t *testing.T) {
	f := newFixture(t)
	a := f.addPlaying(t, "A", 300)
	c := f.addPlaying(t, "C", 200)

	if _, err := f.coord.Toggle(a, 600); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if _, err := f.coord.Toggle(c, 610); !errors.Is(err, ErrSubstitutionAlreadyPending) {
		t.Fatalf("want ErrSubstitutionAlreadyPending, got %v", err)
	}
}

func TestSelfTapCancelsSubIn(t *testing.T) {
	f := newFixture(t)
	b := f.addBenched(t, "B", 400)

	if _, err := f.coord.Toggle(b, 700); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	res, err := f.coord.Toggle(b, 705)
	if err != nil {
		t.Fatalf("self tap: %v", err)
	}
	if res.Outcome != OutcomeCancelled {
		t.Fatalf("outcome = %s, want CANCELLED", res.Outcome)
	}
	if f.coord.Pending() != nil {
		t.Fatal("pending slot not cleared")
	}
	session, _ := f.tracker.Get(b)
	if session.IsPlaying {
		t.Fatal("cancelled sub-in must not move the player")
	}
}

func TestSelfTapResolvesSubOut(t *testing.T) {
	f := newFixture(t)
	a := f.addPlaying(t, "A", 300)

	if _, err := f.coord.Toggle(a, 600); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	res, err := f.coord.Toggle(a, 650)
	if err != nil {
		t.Fatalf("self tap: %v", err)
	}
	if res.Outcome != OutcomeToggled {
		t.Fatalf("outcome = %s, want STANDARD_TOGGLE", res.Outcome)
	}
	if f.coord.Pending() != nil {
		t.Fatal("pending slot should clear when the outgoing player leaves")
	}
	session, _ := f.tracker.Get(a)
	if session.IsPlaying {
		t.Fatal("player should have left the field")
	}
}

func TestCancelPendingAlwaysSafe(t *testing.T) {
	f := newFixture(t)
	f.coord.CancelPending() // no-op with nothing pending

	a := f.addPlaying(t, "A", 300)
	if _, err := f.coord.Toggle(a, 600); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	f.coord.CancelPending()
	if f.coord.Pending() != nil {
		t.Fatal("pending not cleared")
	}
}

// Substitution completeness: a completed pair flips exactly one player each way.
func TestCompletionFlipsExactlyOnePlayerEachWay(t *testing.T) {
	f := newFixture(t)
	a := f.addPlaying(t, "A", 300)
	b := f.addBenched(t, "B", 400)
	c := f.addPlaying(t, "C", 0)
	d := f.addBenched(t, "D", 0)

	before := map[uuid.UUID]bool{}
	for _, s := range f.tracker.Sessions() {
		before[s.PlayerID] = s.IsPlaying
	}

	if _, err := f.coord.Toggle(a, 600); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if _, err := f.coord.Toggle(b, 610); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var on2off, off2on int
	for _, s := range f.tracker.Sessions() {
		switch {
		case before[s.PlayerID] && !s.IsPlaying:
			on2off++
		case !before[s.PlayerID] && s.IsPlaying:
			off2on++
		}
	}
	if on2off != 1 || off2on != 1 {
		t.Fatalf("on->off = %d, off->on = %d, want 1 and 1", on2off, off2on)
	}
	_ = c
	_ = d
}
