package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

// Ledger is the append-only local log of match events for one session.
// Entries are never mutated after append except for the Synced flag, and are
// only removed by a full match reset. Append order is the tie-break for
// entries with equal match time. Not goroutine-safe; the session engine
// serializes access.
type Ledger struct {
	fixtureID uuid.UUID
	events    []*models.MatchEvent
}

// New creates an empty ledger for a fixture.
func New(fixtureID uuid.UUID) *Ledger {
	return &Ledger{fixtureID: fixtureID}
}

// Append adds an event to the ledger. The ledger assigns the locally-unique
// id, stamps the fixture id and wall-clock creation time, and marks the entry
// unsynced. In-memory appends never fail.
func (l *Ledger) Append(e models.MatchEvent) *models.MatchEvent {
	e.ID = uuid.New()
	e.FixtureID = l.fixtureID
	e.Synced = false
	e.CreatedAt = time.Now().UTC()
	entry := &e
	l.events = append(l.events, entry)
	return entry
}

// FindDuplicate returns an existing entry with the same identity tuple
// (player, time, team, type, own-goal flag) as the candidate, or nil. This is
// an idempotency guard for retried UI actions; the caller decides whether to
// skip or warn.
func (l *Ledger) FindDuplicate(candidate models.MatchEvent) *models.MatchEvent {
	for _, e := range l.events {
		if e.Type != candidate.Type || e.Time != candidate.Time || e.TeamID != candidate.TeamID || e.IsOwnGoal != candidate.IsOwnGoal {
			continue
		}
		if !samePlayer(e.PlayerID, candidate.PlayerID) {
			continue
		}
		return e
	}
	return nil
}

func samePlayer(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Events returns the ledger entries in append order.
func (l *Ledger) Events() []*models.MatchEvent {
	return l.events
}

// Unsynced returns the entries not yet acknowledged by the remote store, in
// append order.
func (l *Ledger) Unsynced() []models.MatchEvent {
	var out []models.MatchEvent
	for _, e := range l.events {
		if !e.Synced {
			out = append(out, *e)
		}
	}
	return out
}

// MarkSynced flips the Synced flag for the given entry ids.
func (l *Ledger) MarkSynced(ids []uuid.UUID) {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for _, e := range l.events {
		if _, ok := set[e.ID]; ok {
			e.Synced = true
		}
	}
}

// PendingCount returns the number of unsynced entries.
func (l *Ledger) PendingCount() int {
	n := 0
	for _, e := range l.events {
		if !e.Synced {
			n++
		}
	}
	return n
}

// Len returns the total number of entries.
func (l *Ledger) Len() int {
	return len(l.events)
}

// Reset drops every entry. Only a full match reset calls this.
func (l *Ledger) Reset() {
	l.events = nil
}
