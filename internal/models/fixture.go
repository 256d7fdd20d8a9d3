package models

import (
	"time"

	"github.com/google/uuid"
)

// FixtureStatus defines the lifecycle status of a fixture.
type FixtureStatus string

const (
	FixtureStatusScheduled FixtureStatus = "SCHEDULED"
	FixtureStatusLive      FixtureStatus = "LIVE"
	FixtureStatusCompleted FixtureStatus = "COMPLETED"
	FixtureStatusPostponed FixtureStatus = "POSTPONED"
)

// Fixture represents a scheduled match between two teams.
type Fixture struct {
	ID           uuid.UUID     `json:"id"`
	HomeTeamID   uuid.UUID     `json:"home_team_id"`
	AwayTeamID   uuid.UUID     `json:"away_team_id"`
	HomeTeamName string        `json:"home_team_name"`
	AwayTeamName string        `json:"away_team_name"`
	HomeScore    int           `json:"home_score"`
	AwayScore    int           `json:"away_score"`
	Status       FixtureStatus `json:"status"`
	MatchDate    time.Time     `json:"match_date"`
	Venue        *string       `json:"venue,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
