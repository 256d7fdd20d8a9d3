package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerRating is one rater's 0-10 score for a player's fixture performance.
type PlayerRating struct {
	ID        uuid.UUID `json:"id"`
	FixtureID uuid.UUID `json:"fixture_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	RaterID   uuid.UUID `json:"rater_id"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
