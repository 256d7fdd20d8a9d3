package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerRole defines the playtime rule class a player belongs to.
type PlayerRole string

const (
	RoleCaptain PlayerRole = "captain"
	RoleSClass  PlayerRole = "s-class"
	RoleStarter PlayerRole = "starter"
	RoleOther   PlayerRole = "other"
)

// ParsePlayerRole normalizes a stored role string. Unknown roles map to
// RoleOther so that playtime rules degrade to unrestricted.
func ParsePlayerRole(s string) PlayerRole {
	switch PlayerRole(s) {
	case RoleCaptain, RoleSClass, RoleStarter:
		return PlayerRole(s)
	default:
		return RoleOther
	}
}

// Player represents a league member with cumulative career stats.
type Player struct {
	ID            uuid.UUID  `json:"id"`
	TeamID        uuid.UUID  `json:"team_id"`
	Name          string     `json:"name"`
	Number        *int       `json:"number,omitempty"`
	Role          PlayerRole `json:"role"`
	Goals         int        `json:"goals"`
	Assists       int        `json:"assists"`
	YellowCards   int        `json:"yellow_cards"`
	RedCards      int        `json:"red_cards"`
	MinutesPlayed int        `json:"minutes_played"`
	MatchesPlayed int        `json:"matches_played"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
