package roster

import (
	"fmt"

	"github.com/noompupp/paknam-match-tracker-sub006/internal/matchclock"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

// Role-based playtime rule constants, in seconds.
const (
	MatchLengthSec = 3000 // 50 minute match

	SClassHalfCapSec  = 1200 // 20:00 hard cap per half
	SClassHalfWarnSec = 1080 // 18:00 approaching-limit warning

	StarterMinTotalSec     = 600 // 10:00 minimum across the match
	StarterUrgentWindowSec = 300 // flag unmet minimum inside the last 5:00
)

// RoleStatus classifies a player's standing against their role's playtime rule.
type RoleStatus string

const (
	StatusNoLimits         RoleStatus = "NO_LIMITS"
	StatusWithinLimit      RoleStatus = "WITHIN_LIMIT"
	StatusApproachingLimit RoleStatus = "APPROACHING_LIMIT"
	StatusLimit            RoleStatus = "LIMIT"
	StatusMinMet           RoleStatus = "MIN_MET"
	StatusNeedsTime        RoleStatus = "NEEDS_TIME"
	StatusInProgress       RoleStatus = "IN_PROGRESS"
)

// RoleFlag is the advisory result of a role rule evaluation. Severity is one
// of "ok", "neutral", "warning", "error"; nothing here blocks further input.
type RoleFlag struct {
	Status   RoleStatus `json:"status"`
	Severity string     `json:"severity"`
	Message  string     `json:"message"`
}

// EvaluateRole is a pure query over a player's accumulated times. matchTime is
// the current match clock in seconds.
func EvaluateRole(role models.PlayerRole, totalTime, currentHalfTime int, isPlaying bool, matchTime int) RoleFlag {
	switch role {
	case models.RoleSClass:
		return evaluateSClass(currentHalfTime)
	case models.RoleStarter:
		return evaluateStarter(totalTime, matchTime)
	default:
		return RoleFlag{
			Status:   StatusNoLimits,
			Severity: "neutral",
			Message:  "unrestricted playtime",
		}
	}
}

func evaluateSClass(currentHalfTime int) RoleFlag {
	switch {
	case currentHalfTime >= SClassHalfCapSec:
		return RoleFlag{
			Status:   StatusLimit,
			Severity: "error",
			Message:  fmt.Sprintf("half cap reached (%s of %s)", matchclock.FormatTime(currentHalfTime), matchclock.FormatTime(SClassHalfCapSec)),
		}
	case currentHalfTime >= SClassHalfWarnSec:
		return RoleFlag{
			Status:   StatusApproachingLimit,
			Severity: "warning",
			Message:  fmt.Sprintf("approaching half cap (%s of %s)", matchclock.FormatTime(currentHalfTime), matchclock.FormatTime(SClassHalfCapSec)),
		}
	default:
		return RoleFlag{
			Status:   StatusWithinLimit,
			Severity: "ok",
			Message:  fmt.Sprintf("%s of %s this half", matchclock.FormatTime(currentHalfTime), matchclock.FormatTime(SClassHalfCapSec)),
		}
	}
}

func evaluateStarter(totalTime, matchTime int) RoleFlag {
	if totalTime >= StarterMinTotalSec {
		return RoleFlag{
			Status:   StatusMinMet,
			Severity: "ok",
			Message:  fmt.Sprintf("minimum met (%s played)", matchclock.FormatTime(totalTime)),
		}
	}
	remaining := MatchLengthSec - matchTime
	if remaining <= StarterUrgentWindowSec {
		return RoleFlag{
			Status:   StatusNeedsTime,
			Severity: "warning",
			Message:  fmt.Sprintf("needs %s more with %s remaining", matchclock.FormatTime(StarterMinTotalSec-totalTime), matchclock.FormatTime(remaining)),
		}
	}
	return RoleFlag{
		Status:   StatusInProgress,
		Severity: "neutral",
		Message:  fmt.Sprintf("%s of %s minimum", matchclock.FormatTime(totalTime), matchclock.FormatTime(StarterMinTotalSec)),
	}
}
