package roster

import (
	"testing"

	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

func TestEvaluateRoleSClass(t *testing.T) {
	tests := []struct {
		name            string
		currentHalfTime int
		want            RoleStatus
		severity        string
	}{
		{"fresh", 0, StatusWithinLimit, "ok"},
		{"mid half", 900, StatusWithinLimit, "ok"},
		{"just under warning", 1079, StatusWithinLimit, "ok"},
		{"at 18:00", 1080, StatusApproachingLimit, "warning"},
		{"at 19:59", 1199, StatusApproachingLimit, "warning"},
		{"at 20:00", 1200, StatusLimit, "error"},
		{"over cap", 1300, StatusLimit, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := EvaluateRole(models.RoleSClass, 0, tt.currentHalfTime, true, 0)
			if flag.Status != tt.want || flag.Severity != tt.severity {
				t.Fatalf("got %s/%s, want %s/%s", flag.Status, flag.Severity, tt.want, tt.severity)
			}
		})
	}
}

func TestEvaluateRoleStarter(t *testing.T) {
	tests := []struct {
		name      string
		totalTime int
		matchTime int
		want      RoleStatus
	}{
		{"minimum met", 600, 1500, StatusMinMet},
		{"well over minimum", 1800, 2900, StatusMinMet},
		{"early in match", 120, 600, StatusInProgress},
		{"unmet just before 45:00", 540, 2699, StatusInProgress},
		{"unmet at exactly 45:00", 540, 2700, StatusNeedsTime},
		{"unmet at full time", 0, 3000, StatusNeedsTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := EvaluateRole(models.RoleStarter, tt.totalTime, 0, false, tt.matchTime)
			if flag.Status != tt.want {
				t.Fatalf("got %s, want %s", flag.Status, tt.want)
			}
		})
	}
}

func TestEvaluateRoleUnrestricted(t *testing.T) {
	for _, role := range []models.PlayerRole{models.RoleCaptain, models.RoleOther, models.PlayerRole("goalkeeper")} {
		flag := EvaluateRole(role, 5000, 5000, true, 3000)
		if flag.Status != StatusNoLimits {
			t.Fatalf("role %s status = %s, want NO_LIMITS", role, flag.Status)
		}
	}
}
