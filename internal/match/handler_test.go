package match

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

type fakeFixtureProvider struct {
	fixture    models.Fixture
	markedLive bool
	resultHome int
	resultAway int
	recorded   bool
}

func (f *fakeFixtureProvider) GetFixture(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	if id != f.fixture.ID {
		return nil, fmt.Errorf("fixture %s not found", id)
	}
	fixture := f.fixture
	return &fixture, nil
}

func (f *fakeFixtureProvider) MarkLive(ctx context.Context, id uuid.UUID) error {
	f.markedLive = true
	return nil
}

func (f *fakeFixtureProvider) RecordResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	f.recorded = true
	f.resultHome, f.resultAway = homeScore, awayScore
	return nil
}

type fakeStatsApplier struct {
	applied []PlayerMatchStats
}

func (f *fakeStatsApplier) ApplyMatchStats(ctx context.Context, stats []PlayerMatchStats) error {
	f.applied = append(f.applied, stats...)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeFixtureProvider, *fakeStatsApplier, models.Fixture) {
	t.Helper()
	m := newTestManager(t)
	t.Cleanup(m.CloseAll)

	fixture := testFixture()
	provider := &fakeFixtureProvider{fixture: fixture}
	stats := &fakeStatsApplier{}

	mux := http.NewServeMux()
	NewHandler(m, provider, stats).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, provider, stats, fixture
}

func doRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	srv, provider, _, fixture := newTestServer(t)
	base := srv.URL + "/api/fixtures/" + fixture.ID.String() + "/session"

	resp := doRequest(t, http.MethodPost, base, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open session status = %d, want 201", resp.StatusCode)
	}
	if !provider.markedLive {
		t.Error("opening a session should mark the fixture live")
	}

	// Opening twice conflicts.
	resp = doRequest(t, http.MethodPost, base, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second open status = %d, want 409", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, base+"/state", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d, want 200", resp.StatusCode)
	}
	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.FixtureID != fixture.ID {
		t.Errorf("snapshot fixture = %s, want %s", snap.FixtureID, fixture.ID)
	}

	resp = doRequest(t, http.MethodDelete, base, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("close status = %d, want 204", resp.StatusCode)
	}
	resp = doRequest(t, http.MethodGet, base+"/state", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("state after close status = %d, want 404", resp.StatusCode)
	}
}

func TestGoalOverHTTP(t *testing.T) {
	srv, _, _, fixture := newTestServer(t)
	base := srv.URL + "/api/fixtures/" + fixture.ID.String() + "/session"

	if resp := doRequest(t, http.MethodPost, base, nil); resp.StatusCode != http.StatusCreated {
		t.Fatalf("open session status = %d", resp.StatusCode)
	}

	goal := GoalRequest{PlayerName: "Somchai", TeamID: fixture.HomeTeamID.String()}
	resp := doRequest(t, http.MethodPost, base+"/goals", goal)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("goal status = %d, want 201", resp.StatusCode)
	}

	// Same tap again at the same match time is a duplicate.
	resp = doRequest(t, http.MethodPost, base+"/goals", goal)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate goal status = %d, want 409", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodPost, base+"/goals", GoalRequest{PlayerName: "X", TeamID: "nobody"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown team status = %d, want 400", resp.StatusCode)
	}
}

func TestFinalizeOverHTTP(t *testing.T) {
	srv, provider, stats, fixture := newTestServer(t)
	base := srv.URL + "/api/fixtures/" + fixture.ID.String() + "/session"

	if resp := doRequest(t, http.MethodPost, base, nil); resp.StatusCode != http.StatusCreated {
		t.Fatalf("open session status = %d", resp.StatusCode)
	}

	player := trackPlayerRequest{
		PlayerID: uuid.New(),
		Name:     "Somchai",
		Role:     "starter",
		TeamID:   fixture.HomeTeamID.String(),
	}
	if resp := doRequest(t, http.MethodPost, base+"/players", player); resp.StatusCode != http.StatusCreated {
		t.Fatalf("track player status = %d", resp.StatusCode)
	}

	goal := GoalRequest{PlayerID: &player.PlayerID, PlayerName: "Somchai", TeamID: fixture.HomeTeamID.String()}
	if resp := doRequest(t, http.MethodPost, base+"/goals", goal); resp.StatusCode != http.StatusCreated {
		t.Fatalf("goal status = %d", resp.StatusCode)
	}

	resp := doRequest(t, http.MethodPost, base+"/finalize", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("finalize status = %d, want 200", resp.StatusCode)
	}
	var summary FinalSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.HomeScore != 1 || summary.AwayScore != 0 {
		t.Errorf("final score = %d-%d, want 1-0", summary.HomeScore, summary.AwayScore)
	}
	if !provider.recorded || provider.resultHome != 1 {
		t.Error("finalize should record the fixture result")
	}
	if len(stats.applied) != 1 || stats.applied[0].Goals != 1 {
		t.Errorf("applied stats = %+v, want one entry with a goal", stats.applied)
	}
}
