package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codestreak/internal/models"
)

func TestRegistryRejectsDuplicates(t *testing.T) {
	a := NewLeetCodeAdapter(nil)
	if _, err := NewRegistry(a, a); err == nil {
		t.Error("NewRegistry() with duplicate adapters = nil error, want error")
	}
}

func TestRegistryPlatformOrder(t *testing.T) {
	reg, err := NewRegistry(NewCodeforcesAdapter(nil), NewLeetCodeAdapter(nil))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	got := reg.Platforms()
	want := []models.Platform{models.PlatformLeetCode, models.PlatformCodeforces}
	if len(got) != len(want) {
		t.Fatalf("Platforms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Platforms()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := reg.Get(models.PlatformGitHub); err == nil {
		t.Error("Get() for unregistered platform = nil error, want error")
	}
}

func TestLeetCodeDailyActivity(t *testing.T) {
	// unix-day keys: 2026-03-08 and 2026-03-09, plus one zero-count day
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"matchedUser":{"submissionCalendar":
			"{\"1772928000\":3,\"1773014400\":1,\"1772841600\":0}"}}}`))
	}))
	defer srv.Close()

	a := NewLeetCodeAdapter(srv.Client())
	a.url = srv.URL

	window := Window{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	days, err := a.DailyActivity(context.Background(), "alice", window)
	if err != nil {
		t.Fatalf("DailyActivity() error = %v", err)
	}

	if len(days) != 2 {
		t.Fatalf("DailyActivity() returned %d days, want 2 (zero days omitted)", len(days))
	}
	total := 0
	for _, d := range days {
		total += d.Count
	}
	if total != 4 {
		t.Errorf("total units = %d, want 4", total)
	}
}

func TestLeetCodeStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"matchedUser":{"submitStats":{"acSubmissionNum":[
				{"difficulty":"All","count":321},
				{"difficulty":"Easy","count":200}]}},
			"userContestRanking":{"rating":1842.5,"attendedContestsCount":12}}}`))
	}))
	defer srv.Close()

	a := NewLeetCodeAdapter(srv.Client())
	a.url = srv.URL

	snap, err := a.Stats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if snap.ProblemsSolved != 321 || snap.Rating != 1842 || snap.Contests != 12 {
		t.Errorf("Stats() = %+v, want 321 solved, rating 1842, 12 contests", snap)
	}
}

func TestCodeforcesStatsDeduplicatesSolves(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/user.info":
			w.Write([]byte(`{"result":[{"rating":1650}]}`))
		case r.URL.Path == "/user.rating":
			w.Write([]byte(`{"result":[{"contestId":1},{"contestId":2}]}`))
		default:
			// same problem accepted twice plus one rejection
			w.Write([]byte(`{"result":[
				{"creationTimeSeconds":1772928000,"verdict":"OK","problem":{"contestId":4,"index":"A"}},
				{"creationTimeSeconds":1772928100,"verdict":"OK","problem":{"contestId":4,"index":"A"}},
				{"creationTimeSeconds":1772928200,"verdict":"WRONG_ANSWER","problem":{"contestId":4,"index":"B"}}]}`))
		}
	}))
	defer srv.Close()

	a := NewCodeforcesAdapter(srv.Client())
	a.base = srv.URL

	snap, err := a.Stats(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if snap.ProblemsSolved != 1 {
		t.Errorf("ProblemsSolved = %d, want 1: repeats of one problem count once", snap.ProblemsSolved)
	}
	if snap.Rating != 1650 || snap.Contests != 2 {
		t.Errorf("Stats() = %+v, want rating 1650, 2 contests", snap)
	}
}

func TestCodeforcesContestsFiltersStarted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[
			{"id":900,"name":"Past Round","phase":"FINISHED","durationSeconds":7200,"startTimeSeconds":1772928000},
			{"id":901,"name":"Round 901","phase":"BEFORE","durationSeconds":7200,"startTimeSeconds":1773532800}]}`))
	}))
	defer srv.Close()

	a := NewCodeforcesAdapter(srv.Client())
	a.base = srv.URL

	contests, err := a.Contests(context.Background())
	if err != nil {
		t.Fatalf("Contests() error = %v", err)
	}
	if len(contests) != 1 || contests[0].Name != "Round 901" {
		t.Errorf("Contests() = %+v, want only the unstarted round", contests)
	}
	if contests[0].Duration != 2*time.Hour {
		t.Errorf("Duration = %v, want 2h", contests[0].Duration)
	}
}

func TestUpstreamErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewCodeforcesAdapter(srv.Client())
	a.base = srv.URL

	_, err := a.Stats(context.Background(), "bob")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("Stats() error = %v, want ErrUpstreamUnavailable", err)
	}
}
