package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"codestreak/internal/models"
)

const codeforcesAPIURL = "https://codeforces.com/api"

// CodeforcesAdapter reads public data from the Codeforces REST API. One
// accepted submission counts as one activity unit.
type CodeforcesAdapter struct {
	client *http.Client
	base   string
}

// NewCodeforcesAdapter builds a Codeforces adapter with the given HTTP
// client. A nil client falls back to a default with a 15s timeout.
func NewCodeforcesAdapter(client *http.Client) *CodeforcesAdapter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &CodeforcesAdapter{client: client, base: codeforcesAPIURL}
}

func (a *CodeforcesAdapter) Platform() models.Platform {
	return models.PlatformCodeforces
}

type cfSubmission struct {
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	Verdict             string `json:"verdict"`
	Problem             struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
	} `json:"problem"`
}

// DailyActivity folds accepted submissions into per-day counts
func (a *CodeforcesAdapter) DailyActivity(ctx context.Context, handle string, window Window) ([]models.DayCount, error) {
	subs, err := a.userStatus(ctx, handle)
	if err != nil {
		return nil, err
	}

	perDay := map[string]int{}
	for _, s := range subs {
		if s.Verdict != "OK" {
			continue
		}
		at := time.Unix(s.CreationTimeSeconds, 0).UTC()
		if at.Before(window.Start) || at.After(window.End.AddDate(0, 0, 1)) {
			continue
		}
		perDay[at.Format(models.DateFormat)]++
	}

	var days []models.DayCount
	for key, count := range perDay {
		date, err := time.Parse(models.DateFormat, key)
		if err != nil {
			return nil, upstreamErr(models.PlatformCodeforces, err)
		}
		days = append(days, models.DayCount{Date: date, Count: count})
	}
	return days, nil
}

// Stats reads the user's rating and derives solved/contest counts from the
// submission and rating history
func (a *CodeforcesAdapter) Stats(ctx context.Context, handle string) (*models.PlatformSnapshot, error) {
	var info struct {
		Result []struct {
			Rating int `json:"rating"`
		} `json:"result"`
	}
	if err := a.get(ctx, "/user.info?handles="+url.QueryEscape(handle), &info); err != nil {
		return nil, err
	}

	var ratingChanges struct {
		Result []struct {
			ContestID int `json:"contestId"`
		} `json:"result"`
	}
	if err := a.get(ctx, "/user.rating?handle="+url.QueryEscape(handle), &ratingChanges); err != nil {
		return nil, err
	}

	subs, err := a.userStatus(ctx, handle)
	if err != nil {
		return nil, err
	}
	solved := map[string]bool{}
	for _, s := range subs {
		if s.Verdict == "OK" {
			solved[fmt.Sprintf("%d%s", s.Problem.ContestID, s.Problem.Index)] = true
		}
	}

	snap := &models.PlatformSnapshot{
		Platform:       models.PlatformCodeforces,
		Handle:         handle,
		ProblemsSolved: len(solved),
		Contests:       len(ratingChanges.Result),
		FetchedAt:      time.Now(),
	}
	if len(info.Result) > 0 {
		snap.Rating = info.Result[0].Rating
	}
	return snap, nil
}

// Submissions returns accepted submissions since the given instant
func (a *CodeforcesAdapter) Submissions(ctx context.Context, handle string, since time.Time) ([]models.Submission, error) {
	subs, err := a.userStatus(ctx, handle)
	if err != nil {
		return nil, err
	}

	var out []models.Submission
	for _, s := range subs {
		at := time.Unix(s.CreationTimeSeconds, 0).UTC()
		if s.Verdict != "OK" || at.Before(since) {
			continue
		}
		out = append(out, models.Submission{
			Platform:    models.PlatformCodeforces,
			ProblemID:   fmt.Sprintf("%d%s", s.Problem.ContestID, s.Problem.Index),
			Accepted:    true,
			SubmittedAt: at,
		})
	}
	return out, nil
}

// Contests lists contests that have not started yet
func (a *CodeforcesAdapter) Contests(ctx context.Context) ([]models.Contest, error) {
	var resp struct {
		Result []struct {
			ID               int64  `json:"id"`
			Name             string `json:"name"`
			Phase            string `json:"phase"`
			DurationSeconds  int64  `json:"durationSeconds"`
			StartTimeSeconds int64  `json:"startTimeSeconds"`
		} `json:"result"`
	}
	if err := a.get(ctx, "/contest.list?gym=false", &resp); err != nil {
		return nil, err
	}

	var contests []models.Contest
	for _, c := range resp.Result {
		if c.Phase != "BEFORE" {
			continue
		}
		contests = append(contests, models.Contest{
			Platform: models.PlatformCodeforces,
			Name:     c.Name,
			StartsAt: time.Unix(c.StartTimeSeconds, 0).UTC(),
			Duration: time.Duration(c.DurationSeconds) * time.Second,
			URL:      fmt.Sprintf("https://codeforces.com/contest/%d", c.ID),
		})
	}
	return contests, nil
}

func (a *CodeforcesAdapter) userStatus(ctx context.Context, handle string) ([]cfSubmission, error) {
	var resp struct {
		Result []cfSubmission `json:"result"`
	}
	if err := a.get(ctx, "/user.status?handle="+url.QueryEscape(handle), &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (a *CodeforcesAdapter) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+path, nil)
	if err != nil {
		return upstreamErr(models.PlatformCodeforces, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return upstreamErr(models.PlatformCodeforces, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(models.PlatformCodeforces, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return upstreamErr(models.PlatformCodeforces, err)
	}
	return nil
}
