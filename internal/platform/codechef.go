package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"codestreak/internal/models"
)

const codechefAPIURL = "https://codechef-api.vercel.app"

// CodeChefAdapter reads public profile data from the community CodeChef API.
// One heatmap entry counts as that day's activity units.
type CodeChefAdapter struct {
	client *http.Client
	base   string
}

// NewCodeChefAdapter builds a CodeChef adapter with the given HTTP client.
// A nil client falls back to a default with a 15s timeout.
func NewCodeChefAdapter(client *http.Client) *CodeChefAdapter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &CodeChefAdapter{client: client, base: codechefAPIURL}
}

func (a *CodeChefAdapter) Platform() models.Platform {
	return models.PlatformCodeChef
}

type codechefProfile struct {
	Rating       int `json:"currentRating"`
	ProblemsSolved int `json:"problemsSolved"`
	ContestsGiven  int `json:"contestsGiven"`
	HeatMap      []struct {
		Date  string `json:"date"`
		Value int    `json:"value"`
	} `json:"heatMap"`
}

// DailyActivity decodes the profile heatmap into per-day counts
func (a *CodeChefAdapter) DailyActivity(ctx context.Context, handle string, window Window) ([]models.DayCount, error) {
	profile, err := a.profile(ctx, handle)
	if err != nil {
		return nil, err
	}

	var days []models.DayCount
	for _, cell := range profile.HeatMap {
		if cell.Value == 0 {
			continue
		}
		date, err := time.Parse(models.DateFormat, cell.Date)
		if err != nil {
			return nil, upstreamErr(models.PlatformCodeChef, err)
		}
		if date.Before(window.Start) || date.After(window.End) {
			continue
		}
		days = append(days, models.DayCount{Date: date, Count: cell.Value})
	}
	return days, nil
}

// Stats returns the normalized profile snapshot
func (a *CodeChefAdapter) Stats(ctx context.Context, handle string) (*models.PlatformSnapshot, error) {
	profile, err := a.profile(ctx, handle)
	if err != nil {
		return nil, err
	}
	return &models.PlatformSnapshot{
		Platform:       models.PlatformCodeChef,
		Handle:         handle,
		ProblemsSolved: profile.ProblemsSolved,
		Rating:         profile.Rating,
		Contests:       profile.ContestsGiven,
		FetchedAt:      time.Now(),
	}, nil
}

// Submissions is unsupported by the public profile API; verification falls
// back to other linked platforms
func (a *CodeChefAdapter) Submissions(ctx context.Context, handle string, since time.Time) ([]models.Submission, error) {
	return nil, nil
}

// Contests is not exposed by the profile API
func (a *CodeChefAdapter) Contests(ctx context.Context) ([]models.Contest, error) {
	return nil, nil
}

func (a *CodeChefAdapter) profile(ctx context.Context, handle string) (*codechefProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/handle/"+handle, nil)
	if err != nil {
		return nil, upstreamErr(models.PlatformCodeChef, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, upstreamErr(models.PlatformCodeChef, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(models.PlatformCodeChef, resp); err != nil {
		return nil, err
	}

	var profile codechefProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, upstreamErr(models.PlatformCodeChef, err)
	}
	return &profile, nil
}
