package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"codestreak/internal/models"
)

const githubGraphQLURL = "https://api.github.com/graphql"

// GitHubAdapter reads contribution data from the GitHub GraphQL API. One
// contribution (commit, PR, review, issue) counts as one activity unit.
// GitHub has no rating or problem count; it contributes activity only.
type GitHubAdapter struct {
	client *http.Client
	url    string
}

// NewGitHubAdapter builds an adapter authenticated with the given token
func NewGitHubAdapter(token string) *GitHubAdapter {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &GitHubAdapter{
		client: oauth2.NewClient(context.Background(), src),
		url:    githubGraphQLURL,
	}
}

func (a *GitHubAdapter) Platform() models.Platform {
	return models.PlatformGitHub
}

type githubContributionsResponse struct {
	Data struct {
		User struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// DailyActivity fetches the contribution calendar for the window
func (a *GitHubAdapter) DailyActivity(ctx context.Context, handle string, window Window) ([]models.DayCount, error) {
	resp, err := a.contributions(ctx, handle, window)
	if err != nil {
		return nil, err
	}

	var days []models.DayCount
	for _, week := range resp.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, d := range week.ContributionDays {
			if d.ContributionCount == 0 {
				continue
			}
			date, err := time.Parse(models.DateFormat, d.Date)
			if err != nil {
				return nil, upstreamErr(models.PlatformGitHub, err)
			}
			days = append(days, models.DayCount{Date: date, Count: d.ContributionCount})
		}
	}
	return days, nil
}

// Stats reports total contributions over the trailing year
func (a *GitHubAdapter) Stats(ctx context.Context, handle string) (*models.PlatformSnapshot, error) {
	now := time.Now()
	resp, err := a.contributions(ctx, handle, Window{Start: now.AddDate(-1, 0, 0), End: now})
	if err != nil {
		return nil, err
	}
	return &models.PlatformSnapshot{
		Platform:      models.PlatformGitHub,
		Handle:        handle,
		Contributions: resp.Data.User.ContributionsCollection.ContributionCalendar.TotalContributions,
		FetchedAt:     now,
	}, nil
}

// Submissions is not meaningful for GitHub; it never vouches for a problem
func (a *GitHubAdapter) Submissions(ctx context.Context, handle string, since time.Time) ([]models.Submission, error) {
	return nil, nil
}

// Contests is empty: GitHub hosts no contests
func (a *GitHubAdapter) Contests(ctx context.Context) ([]models.Contest, error) {
	return nil, nil
}

func (a *GitHubAdapter) contributions(ctx context.Context, handle string, window Window) (*githubContributionsResponse, error) {
	query := `query($login: String!, $from: DateTime!, $to: DateTime!) {
		user(login: $login) {
			contributionsCollection(from: $from, to: $to) {
				contributionCalendar {
					totalContributions
					weeks { contributionDays { date contributionCount } }
				}
			}
		}
	}`

	body, err := json.Marshal(map[string]interface{}{
		"query": query,
		"variables": map[string]string{
			"login": handle,
			"from":  window.Start.Format(time.RFC3339),
			"to":    window.End.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, upstreamErr(models.PlatformGitHub, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, upstreamErr(models.PlatformGitHub, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, upstreamErr(models.PlatformGitHub, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(models.PlatformGitHub, resp); err != nil {
		return nil, err
	}

	var decoded githubContributionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, upstreamErr(models.PlatformGitHub, err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("%w: github: %s", ErrUpstreamUnavailable, decoded.Errors[0].Message)
	}
	return &decoded, nil
}
