package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"codestreak/internal/models"
)

const leetcodeGraphQLURL = "https://leetcode.com/graphql"

// LeetCodeAdapter reads public profile data from LeetCode's GraphQL
// endpoint. One accepted submission counts as one activity unit.
type LeetCodeAdapter struct {
	client *http.Client
	url    string
}

// NewLeetCodeAdapter builds a LeetCode adapter with the given HTTP client.
// A nil client falls back to a default with a 15s timeout.
func NewLeetCodeAdapter(client *http.Client) *LeetCodeAdapter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &LeetCodeAdapter{client: client, url: leetcodeGraphQLURL}
}

func (a *LeetCodeAdapter) Platform() models.Platform {
	return models.PlatformLeetCode
}

// DailyActivity decodes the submission calendar, a JSON object of unix-day
// timestamps to counts.
func (a *LeetCodeAdapter) DailyActivity(ctx context.Context, handle string, window Window) ([]models.DayCount, error) {
	var resp struct {
		Data struct {
			MatchedUser struct {
				SubmissionCalendar string `json:"submissionCalendar"`
			} `json:"matchedUser"`
		} `json:"data"`
	}

	query := `query($username: String!) {
		matchedUser(username: $username) { submissionCalendar }
	}`
	if err := a.graphql(ctx, query, map[string]string{"username": handle}, &resp); err != nil {
		return nil, err
	}

	raw := map[string]int{}
	if cal := resp.Data.MatchedUser.SubmissionCalendar; cal != "" {
		if err := json.Unmarshal([]byte(cal), &raw); err != nil {
			return nil, upstreamErr(models.PlatformLeetCode, err)
		}
	}

	var days []models.DayCount
	for ts, count := range raw {
		if count == 0 {
			continue
		}
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, upstreamErr(models.PlatformLeetCode, err)
		}
		date := time.Unix(sec, 0).UTC()
		if date.Before(window.Start) || date.After(window.End.AddDate(0, 0, 1)) {
			continue
		}
		days = append(days, models.DayCount{Date: date, Count: count})
	}
	return days, nil
}

// Stats reads solved counts, contest rating and attended-contest count
func (a *LeetCodeAdapter) Stats(ctx context.Context, handle string) (*models.PlatformSnapshot, error) {
	var resp struct {
		Data struct {
			MatchedUser struct {
				SubmitStats struct {
					AcSubmissionNum []struct {
						Difficulty string `json:"difficulty"`
						Count      int    `json:"count"`
					} `json:"acSubmissionNum"`
				} `json:"submitStats"`
			} `json:"matchedUser"`
			UserContestRanking struct {
				Rating           float64 `json:"rating"`
				AttendedContests int     `json:"attendedContestsCount"`
			} `json:"userContestRanking"`
		} `json:"data"`
	}

	query := `query($username: String!) {
		matchedUser(username: $username) {
			submitStats { acSubmissionNum { difficulty count } }
		}
		userContestRanking(username: $username) { rating attendedContestsCount }
	}`
	if err := a.graphql(ctx, query, map[string]string{"username": handle}, &resp); err != nil {
		return nil, err
	}

	solved := 0
	for _, row := range resp.Data.MatchedUser.SubmitStats.AcSubmissionNum {
		if row.Difficulty == "All" {
			solved = row.Count
		}
	}

	return &models.PlatformSnapshot{
		Platform:       models.PlatformLeetCode,
		Handle:         handle,
		ProblemsSolved: solved,
		Rating:         int(resp.Data.UserContestRanking.Rating),
		Contests:       resp.Data.UserContestRanking.AttendedContests,
		FetchedAt:      time.Now(),
	}, nil
}

// Submissions returns recent accepted submissions since the given instant
func (a *LeetCodeAdapter) Submissions(ctx context.Context, handle string, since time.Time) ([]models.Submission, error) {
	var resp struct {
		Data struct {
			RecentAcSubmissionList []struct {
				TitleSlug string `json:"titleSlug"`
				Timestamp string `json:"timestamp"`
			} `json:"recentAcSubmissionList"`
		} `json:"data"`
	}

	query := `query($username: String!, $limit: Int!) {
		recentAcSubmissionList(username: $username, limit: $limit) { titleSlug timestamp }
	}`
	if err := a.graphql(ctx, query, map[string]interface{}{"username": handle, "limit": 50}, &resp); err != nil {
		return nil, err
	}

	var subs []models.Submission
	for _, row := range resp.Data.RecentAcSubmissionList {
		sec, err := strconv.ParseInt(row.Timestamp, 10, 64)
		if err != nil {
			return nil, upstreamErr(models.PlatformLeetCode, err)
		}
		at := time.Unix(sec, 0).UTC()
		if at.Before(since) {
			continue
		}
		subs = append(subs, models.Submission{
			Platform:    models.PlatformLeetCode,
			ProblemID:   row.TitleSlug,
			Accepted:    true,
			SubmittedAt: at,
		})
	}
	return subs, nil
}

// Contests lists the upcoming LeetCode contests
func (a *LeetCodeAdapter) Contests(ctx context.Context) ([]models.Contest, error) {
	var resp struct {
		Data struct {
			UpcomingContests []struct {
				Title     string `json:"title"`
				TitleSlug string `json:"titleSlug"`
				StartTime int64  `json:"startTime"`
				Duration  int64  `json:"duration"`
			} `json:"upcomingContests"`
		} `json:"data"`
	}

	query := `{ upcomingContests { title titleSlug startTime duration } }`
	if err := a.graphql(ctx, query, nil, &resp); err != nil {
		return nil, err
	}

	var contests []models.Contest
	for _, c := range resp.Data.UpcomingContests {
		contests = append(contests, models.Contest{
			Platform: models.PlatformLeetCode,
			Name:     c.Title,
			StartsAt: time.Unix(c.StartTime, 0).UTC(),
			Duration: time.Duration(c.Duration) * time.Second,
			URL:      "https://leetcode.com/contest/" + c.TitleSlug,
		})
	}
	return contests, nil
}

func (a *LeetCodeAdapter) graphql(ctx context.Context, query string, variables interface{}, out interface{}) error {
	payload := map[string]interface{}{"query": query}
	if variables != nil {
		payload["variables"] = variables
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return upstreamErr(models.PlatformLeetCode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return upstreamErr(models.PlatformLeetCode, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return upstreamErr(models.PlatformLeetCode, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(models.PlatformLeetCode, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return upstreamErr(models.PlatformLeetCode, err)
	}
	return nil
}
