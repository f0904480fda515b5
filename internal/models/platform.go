package models

import (
	"fmt"
	"time"
)

// Platform identifies one of the supported external coding platforms
type Platform string

const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeforces Platform = "codeforces"
	PlatformCodeChef   Platform = "codechef"
	PlatformGitHub     Platform = "github"
)

// AllPlatforms returns every supported platform in a stable order
func AllPlatforms() []Platform {
	return []Platform{PlatformLeetCode, PlatformCodeforces, PlatformCodeChef, PlatformGitHub}
}

// ParsePlatform validates a platform identifier string.
// Unknown identifiers are rejected rather than passed through.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformLeetCode, PlatformCodeforces, PlatformCodeChef, PlatformGitHub:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

// PlatformLinks maps each linked platform to the user's handle on it
type PlatformLinks map[Platform]string

// Validate checks that every key is a known platform and no handle is empty
func (l PlatformLinks) Validate() error {
	for p, handle := range l {
		if _, err := ParsePlatform(string(p)); err != nil {
			return err
		}
		if handle == "" {
			return fmt.Errorf("empty handle for platform %s", p)
		}
	}
	return nil
}

// PlatformSnapshot is the normalized per-platform stats snapshot produced by
// an adapter sync. Rating is the platform's raw rating scale; problems and
// contests are lifetime totals.
type PlatformSnapshot struct {
	UserID         string
	Platform       Platform
	Handle         string
	ProblemsSolved int
	Rating         int
	Contests       int
	Contributions  int
	FetchedAt      time.Time
}

// Stale reports whether the snapshot is older than the given threshold
func (s PlatformSnapshot) Stale(now time.Time, threshold time.Duration) bool {
	return now.Sub(s.FetchedAt) > threshold
}

// DayCount is one calendar day's normalized activity-unit count from a
// single platform
type DayCount struct {
	Date  time.Time
	Count int
}

// Submission is an accepted submission as reported by a platform adapter
type Submission struct {
	Platform    Platform
	ProblemID   string
	Accepted    bool
	SubmittedAt time.Time
}
