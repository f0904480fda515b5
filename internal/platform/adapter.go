// Package platform normalizes each external coding platform's stats into the
// shared adapter contract: per-day unit counts, a stats snapshot, submission
// history and contest listings. Platform quirks stay here and never leak
// into the aggregation core.
package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"codestreak/internal/models"
)

// ErrUpstreamUnavailable marks a platform fetch failure. Callers degrade
// gracefully: the failing platform's contribution is omitted and the rest of
// the aggregation proceeds.
var ErrUpstreamUnavailable = errors.New("upstream platform unavailable")

// Window is the inclusive day range an activity fetch covers
type Window struct {
	Start time.Time
	End   time.Time
}

// Adapter is the normalized contract each platform implements. All methods
// take a context; timeouts are configured on the underlying HTTP client, not
// inside the core.
type Adapter interface {
	// Platform returns the identifier this adapter serves
	Platform() models.Platform

	// DailyActivity returns one unit count per active day in the window.
	// Days without activity are simply absent.
	DailyActivity(ctx context.Context, handle string, window Window) ([]models.DayCount, error)

	// Stats returns the normalized lifetime snapshot for a handle
	Stats(ctx context.Context, handle string) (*models.PlatformSnapshot, error)

	// Submissions returns accepted submissions since the given instant
	Submissions(ctx context.Context, handle string, since time.Time) ([]models.Submission, error)

	// Contests lists upcoming contests on the platform
	Contests(ctx context.Context) ([]models.Contest, error)
}

// Registry holds one adapter per platform. Unknown platforms are rejected,
// matching the closed platform enumeration.
type Registry struct {
	adapters map[models.Platform]Adapter
}

// NewRegistry creates a registry from the given adapters
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[models.Platform]Adapter)}
	for _, a := range adapters {
		p := a.Platform()
		if _, err := models.ParsePlatform(string(p)); err != nil {
			return nil, err
		}
		if _, dup := r.adapters[p]; dup {
			return nil, fmt.Errorf("duplicate adapter for platform %s", p)
		}
		r.adapters[p] = a
	}
	return r, nil
}

// Get returns the adapter for a platform
func (r *Registry) Get(p models.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for platform %s", p)
	}
	return a, nil
}

// Platforms returns the registered platforms in enumeration order
func (r *Registry) Platforms() []models.Platform {
	var out []models.Platform
	for _, p := range models.AllPlatforms() {
		if _, ok := r.adapters[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// upstreamErr wraps a transport or decode failure as an upstream outage
func upstreamErr(p models.Platform, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, p, err)
}

// checkStatus converts a non-2xx response into an upstream outage
func checkStatus(p models.Platform, resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ErrUpstreamUnavailable, p, resp.StatusCode)
	}
	return nil
}
