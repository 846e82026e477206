package registration

import (
	"context"
	"time"
)

const day = 24 * time.Hour

// Result is the outcome of a registration lookup: either a creation time or unknown.
type Result struct {
	created time.Time
	known   bool
}

func Known(created time.Time) Result {
	return Result{created: created.UTC(), known: true}
}

func Unknown() Result {
	return Result{}
}

func (r Result) IsKnown() bool {
	return r.known
}

func (r Result) Created() (time.Time, bool) {
	return r.created, r.known
}

// AgeDays returns the number of whole days between creation and now, or -1 when the
// creation date is unknown. Creation dates in the future count as zero days.
func (r Result) AgeDays(now time.Time) int {
	if !r.known {
		return -1
	}
	d := now.Sub(r.created)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// String formats the creation date for persistence; unknown results are empty.
func (r Result) String() string {
	if !r.known {
		return ""
	}
	return r.created.Format(time.RFC3339)
}

// ParseResult reads a persisted creation date back. Empty strings are unknown results.
func ParseResult(s string) (Result, error) {
	if s == "" {
		return Unknown(), nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return Unknown(), err
	}
	return Known(t), nil
}

// Resolver looks up the creation date of a domain. Implementations never fail: anything
// that goes wrong is an unknown result.
type Resolver interface {
	Resolve(ctx context.Context, domain string) Result
}

type ResolverFunc func(ctx context.Context, domain string) Result

func (f ResolverFunc) Resolve(ctx context.Context, domain string) Result {
	return f(ctx, domain)
}

// Offline never performs lookups.
var Offline Resolver = ResolverFunc(func(context.Context, string) Result {
	return Unknown()
})
