package registration

import (
	"context"
	"net"
	"strings"
	"time"

	"phishing-url-dataset/domain"
	"phishing-url-dataset/generic"

	whois "github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var ErrNoDomainSection = errors.New("whois response has no domain section")

type WhoisOptions struct {
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	Retries       int           `yaml:"retries"`
	Backoff       time.Duration `yaml:"backoff"`
}

func DefaultWhoisOptions() WhoisOptions {
	return WhoisOptions{
		Timeout:       10 * time.Second,
		RatePerSecond: 1,
		Burst:         1,
		Retries:       2,
		Backoff:       3 * time.Second,
	}
}

type QueryFunc func(domain string) (string, error)

// WhoisResolver resolves creation dates with whois queries, shared rate limit included.
type WhoisResolver struct {
	query   QueryFunc
	limiter *rate.Limiter
	opts    WhoisOptions
	logger  zerolog.Logger
}

func NewWhoisResolver(opts WhoisOptions, logger zerolog.Logger) *WhoisResolver {
	client := whois.NewClient().SetTimeout(opts.Timeout)
	return NewWhoisResolverWithQuery(func(d string) (string, error) {
		return client.Whois(d)
	}, opts, logger)
}

func NewWhoisResolverWithQuery(q QueryFunc, opts WhoisOptions, logger zerolog.Logger) *WhoisResolver {
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	return &WhoisResolver{
		query:   q,
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
		logger:  logger.With().Str("component", "whois").Logger(),
	}
}

func (r *WhoisResolver) Resolve(ctx context.Context, name string) Result {
	created, err := r.lookup(ctx, name)
	if err == nil {
		return Known(created)
	}

	// registries rarely hold records for subdomains, so ask for the registrable parent
	if ctx.Err() == nil && domain.IsSubdomain(name) && !isTransient(err) {
		parent := domain.Registrable(name)
		r.logger.Debug().Str("domain", name).Str("parent", parent).Msgf("retrying lookup on parent: %s", err)
		created, err = r.lookup(ctx, parent)
		if err == nil {
			return Known(created)
		}
	}

	r.logger.Debug().Str("domain", name).Msgf("creation date unknown: %s", err)
	return Unknown()
}

func (r *WhoisResolver) lookup(ctx context.Context, name string) (time.Time, error) {
	var raw string
	err := generic.Retry(ctx, func() error {
		if err := r.limiter.Wait(ctx); err != nil {
			return generic.Permanent(err)
		}
		res, err := r.queryContext(ctx, name)
		if err != nil {
			if isTransient(err) {
				return err
			}
			return generic.Permanent(err)
		}
		raw = res
		return nil
	}, r.opts.Retries, r.opts.Backoff)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "whois query")
	}

	return parseCreated(raw)
}

func (r *WhoisResolver) queryContext(ctx context.Context, name string) (string, error) {
	type answer struct {
		raw string
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		raw, err := r.query(name)
		ch <- answer{raw, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-ch:
		return a.raw, a.err
	}
}

func parseCreated(raw string) (time.Time, error) {
	info, err := parser.Parse(raw)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse whois response")
	}
	return domainCreated(info.Domain)
}

// domainCreated prefers the date the parser already normalised and falls back to the raw field.
func domainCreated(d *parser.Domain) (time.Time, error) {
	if d == nil {
		return time.Time{}, ErrNoDomainSection
	}
	if d.CreatedDateInTime != nil && !d.CreatedDateInTime.IsZero() {
		return d.CreatedDateInTime.UTC(), nil
	}
	return ParseDate(FirstCandidate(d.CreatedDate))
}

var transientMarkers = []string{
	"timeout",
	"connection reset",
	"connection refused",
	"rate limit",
	"too many requests",
	"quota exceeded",
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
