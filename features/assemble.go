package features

import (
	"context"
	"time"

	"phishing-url-dataset/domain"
	"phishing-url-dataset/registration"
)

// Record is one URL with everything derived from it.
type Record struct {
	URL     string
	Domain  string
	Created registration.Result
	Vector
}

// Assemble builds the record for a URL whose hostname has already been parsed. Without a
// hostname every domain level feature keeps its sentinel value.
func Assemble(url, host string, created registration.Result, now time.Time) Record {
	v := Lexical(url, host)
	if host == "" {
		created = registration.Unknown()
	}
	v.DomainAgeDays = created.AgeDays(now)

	return Record{
		URL:     url,
		Domain:  host,
		Created: created,
		Vector:  v,
	}
}

// Extract parses, looks up and assembles a single URL. Unparseable URLs are not looked up
// and come back with sentinel features instead of being dropped.
func Extract(ctx context.Context, url string, r registration.Resolver, now time.Time) Record {
	host := domain.Hostname(url)
	created := registration.Unknown()
	if host != "" {
		created = r.Resolve(ctx, host)
	}
	return Assemble(url, host, created, now)
}
