package domain

import (
	"net"
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/net/publicsuffix"
)

const defaultScheme = "http://"

// Hostname extracts the lowercase hostname of a raw URL. Inputs without a scheme are
// parsed as http URLs. Only the authority is parsed, so the path, query and port never
// make a URL unparseable. An invalid host yields an empty string.
func Hostname(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = defaultScheme + raw
	}

	i := strings.Index(raw, "://")
	if i == 0 {
		return ""
	}
	authority := raw[i+3:]
	if end := strings.IndexAny(authority, "/?#"); end >= 0 {
		authority = authority[:end]
	}
	host := stripPort(authority[strings.LastIndex(authority, "@")+1:])
	if host == "" {
		return ""
	}

	u, err := url.Parse(defaultScheme + host)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// stripPort drops anything after the host without validating it as a port.
func stripPort(hostport string) string {
	if strings.HasPrefix(hostport, "[") {
		end := strings.Index(hostport, "]")
		if end < 0 {
			return ""
		}
		return hostport[:end+1]
	}
	if i := strings.Index(hostport, ":"); i >= 0 {
		return hostport[:i]
	}
	return hostport
}

// Registrable returns the registrable part (eTLD+1) of a hostname, or an empty string for
// IP addresses, public suffixes and names the suffix list cannot place.
func Registrable(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	apex, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return apex
}

// IsSubdomain reports whether host has labels left of its registrable domain.
func IsSubdomain(host string) bool {
	apex := Registrable(host)
	return apex != "" && apex != strings.TrimSuffix(strings.ToLower(host), ".")
}
