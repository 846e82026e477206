package app

import (
	"phishing-url-dataset/registration"

	"github.com/rs/zerolog"
)

// NewResolver builds the registration resolver described by the whois section.
func NewResolver(conf Config, logger zerolog.Logger) registration.Resolver {
	if conf.Whois.Offline {
		logger.Warn().Msg("registration lookups disabled, every age will be unknown")
		return registration.Offline
	}
	whois := registration.NewWhoisResolver(conf.Whois.WhoisOptions, logger)
	return registration.NewCachedResolver(whois, conf.Whois.CacheSize)
}
