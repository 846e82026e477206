package generic

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type permanent struct {
	err error
}

func (p *permanent) Error() string {
	return p.err.Error()
}

func (p *permanent) Cause() error {
	return p.err
}

// Permanent marks an error that must not be retried.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// retries the given function up to "retries" times in case the function returns an error;
// the wait between attempts grows linearly with the attempt number
func Retry(ctx context.Context, f func() error, retries int, backoff time.Duration) error {
	for attempt := 0; ; attempt++ {
		err := f()
		if err == nil {
			return nil
		}
		if p, ok := err.(*permanent); ok {
			return p.err
		}
		if attempt >= retries {
			return err
		}

		delay := time.Duration(attempt+1) * backoff
		log.Debug().Err(err).Msgf("attempt %d failed, retrying in %s", attempt+1, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
