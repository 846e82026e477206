package dataset

import (
	"context"
	"io"
	"io/ioutil"
	"time"

	"phishing-url-dataset/domain"
	"phishing-url-dataset/features"
	"phishing-url-dataset/registration"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
	"golang.org/x/sync/errgroup"
)

const DefaultSampleSize = 5000

type Options struct {
	Sources      []string
	SampleSize   int
	Seed         int64
	Workers      int
	RetryUnknown bool
	Progress     io.Writer
}

// Pipeline turns the raw domain lists into assembled feature records.
type Pipeline struct {
	resolver registration.Resolver
	store    *LookupStore
	opts     Options
	logger   zerolog.Logger
}

type target struct {
	url, host string
}

func NewPipeline(resolver registration.Resolver, store *LookupStore, opts Options, logger zerolog.Logger) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Progress == nil {
		opts.Progress = ioutil.Discard
	}
	return &Pipeline{
		resolver: resolver,
		store:    store,
		opts:     opts,
		logger:   logger,
	}
}

// Run loads, samples, parses and looks up the working set, then assembles one record per
// parseable URL. Ages are computed against now, which the caller captures once per run.
// Lookups finished before an error or cancellation stay in the store.
func (p *Pipeline) Run(ctx context.Context, now time.Time) ([]features.Record, error) {
	urls, err := LoadDomains(p.opts.Sources...)
	if err != nil {
		return nil, err
	}
	p.logger.Info().Int("domains", len(urls)).Msg("loaded unique domains")

	if p.opts.SampleSize > 0 && len(urls) > p.opts.SampleSize {
		p.logger.Info().Int("sample", p.opts.SampleSize).Int64("seed", p.opts.Seed).Msg("taking a random sample")
		urls = Sample(urls, p.opts.SampleSize, p.opts.Seed)
	}

	targets := make([]target, 0, len(urls))
	for _, u := range urls {
		host := domain.Hostname(u)
		if host == "" {
			p.logger.Debug().Str("url", u).Msg("dropping unparseable url")
			continue
		}
		targets = append(targets, target{url: u, host: host})
	}
	if dropped := len(urls) - len(targets); dropped > 0 {
		p.logger.Warn().Int("dropped", dropped).Msg("dropped urls without a hostname")
	}

	results, err := p.lookup(ctx, targets)
	if err != nil {
		return nil, err
	}

	records := make([]features.Record, len(targets))
	known := 0
	for i, t := range targets {
		records[i] = features.Assemble(t.url, t.host, results[i], now)
		if results[i].IsKnown() {
			known++
		}
	}
	p.logger.Info().
		Int("records", len(records)).
		Int("known_age", known).
		Int("unknown_age", len(records)-known).
		Msg("feature extraction complete")

	return records, nil
}

func (p *Pipeline) lookup(ctx context.Context, targets []target) ([]registration.Result, error) {
	results := make([]registration.Result, len(targets))

	var pending []int
	for i, t := range targets {
		l, ok := p.store.Get(t.url)
		if ok && (l.Created.IsKnown() || !p.opts.RetryUnknown) {
			results[i] = l.Created
			continue
		}
		pending = append(pending, i)
	}
	p.logger.Info().
		Int("cached", len(targets)-len(pending)).
		Int("pending", len(pending)).
		Int("workers", p.opts.Workers).
		Msg("performing registration lookups")
	if len(pending) == 0 {
		return results, nil
	}

	name := "WHOIS lookups"
	progress := mpb.New(mpb.WithWidth(60), mpb.WithOutput(p.opts.Progress))
	bar := progress.AddBar(int64(len(pending)),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight}),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "done",
			),
		),
		mpb.AppendDecorators(decor.Percentage()))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for _, i := range pending {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			t := targets[i]
			res := p.resolver.Resolve(gctx, t.host)
			if gctx.Err() != nil {
				// an interrupted lookup says nothing about the domain
				return gctx.Err()
			}
			results[i] = res
			if err := p.store.Put(Lookup{URL: t.url, Domain: t.host, Created: res}); err != nil {
				return err
			}
			bar.Increment()
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	done := bar.Current()
	if err != nil {
		bar.Abort(false)
	}
	progress.Wait()

	if err != nil {
		return nil, errors.Wrapf(err, "lookups stopped after %d of %d", done, len(pending))
	}
	return results, nil
}
