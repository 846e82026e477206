package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phishing-url-dataset/app"
	"phishing-url-dataset/dataset"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func main() {
	confFile := flag.String("config", "", "location of configuration file")
	offline := flag.Bool("offline", false, "skip registration lookups")
	flag.Parse()

	conf, err := app.ReadConfig(*confFile)
	app.SetupLogging(conf)
	if err != nil {
		log.Fatal().Msgf("error while reading configuration: %s", err)
	}
	if *offline {
		conf.Whois.Offline = true
	}
	if err := conf.IsValid(); err != nil {
		log.Fatal().Msgf("configuration is invalid: %s", err)
	}

	runID := uuid.New().String()
	logger := log.With().Str("app", "extract").Str("run", runID).Logger()
	el := app.NewErrLogger(conf, map[string]string{"app": "extract", "run": runID})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := dataset.OpenLookupStore(conf.Store.Raw)
	if err != nil {
		log.Fatal().Msgf("error while opening lookup store: %s", err)
	}
	logger.Info().Str("path", conf.Store.Raw).Int("stored", store.Len()).Msg("opened lookup store")

	p := dataset.NewPipeline(app.NewResolver(conf, logger), store, dataset.Options{
		Sources:      conf.Inputs.Sources,
		SampleSize:   conf.Sampling.Size,
		Seed:         conf.Sampling.Seed,
		Workers:      conf.Whois.Workers,
		RetryUnknown: conf.Whois.RetryUnknown,
		Progress:     os.Stderr,
	}, logger)

	now := time.Now().UTC()
	records, err := p.Run(ctx, now)
	if cerr := store.Close(); cerr != nil {
		el.Log(cerr, app.LogOptions{Msg: "error while closing lookup store"})
	}
	if err != nil {
		if errors.Cause(err) == dataset.ErrNoDomains {
			log.Fatal().Strs("sources", conf.Inputs.Sources).Msg("no input domains, nothing to extract")
		}
		el.Log(err, app.LogOptions{Msg: "feature extraction stopped, completed lookups are kept"})
		os.Exit(1)
	}

	if err := dataset.WriteFeatures(conf.Store.Features, records); err != nil {
		log.Fatal().Msgf("error while writing feature table: %s", err)
	}
	logger.Info().Str("path", conf.Store.Features).Int("records", len(records)).Msg("feature table written")
}
