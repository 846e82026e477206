package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"phishing-url-dataset/app"
	"phishing-url-dataset/predict"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const exitModelMissing = 2

func printVerdict(v predict.Verdict) {
	fmt.Printf("URL:        %s\n", v.URL)
	fmt.Printf("Domain:     %s\n", v.Domain)
	if v.Phishing() {
		color.Red("Verdict:    PHISHING")
	} else {
		color.Green("Verdict:    BENIGN")
	}
	fmt.Printf("Confidence: %.2f%%\n", v.Confidence*100)

	color.HiBlue("\nFeatures:")
	fmt.Printf("  url_length:          %d\n", v.Features.URLLength)
	fmt.Printf("  domain_length:       %d\n", v.Features.DomainLength)
	fmt.Printf("  dots_count:          %d\n", v.Features.DotsCount)
	fmt.Printf("  hyphens_count:       %d\n", v.Features.HyphensCount)
	fmt.Printf("  special_chars_count: %d\n", v.Features.SpecialCharsCount)
	fmt.Printf("  domain_entropy:      %.4f\n", v.Features.DomainEntropy)
	if v.Features.HasAge() {
		fmt.Printf("  domain_age_days:     %d\n", v.Features.DomainAgeDays)
	} else {
		color.Yellow("  domain_age_days:     unknown")
	}
}

func main() {
	confFile := flag.String("config", "", "location of configuration file")
	modelPath := flag.String("model", "", "model artifact, overrides the configuration")
	offline := flag.Bool("offline", false, "skip the registration lookup")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	url := flag.Arg(0)

	conf, err := app.ReadConfig(*confFile)
	app.SetupLogging(conf)
	if err != nil {
		log.Fatal().Msgf("error while reading configuration: %s", err)
	}
	if *modelPath != "" {
		conf.Model.Path = *modelPath
	}
	if *offline {
		conf.Whois.Offline = true
	}
	if err := conf.IsValid(); err != nil {
		log.Fatal().Msgf("configuration is invalid: %s", err)
	}

	model, err := predict.LoadModel(conf.Model.Path)
	if errors.Cause(err) == predict.ErrModelNotFound {
		log.Error().Str("path", conf.Model.Path).Msg("model artifact not found, train and export a model first")
		os.Exit(exitModelMissing)
	}
	if err != nil {
		log.Fatal().Msgf("error while loading model: %s", err)
	}

	p := predict.NewPredictor(model, app.NewResolver(conf, log.Logger))
	ctx := context.Background()
	if conf.Server.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Server.LookupTimeout)
		defer cancel()
	}

	printVerdict(p.Predict(ctx, url))
}
