package main

import (
	"flag"
	"fmt"
	"os"

	"phishing-url-dataset/app"
	"phishing-url-dataset/dataset"
	"phishing-url-dataset/labeling"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

func printReport(r labeling.Report) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rule", "Matched", "Newly labeled"})
	table.SetAutoWrapText(false)
	for _, rc := range r.Rules {
		table.Append([]string{rc.Rule, fmt.Sprintf("%d", rc.Matched), fmt.Sprintf("%d", rc.Added)})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d records", r.Total),
		fmt.Sprintf("%d phishing", r.Phishing),
		fmt.Sprintf("%d benign", r.Benign),
	})
	table.Render()
}

func main() {
	confFile := flag.String("config", "", "location of configuration file")
	quiet := flag.Bool("quiet", false, "do not print the rule report")
	flag.Parse()

	conf, err := app.ReadConfig(*confFile)
	app.SetupLogging(conf)
	if err != nil {
		log.Fatal().Msgf("error while reading configuration: %s", err)
	}
	if err := conf.IsValid(); err != nil {
		log.Fatal().Msgf("configuration is invalid: %s", err)
	}

	records, err := dataset.ReadFeatures(conf.Store.Features)
	if err != nil {
		log.Fatal().Msgf("error while reading feature table: %s", err)
	}
	if len(records) == 0 {
		log.Fatal().Str("path", conf.Store.Features).Msg("feature table is empty")
	}

	labeler := labeling.NewLabeler(conf.Labeling, log.With().Str("app", "label").Logger())
	labeled, report := labeler.Label(records)

	if err := dataset.WriteLabeled(conf.Store.Labeled, labeled); err != nil {
		log.Fatal().Msgf("error while writing labeled table: %s", err)
	}
	log.Info().Str("path", conf.Store.Labeled).Msg(report.String())

	if !*quiet {
		printReport(report)
	}
}
