package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phishing-url-dataset/app"
	"phishing-url-dataset/predict"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func main() {
	confFile := flag.String("config", "", "location of configuration file")
	flag.Parse()

	conf, err := app.ReadConfig(*confFile)
	app.SetupLogging(conf)
	if err != nil {
		log.Fatal().Msgf("error while reading configuration: %s", err)
	}
	if err := conf.IsValid(); err != nil {
		log.Fatal().Msgf("configuration is invalid: %s", err)
	}

	model, err := predict.LoadModel(conf.Model.Path)
	if errors.Cause(err) == predict.ErrModelNotFound {
		log.Fatal().Str("path", conf.Model.Path).Msg("model artifact not found, refusing to start")
	}
	if err != nil {
		log.Fatal().Msgf("error while loading model: %s", err)
	}
	log.Info().Str("model", model.Name).Msg("model loaded")

	logger := log.With().Str("app", "server").Logger()
	p := predict.NewPredictor(model, app.NewResolver(conf, logger))

	mux := http.NewServeMux()
	mux.Handle("/predict", predict.NewHandler(p, conf.Server.LookupTimeout, logger))

	srv := &http.Server{
		Addr:    ":" + conf.Server.Port,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("port", conf.Server.Port).Msg("prediction service listening, POST /predict")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Msgf("server stopped: %s", err)
	}
}
