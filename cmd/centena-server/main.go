package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/calmisko/centena/server"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("bad configuration")
		os.Exit(1)
	}

	srv := server.NewServer(cfg)

	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	err = srv.Run(ctx)
	log.Info().Err(err).Msg("server return")
	if err != nil && err != context.Canceled {
		os.Exit(1)
	}
}
