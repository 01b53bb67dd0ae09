package main

import (
	"os"

	"github.com/rs/zerolog"

	"chess-companion/engine"
	"chess-companion/server"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := server.LoadConfig()

	eng := engine.New(engine.WithLogger(log), engine.WithYield(uint64(cfg.YieldInterval), nil))
	srv, err := server.New(eng, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
