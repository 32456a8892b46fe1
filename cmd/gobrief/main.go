package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gobrief/internal/ingest"
)

// Exit codes.
const (
	exitOK    = 0
	exitUsage = 1
	exitInput = 2
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	_ = godotenv.Load()

	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("gobrief failed")
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status: 2 when an
// input was rejected for its format or size, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ingest.ErrUnsupportedFormat), errors.Is(err, ingest.ErrTooLarge):
		return exitInput
	default:
		return exitUsage
	}
}
