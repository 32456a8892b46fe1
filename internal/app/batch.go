package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/gobrief/internal/fetch"
	"github.com/hyperifyio/gobrief/internal/ingest"
)

// StdinName is the input name that reads from stdin.
const StdinName = "-"

// ParseFiles parses every input with at most cfg.Concurrency files in
// flight. Results keep input order. A failing input is recorded on its
// result and does not stop the others; only cancellation aborts the batch.
func (a *App) ParseFiles(ctx context.Context, inputs []string, stdin io.Reader) ([]ParseResult, error) {
	results := make([]ParseResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	mode := a.cfg.ParseMode()

	for i, name := range inputs {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := a.readInput(gctx, name, stdin)
			if err != nil {
				results[i] = ParseResult{Source: name, Err: err}
				log.Warn().Err(err).Str("input", name).Msg("skipping input")
				return nil
			}
			res, err := a.ParseBytes(name, data, mode, a.cfg.Explain)
			if err != nil {
				res.Err = err
				log.Warn().Err(err).Str("input", name).Msg("skipping input")
			} else {
				log.Debug().Str("input", name).Str("mime", res.MIME).Str("brand", res.Brief.Brand.Name).Msg("parsed brief")
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// readInput loads one input from stdin, an http(s) URL or a file. It reads
// at most MaxInputBytes+1 bytes so oversize input is reported without
// loading all of it.
func (a *App) readInput(ctx context.Context, name string, stdin io.Reader) ([]byte, error) {
	maxBytes := a.cfg.MaxInputBytes
	var data []byte
	switch {
	case name == StdinName:
		if stdin == nil {
			return nil, fmt.Errorf("stdin: no reader")
		}
		// ingest reports oversize stdin
		return io.ReadAll(io.LimitReader(stdin, maxBytes+1))
	case fetch.IsURL(name):
		body, mediaType, err := a.fetcher.Get(ctx, name, maxBytes)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("url", name).Str("content_type", mediaType).Int("bytes", len(body)).Msg("fetched briefing")
		data = body
	default:
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		defer f.Close()
		data, err = io.ReadAll(io.LimitReader(f, maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s: %w", name, ingest.ErrTooLarge)
	}
	return data, nil
}
