// Package catalog runs the embarrassingly-parallel search over deflater,
// delimiter and re-encode choices and picks the shortest resulting
// self-extracting source.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/google-code-golf/golfpack"
	"github.com/google-code-golf/golfpack/internal/deflatesrc"
	"github.com/google-code-golf/golfpack/internal/literal"
)

// Config names the search space: which deflaters to sweep, which
// delimiters and re-encode choices to try against each of their
// outputs.
type Config struct {
	Deflaters  []deflatesrc.Deflater
	Delimiters []byte
	Reencode   []bool
}

// DefaultConfig mirrors compress.py's DELIMS and the two re-encode
// modes, backed by golfpack's two local deflater adapters.
func DefaultConfig() Config {
	return Config{
		Deflaters: []deflatesrc.Deflater{
			deflatesrc.NewStdlibZlib(9),
			deflatesrc.NewKlauspostLibdeflate(9),
		},
		Delimiters: []byte{'\'', '"'},
		Reencode:   []bool{true, false},
	}
}

// Result is the winning candidate and the parameters that produced it.
type Result struct {
	Source    []byte
	Method    string
	Level     int
	Delimiter byte
	Reencoded bool
}

type attempt struct {
	source []byte
	method string
	level  int
	delim  byte
	reenc  bool
	err    error
}

// Compress searches the configured deflater/delimiter/re-encode space
// for the shortest self-extracting wrapper around src, evaluating the
// candidates concurrently. Every candidate is wrapped with
// literal.WindowDefault; no narrower window is tried.
func Compress(ctx context.Context, src []byte, cfg Config, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	hoisted, body := literal.HoistImport(src)

	var candidates []deflatesrc.Candidate
	for _, d := range cfg.Deflaters {
		cs, err := d.Compress(body)
		if err != nil {
			return Result{}, fmt.Errorf("catalog: %s: %w", d.Name(), err)
		}
		candidates = append(candidates, cs...)
	}
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("catalog: no deflater produced output")
	}

	type job struct {
		candidate deflatesrc.Candidate
		delim     byte
		reenc     bool
	}
	var jobs []job
	for _, c := range candidates {
		for _, delim := range cfg.Delimiters {
			for _, reenc := range cfg.Reencode {
				jobs = append(jobs, job{c, delim, reenc})
			}
		}
	}

	results := make([]attempt, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			data := j.candidate.Data
			if j.reenc {
				var err error
				data, err = golfpack.Reencode(data, j.delim)
				if err != nil {
					results[i] = attempt{err: fmt.Errorf("reencode: %w", err)}
					return nil
				}
			}
			escaped := literal.Escape(data, j.delim)
			source := literal.Wrap(escaped, j.delim, hoisted, literal.WindowDefault)

			results[i] = attempt{
				source: source,
				method: j.candidate.Method,
				level:  j.candidate.Level,
				delim:  j.delim,
				reenc:  j.reenc,
			}
			logger.Debug("catalog candidate",
				"method", j.candidate.Method,
				"level", j.candidate.Level,
				"delimiter", string(j.delim),
				"reencode", j.reenc,
				"bytes", len(source))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("catalog: %w", err)
	}

	best, ok := bestOf(results)
	if !ok {
		return Result{}, fmt.Errorf("catalog: every candidate failed")
	}

	logger.Info("catalog winner",
		"method", best.method,
		"level", best.level,
		"delimiter", string(best.delim),
		"reencode", best.reenc,
		"bytes", len(best.source))

	return Result{
		Source:    best.source,
		Method:    best.method,
		Level:     best.level,
		Delimiter: best.delim,
		Reencoded: best.reenc,
	}, nil
}

// bestOf picks the shortest successful attempt, breaking ties on
// earliest index so the result is deterministic across runs.
func bestOf(results []attempt) (attempt, bool) {
	var best attempt
	found := false
	for _, a := range results {
		if a.err != nil || a.source == nil {
			continue
		}
		if !found || len(a.source) < len(best.source) {
			best = a
			found = true
		}
	}
	return best, found
}
