// Command golfpack runs the full compression catalog search over a
// Python source file and writes the shortest self-extracting rendering
// it finds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google-code-golf/golfpack/internal/catalog"
)

func main() {
	var (
		inPath  = flag.String("i", "", "input Python source file")
		outPath = flag.String("o", "", "output file for the winning self-extracting source")
		verbose = flag.Bool("v", false, "log every candidate, not just the winner")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*inPath, *outPath, logger); err != nil {
		logger.Error("golfpack failed", "error", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, logger *slog.Logger) error {
	if inPath == "" {
		return fmt.Errorf("golfpack: -i is required")
	}

	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("golfpack: reading %s: %w", inPath, err)
	}

	result, err := catalog.Compress(context.Background(), src, catalog.DefaultConfig(), logger)
	if err != nil {
		return fmt.Errorf("golfpack: %w", err)
	}

	logger.Info("selected candidate",
		"method", result.Method,
		"level", result.Level,
		"delimiter", string(result.Delimiter),
		"reencoded", result.Reencoded,
		"input_bytes", len(src),
		"output_bytes", len(result.Source))

	if outPath == "" {
		_, err := os.Stdout.Write(result.Source)
		return err
	}
	return os.WriteFile(outPath, result.Source, 0o644)
}
