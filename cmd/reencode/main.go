// Command reencode runs golfpack's core re-encoder directly on a single
// raw DEFLATE block, bypassing the deflater/wrapper catalog search.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google-code-golf/golfpack"
)

func main() {
	var (
		inPath  = flag.String("i", "", "input file of raw DEFLATE bytes")
		outPath = flag.String("o", "", "output file for the re-encoded DEFLATE bytes")
		delim   = flag.String("delim", "'", "string delimiter the output will be embedded in (' or \")")
	)
	flag.Parse()

	if err := run(*inPath, *outPath, *delim); err != nil {
		fmt.Fprintln(os.Stderr, "reencode:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, delim string) error {
	if inPath == "" {
		return fmt.Errorf("-i is required")
	}
	if len(delim) != 1 {
		return fmt.Errorf("-delim must be a single character, got %q", delim)
	}

	in, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	out, err := golfpack.Reencode(in, delim[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}
