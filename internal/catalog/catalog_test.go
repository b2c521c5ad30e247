package catalog

import (
	"bytes"
	"compress/flate"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google-code-golf/golfpack/internal/deflatesrc"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompressWinningLevelRoundTrips(t *testing.T) {
	src := []byte("print('" + strings.Repeat("ab", 200) + "')")

	cfg := Config{
		Deflaters:  []deflatesrc.Deflater{deflatesrc.NewStdlibZlib(1, 9)},
		Delimiters: []byte{'\'', '"'},
		Reencode:   []bool{true, false},
	}

	result, err := Compress(context.Background(), src, cfg, discardLogger())
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(result.Source) == 0 {
		t.Fatal("empty source")
	}

	// src has no leading import, so Compress deflated it whole: re-run
	// the deflater at the winning level and confirm that stream inflates
	// back to src.
	candidates, err := deflatesrc.NewStdlibZlib(result.Level).Compress(src)
	if err != nil {
		t.Fatalf("re-deflate: %v", err)
	}
	r := flate.NewReader(bytes.NewReader(candidates[0].Data))
	got, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompressHoistsLeadingImport(t *testing.T) {
	src := []byte("import re\nprint(re.compile('x'))")
	cfg := Config{
		Deflaters:  []deflatesrc.Deflater{deflatesrc.NewStdlibZlib(9)},
		Delimiters: []byte{'\''},
		Reencode:   []bool{false},
	}
	result, err := Compress(context.Background(), src, cfg, discardLogger())
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !bytes.Contains(result.Source, []byte("import zlib,re")) {
		t.Fatalf("source missing hoisted import: %s", result.Source)
	}
}

func TestCompressNoDeflatersErrors(t *testing.T) {
	_, err := Compress(context.Background(), []byte("x"), Config{}, discardLogger())
	if err == nil {
		t.Fatal("expected error with no deflaters configured")
	}
}
