// Package deflatesrc adapts the upstream deflaters golfpack's catalog
// search sweeps over to a single interface, standing in for the
// libdeflate and zlib collaborators the re-encoder treats as external
// (see doc.go). There is no zopfli adapter.
package deflatesrc

import (
	"bytes"
	"compress/flate"
	"fmt"

	kflate "github.com/klauspost/compress/flate"
)

// Candidate is one compressed rendering of a payload, tagged with
// enough of its provenance to log. It does not record the window the
// encoder bounded its search to.
type Candidate struct {
	Data   []byte
	Method string
	Level  int
}

// Deflater produces raw (headerless) DEFLATE streams at a set of
// compression levels it chooses for itself.
type Deflater interface {
	// Name identifies the deflater in logs and candidate labels.
	Name() string
	// Compress returns one candidate per level this deflater sweeps.
	Compress(src []byte) ([]Candidate, error)
}

// stdlibZlib wraps compress/flate, standing in for the catalog's zlib
// entries: the only import-free deflater, used as the baseline every
// other candidate must beat.
type stdlibZlib struct{ levels []int }

// NewStdlibZlib sweeps the given compress/flate levels (1..9, or
// flate.BestCompression).
func NewStdlibZlib(levels ...int) Deflater { return stdlibZlib{levels: levels} }

func (stdlibZlib) Name() string { return "zlib" }

func (z stdlibZlib) Compress(src []byte) ([]Candidate, error) {
	out := make([]Candidate, 0, len(z.levels))
	for _, level := range z.levels {
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("deflatesrc: zlib level %d: %w", level, err)
		}
		if _, err := w.Write(src); err != nil {
			return nil, fmt.Errorf("deflatesrc: zlib write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("deflatesrc: zlib close: %w", err)
		}
		out = append(out, Candidate{Data: buf.Bytes(), Method: "zlib", Level: level})
	}
	return out, nil
}

// klauspostLibdeflate wraps github.com/klauspost/compress/flate, used
// as the catalog's libdeflate stand-in: its encoder searches harder
// than compress/flate at the same level numbers, closer in spirit to
// libdeflate's own aggressive optimal-parsing levels than the stdlib.
type klauspostLibdeflate struct{ levels []int }

// NewKlauspostLibdeflate sweeps the given klauspost/compress/flate
// levels (1..9, or kflate.BestCompression).
func NewKlauspostLibdeflate(levels ...int) Deflater { return klauspostLibdeflate{levels: levels} }

func (klauspostLibdeflate) Name() string { return "libdeflate" }

func (k klauspostLibdeflate) Compress(src []byte) ([]Candidate, error) {
	out := make([]Candidate, 0, len(k.levels))
	for _, level := range k.levels {
		var buf bytes.Buffer
		w, err := kflate.NewWriter(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("deflatesrc: libdeflate level %d: %w", level, err)
		}
		if _, err := w.Write(src); err != nil {
			return nil, fmt.Errorf("deflatesrc: libdeflate write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("deflatesrc: libdeflate close: %w", err)
		}
		out = append(out, Candidate{Data: buf.Bytes(), Method: "libdeflate", Level: level})
	}
	return out, nil
}
