package golfpack

import (
	"bytes"
	"compress/flate"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedDelimiter is returned by Reencode when delim is not
// one of the two single-char delimiters this package's cost model
// supports (see SPEC_FULL.md's Delimiter catalog note).
var ErrUnsupportedDelimiter = errors.New("golfpack: delimiter must be a single ' or \"")

// isDynamicHuffmanBlock reports whether the first byte of a DEFLATE
// stream's low three bits mark it as BFINAL=1, BTYPE=dynamic (§4.7).
func isDynamicHuffmanBlock(deflate []byte) bool {
	return len(deflate) > 0 && deflate[0]&0b111 == 0b101
}

// Reencode re-runs LZ77 match selection over the payload a DEFLATE
// stream decodes to, choosing literals and back-references to minimize
// the bit cost of escaping the result for inclusion as a host-language
// string literal delimited by delim (§4.7).
//
// If deflate is not a single final dynamic-Huffman block, it is
// returned unchanged — this is the documented passthrough case, not an
// error.
func Reencode(deflate []byte, delim byte) ([]byte, error) {
	if !isDynamicHuffmanBlock(deflate) {
		return deflate, nil
	}
	if delim != '\'' && delim != '"' {
		return nil, ErrUnsupportedDelimiter
	}

	data, err := inflateRaw(deflate)
	if err != nil {
		return nil, fmt.Errorf("golfpack: inflate: %w", err)
	}
	h, err := ParseHuffman(deflate)
	if err != nil {
		return nil, fmt.Errorf("golfpack: parse huffman: %w", err)
	}
	return lz77Reencode(data, h, delim)
}

// inflateRaw decompresses a raw (headerless) DEFLATE stream. Go's
// compress/flate is always a raw-DEFLATE codec with no window-size
// parameter on the decode side, since DEFLATE's distance encoding is
// self-describing — it stands in directly for the "inflate(raw_bytes,
// window_log=10)" collaborator §6 names, regardless of what window the
// original encoder bounded itself to.
func inflateRaw(deflate []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(deflate))
	defer r.Close()
	return io.ReadAll(r)
}
