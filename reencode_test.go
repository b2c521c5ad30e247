package golfpack

import (
	"bytes"
	"compress/flate"
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func ExampleReencode() {
	// A stored (non-dynamic-Huffman) block is returned unchanged.
	stored := []byte{0b00000000, 0x01, 0x00, 0xFE, 0xFF, 'x'}
	out, err := Reencode(stored, '\'')
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: [0 1 0 254 255 120]
}

func TestReencodePassthroughNonDynamicBlock(t *testing.T) {
	// Low 3 bits 0b000: BFINAL=0, BTYPE=stored. Not a block Reencode
	// touches; it must come back byte-for-byte.
	in := []byte{0b00000000, 0x01, 0x00, 0xFE, 0xFF, 'x'}
	out, err := Reencode(in, '\'')
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Fatalf("out = %x, want unchanged %x", out, in)
	}
}

func TestReencodeRejectsUnsupportedDelimiter(t *testing.T) {
	in := []byte{0b00000101, 0, 0, 0, 0}
	if _, err := Reencode(in, '`'); err != ErrUnsupportedDelimiter {
		t.Fatalf("err = %v, want ErrUnsupportedDelimiter", err)
	}
}

func TestReencodeRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20))

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	original := buf.Bytes()

	for _, delim := range []byte{'\'', '"'} {
		out, err := Reencode(original, delim)
		if err != nil {
			t.Fatalf("Reencode(delim=%c): %v", delim, err)
		}
		if len(out) > len(original) {
			t.Errorf("Reencode(delim=%c) grew the stream: %d > %d", delim, len(out), len(original))
		}

		got, err := inflateRaw(out)
		if err != nil {
			t.Fatalf("inflateRaw(Reencode output): %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("round trip mismatch for delim=%c: got %d bytes, want %d", delim, len(got), len(payload))
		}
	}
}

func TestReencodeCacheMatchesDirectCall(t *testing.T) {
	payload := []byte(strings.Repeat("ab", 100))
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	w.Write(payload)
	w.Close()
	original := buf.Bytes()

	direct, err := Reencode(original, '\'')
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}

	cache := NewReencodeCache()
	cached, err := cache.Reencode(original, '\'')
	if err != nil {
		t.Fatalf("cache.Reencode: %v", err)
	}
	if !bytes.Equal(direct, cached) {
		t.Fatalf("cached result differs from direct call")
	}
	// Second call must hit the cache and return the identical result.
	cached2, err := cache.Reencode(original, '\'')
	if err != nil {
		t.Fatalf("cache.Reencode (second call): %v", err)
	}
	if !bytes.Equal(cached, cached2) {
		t.Fatalf("cache returned different bytes on second call")
	}
}

func TestReencodeFuzzRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		data := randomBytes(rng, 1000, 20)

		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.BestCompression)
		if err != nil {
			t.Fatalf("flate.NewWriter: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		original := buf.Bytes()

		for _, delim := range []byte{'\'', '"'} {
			out, err := Reencode(original, delim)
			if err != nil {
				t.Fatalf("Reencode(delim=%c): %v", delim, err)
			}
			got, err := inflateRaw(out)
			if err != nil {
				t.Fatalf("inflateRaw(Reencode output): %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("iteration %d, delim=%c: round trip mismatch", i, delim)
			}
		}
	}
}

// randomBytes mirrors JoshVarga-blast's writer_test.go helper of the same
// name: a small alphabet keeps the payload compressible enough to land a
// dynamic Huffman block most of the time, not a stored one.
func randomBytes(rng *rand.Rand, length, unique int) []byte {
	b := make([]byte, length)
	for i := range b {
		b[i] = byte(rng.Intn(unique))
	}
	return b
}
