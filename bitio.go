package golfpack

import (
	"errors"
	"math/big"
)

// ErrTruncated is returned by BitReader.Read when the underlying byte
// slice runs out before the requested number of bits is available.
var ErrTruncated = errors.New("golfpack: truncated bitstream")

// BitReader is an LSB-first bit accumulator over a byte slice: bits are
// dropped from the bottom of the buffer and new bytes are appended to
// the top, matching DEFLATE's bit order on the wire.
type BitReader struct {
	data       []byte
	pos        int
	buffer     uint64
	bufferSize uint
}

// NewBitReader wraps data for LSB-first bit reads.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// Read returns the low n bits of the stream, least significant bit
// first, and advances past them. n must be small enough that the
// accumulated value fits in 64 bits (the DEFLATE header fields this is
// used for never exceed a handful of bits per call).
func (r *BitReader) Read(n uint) (uint64, error) {
	for r.bufferSize < n {
		if r.pos >= len(r.data) {
			return 0, ErrTruncated
		}
		r.buffer |= uint64(r.data[r.pos]) << r.bufferSize
		r.pos++
		r.bufferSize += 8
	}
	ret := r.buffer & (1<<n - 1)
	r.buffer >>= n
	r.bufferSize -= n
	return ret, nil
}

// BitString is a length-tagged bit vector: Value holds Size bits,
// least significant bit first, with the invariant Value < 2^Size.
// Value is arbitrary precision because a dynamic Huffman header can
// run well past 64 bits for a large code-length alphabet, and the
// fully reconstructed block is the concatenation of every code on the
// chosen path.
type BitString struct {
	Value *big.Int
	Size  int
}

// Bits constructs a BitString from a machine word. size must not
// exceed 64.
func Bits(value uint64, size int) BitString {
	return BitString{Value: new(big.Int).SetUint64(value), Size: size}
}

// emptyBits is the zero-length BitString.
var emptyBits = Bits(0, 0)

// Concat returns a·b: the low bits of a precede the low bits of b in
// emission order, so b is shifted left by a's size before the two
// values are combined.
func (a BitString) Concat(b BitString) BitString {
	v := new(big.Int).Lsh(b.Value, uint(a.Size))
	v.Or(v, a.Value)
	return BitString{Value: v, Size: a.Size + b.Size}
}

// ToBytes splits off the largest whole-byte prefix, returning it along
// with the residual BitString of size 0..7.
func (a BitString) ToBytes() ([]byte, BitString) {
	total := a.Size/8 + 1
	buf := littleEndianBytes(a.Value, total)
	residualSize := a.Size & 7
	return buf[:total-1], Bits(uint64(buf[total-1]), residualSize)
}

// littleEndianBytes renders v as n little-endian bytes. v must be
// strictly less than 256^n, which every caller here guarantees via
// the BitString size invariant.
func littleEndianBytes(v *big.Int, n int) []byte {
	out := make([]byte, n)
	be := v.Bytes()
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// rawBits reads the first n bits of data, LSB first, as a single
// arbitrary-precision BitString. Used once per block to re-read the
// dynamic Huffman header verbatim after parsing it (see Huffman.Raw):
// re-deriving it from the byte slice directly is simpler and exact for
// any n, unlike replaying a BitReader bit-by-bit into a big.Int.
func rawBits(data []byte, n int) BitString {
	nbytes := (n + 7) / 8
	buf := make([]byte, nbytes)
	copy(buf, data[:nbytes])
	be := make([]byte, nbytes)
	for i, b := range buf {
		be[nbytes-1-i] = b
	}
	v := new(big.Int).SetBytes(be)
	mask := new(big.Int).Lsh(big.NewInt(1), uint(n))
	mask.Sub(mask, big.NewInt(1))
	v.And(v, mask)
	return BitString{Value: v, Size: n}
}

// reverseBits reverses the low length bits of code, as DEFLATE stores
// every Huffman code bit-reversed relative to its canonical numeric
// form.
func reverseBits(code uint64, length int) uint64 {
	var rev uint64
	for i := 0; i < length; i++ {
		rev = rev<<1 | code&1
		code >>= 1
	}
	return rev
}
