package golfpack

import (
	"errors"
	"sort"
)

// ErrMalformedBlock is returned when a dynamic Huffman header cannot be
// parsed. Conforming deflaters never produce this; it is reachable
// only from hand-crafted or corrupted input.
var ErrMalformedBlock = errors.New("golfpack: malformed dynamic huffman header")

// clOrder is the fixed permutation code-length codes are stored in.
var clOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// Huffman holds the two canonical code tables parsed from a dynamic
// Huffman block header, plus the header's raw bits so it can be
// re-emitted verbatim.
type Huffman struct {
	lit  map[int]BitString // symbol in [0,286) -> code
	dist map[int]BitString // symbol in [0,30) -> code
	Raw  BitString
}

// bitKey is a map key for a (value, length) pair small enough to fit a
// machine word — every code this package decodes during header parsing
// is well under 64 bits, unlike the header as a whole.
type bitKey struct {
	value uint64
	size  uint8
}

// canonicalTables builds both the decode table (code -> symbol) and the
// encode table (symbol -> code) from a list of code lengths, by the
// same single walk: sort symbols with nonzero length by (length,
// symbol) ascending, and assign consecutive codes, bit-reversing each
// one as it's produced since DEFLATE stores codes LSB first.
func canonicalTables(lengths []int) (decode map[bitKey]int, encode map[int]BitString) {
	decode = make(map[bitKey]int)
	encode = make(map[int]BitString)

	order := make([]int, 0, len(lengths))
	for sym, l := range lengths {
		if l > 0 {
			order = append(order, sym)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if lengths[a] != lengths[b] {
			return lengths[a] < lengths[b]
		}
		return a < b
	})

	code, length := 0, 0
	for _, sym := range order {
		code <<= lengths[sym] - length
		length = lengths[sym]
		rev := reverseBits(uint64(code), length)
		decode[bitKey{rev, uint8(length)}] = sym
		encode[sym] = Bits(rev, length)
		code++
	}
	return decode, encode
}

// ParseHuffman parses the dynamic Huffman header at the start of a
// single final, dynamic-Huffman DEFLATE block (§4.2). The caller is
// responsible for checking the block-shape byte first (see Reencode).
func ParseHuffman(deflate []byte) (*Huffman, error) {
	r := NewBitReader(deflate)

	final, err := r.Read(1)
	if err != nil {
		return nil, err
	}
	btype, err := r.Read(2)
	if err != nil {
		return nil, err
	}
	if final != 1 || btype != 2 {
		return nil, ErrMalformedBlock
	}

	hlitBits, err := r.Read(5)
	if err != nil {
		return nil, err
	}
	hdistBits, err := r.Read(5)
	if err != nil {
		return nil, err
	}
	hclenBits, err := r.Read(4)
	if err != nil {
		return nil, err
	}
	hlit := int(hlitBits) + 257
	hdist := int(hdistBits) + 1
	hclen := int(hclenBits) + 4

	clLengths := make([]int, 19)
	for i := 0; i < hclen; i++ {
		l, err := r.Read(3)
		if err != nil {
			return nil, err
		}
		clLengths[clOrder[i]] = int(l)
	}
	clDecode, _ := canonicalTables(clLengths)
	used := 17 + 3*hclen

	lengths := make([]int, 0, hlit+hdist)
	for len(lengths) < hlit+hdist {
		code, length := 0, 0
		var sym int
		var ok bool
		for !ok {
			bit, err := r.Read(1)
			if err != nil {
				return nil, err
			}
			code |= int(bit) << length
			length++
			if length > 7 {
				return nil, ErrMalformedBlock
			}
			sym, ok = clDecode[bitKey{uint64(code), uint8(length)}]
		}
		used += length

		switch {
		case sym < 16:
			lengths = append(lengths, sym)
		case sym == 16:
			if len(lengths) == 0 {
				return nil, ErrMalformedBlock
			}
			n, err := r.Read(2)
			if err != nil {
				return nil, err
			}
			used += 2
			prev := lengths[len(lengths)-1]
			for i := 0; i < int(n)+3; i++ {
				lengths = append(lengths, prev)
			}
		case sym == 17:
			n, err := r.Read(3)
			if err != nil {
				return nil, err
			}
			used += 3
			for i := 0; i < int(n)+3; i++ {
				lengths = append(lengths, 0)
			}
		case sym == 18:
			n, err := r.Read(7)
			if err != nil {
				return nil, err
			}
			used += 7
			for i := 0; i < int(n)+11; i++ {
				lengths = append(lengths, 0)
			}
		default:
			return nil, ErrMalformedBlock
		}
	}
	if len(lengths) != hlit+hdist {
		return nil, ErrMalformedBlock
	}

	_, litEncode := canonicalTables(lengths[:hlit])
	_, distEncode := canonicalTables(lengths[hlit:])

	return &Huffman{
		lit:  litEncode,
		dist: distEncode,
		Raw:  rawBits(deflate, used),
	}, nil
}

// EncodeLit returns the literal/length code for byte or EOB symbol x
// (x in [0,255] or x==256), or ok==false if the table omits it.
func (h *Huffman) EncodeLit(x int) (code BitString, ok bool) {
	code, ok = h.lit[x]
	return code, ok
}

// firstLengthSymbol and lastLengthSymbol bound the length symbols
// EncodeLen walks; symbol 285 lies outside the range (see EncodeLen).
const (
	firstLengthSymbol = 257
	lastLengthSymbol  = 285 // exclusive
)

// EncodeLen returns the code for match length x, or ok==false if the
// table omits the corresponding symbol. Each symbol's base and extra-bit
// count follow the recurrence from §3, computed inline: extra bits
// increase by one every time sym is past 264 and sym%4==1. Symbol 285
// is never emitted: the walk stops at 284, whose range (base 227 plus
// five extra bits) already reaches length 258.
func (h *Huffman) EncodeLen(x int) (code BitString, ok bool) {
	start, extra := 3, 0
	for sym := firstLengthSymbol; sym < lastLengthSymbol; sym++ {
		if sym > 264 && sym%4 == 1 {
			extra++
		}
		if x < start+(1<<extra) {
			base, present := h.lit[sym]
			if !present {
				return BitString{}, false
			}
			return base.Concat(Bits(uint64(x-start), extra)), true
		}
		start += 1 << extra
	}
	return BitString{}, false
}

// EncodeDist returns the code for distance x, or ok==false if the
// table omits the corresponding symbol.
func (h *Huffman) EncodeDist(x int) (code BitString, ok bool) {
	start, extra := 1, 0
	for sym := 0; sym < 30; sym++ {
		if sym > 3 && sym%2 == 0 {
			extra++
		}
		if x < start+(1<<extra) {
			base, present := h.dist[sym]
			if !present {
				return BitString{}, false
			}
			return base.Concat(Bits(uint64(x-start), extra)), true
		}
		start += 1 << extra
	}
	return BitString{}, false
}
