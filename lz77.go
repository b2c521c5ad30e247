package golfpack

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// maxMatchLength is the longest length DEFLATE can express without
// emitting symbol 285 (see Huffman.EncodeLen's doc comment): base 227
// plus 31 extra-bit values tops out at 258, the same ceiling DEFLATE's
// format imposes regardless.
const maxMatchLength = 258

// eob is the end-of-block literal/length symbol.
const eob = 256

// matchRef is one candidate back-reference reachable from a given
// input position: copying length bytes costs code bits.
type matchRef struct {
	length int
	code   BitString
}

// buildMatchIndex enumerates, for every starting position in data, every
// legal back-reference that could begin there (§4.6), using a hash-chain
// over 3-byte prefixes instead of an exhaustive substring table: for
// every pair of positions sharing a 3-byte prefix, the true common-prefix
// length is computed directly, and every length from 3 up to that
// common length is registered, not just the longest one — a shorter
// match can beat a longer one once escape cost is weighed in, so the DP
// needs every intermediate length as a candidate.
func buildMatchIndex(data []byte, h *Huffman) [][]matchRef {
	refs := make([][]matchRef, len(data)+1)
	chains := make(map[uint64][]int)

	for p := 0; p+3 <= len(data); p++ {
		key := xxhash.Sum64(data[p : p+3])
		for _, q := range chains[key] {
			if !bytes.Equal(data[q:q+3], data[p:p+3]) {
				continue // hash collision, not a real match
			}
			common := commonPrefixLen(data[q:], data[p:])
			if common < 3 {
				continue
			}
			if common > maxMatchLength {
				common = maxMatchLength
			}
			distCode, ok := h.EncodeDist(p - q)
			if !ok {
				continue
			}
			for length := 3; length <= common; length++ {
				lenCode, ok := h.EncodeLen(length)
				if !ok {
					continue
				}
				refs[p] = append(refs[p], matchRef{length: length, code: lenCode.Concat(distCode)})
			}
		}
		chains[key] = append(chains[key], p)
	}
	return refs
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// dpEntry is the value stored per (position, state) node: the minimum
// total bit cost found so far to reach it, and enough of the
// predecessor to reconstruct the path.
type dpEntry struct {
	cost      int
	prevPos   int
	prevState State
	code      BitString
}

// frontier is one position's set of reachable states, kept in first-
// insertion order so relaxation ties break deterministically: "first
// writer wins among equal-cost candidates in iteration order" (§5) is
// only a well-defined rule if iteration order is fixed, and Go's native
// map iteration is randomized.
type frontier struct {
	order   []State
	entries map[State]dpEntry
}

func newFrontier() *frontier {
	return &frontier{entries: make(map[State]dpEntry)}
}

func (f *frontier) relax(s State, e dpEntry) {
	existing, ok := f.entries[s]
	if !ok {
		f.order = append(f.order, s)
		f.entries[s] = e
		return
	}
	if e.cost < existing.cost {
		f.entries[s] = e
	}
}

func (f *frontier) each(fn func(State, dpEntry)) {
	for _, s := range f.order {
		fn(s, f.entries[s])
	}
}

// lz77Reencode runs the shortest-path DP of §4.6 over data, using h's
// tables and delim's escape rules, and returns the re-encoded DEFLATE
// block bytes.
func lz77Reencode(data []byte, h *Huffman, delim byte) ([]byte, error) {
	refs := buildMatchIndex(data, h)

	dp := make([]*frontier, len(data)+2)
	for i := range dp {
		dp[i] = newFrontier()
	}

	initial := State{}
	startState, startCost := merge(initial, h.Raw, delim)
	dp[0].relax(startState, dpEntry{cost: startCost, prevPos: -1, prevState: initial, code: h.Raw})

	for i := 0; i <= len(data); i++ {
		dp[i].each(func(state State, entry dpEntry) {
			sym := eob
			if i < len(data) {
				sym = int(data[i])
			}
			code, ok := h.EncodeLit(sym)
			if !ok {
				panic(fmt.Sprintf("golfpack: huffman table cannot encode symbol %d", sym))
			}
			newState, extra := merge(state, code, delim)
			dp[i+1].relax(newState, dpEntry{cost: entry.cost + extra, prevPos: i, prevState: state, code: code})

			if i < len(data) {
				for _, r := range refs[i] {
					newState, extra := merge(state, r.code, delim)
					dp[i+r.length].relax(newState, dpEntry{cost: entry.cost + extra, prevPos: i, prevState: state, code: r.code})
				}
			}
		})
	}

	best, ok := minEntry(dp[len(data)+1])
	if !ok {
		panic("golfpack: no path reached the end-of-block node")
	}

	codes := reconstructPath(dp, best)

	combined := emptyBits
	for _, c := range codes {
		combined = combined.Concat(c)
	}
	padSize := (8 - combined.Size%8) % 8
	combined = combined.Concat(Bits(0, padSize))

	out, residual := combined.ToBytes()
	if residual.Size != 0 {
		panic("golfpack: padding left a non-empty residual")
	}
	return out, nil
}

// minEntry picks the terminal frontier's minimum-cost entry. Ties are
// broken by the smaller predecessor position, then by frontier
// insertion order: a deterministic rule, left open by §9 to any
// consistent tie-break.
func minEntry(f *frontier) (dpEntry, bool) {
	var best dpEntry
	found := false
	f.each(func(_ State, e dpEntry) {
		if !found || e.cost < best.cost || (e.cost == best.cost && e.prevPos < best.prevPos) {
			best = e
			found = true
		}
	})
	return best, found
}

// reconstructPath walks predecessor links back to the -1 sentinel and
// returns the codes in emission order.
func reconstructPath(dp []*frontier, last dpEntry) []BitString {
	var codes []BitString
	entry := last
	for {
		codes = append(codes, entry.code)
		if entry.prevPos == -1 {
			break
		}
		entry = dp[entry.prevPos].entries[entry.prevState]
	}
	for i, j := 0, len(codes)-1; i < j; i, j = i+1, j-1 {
		codes[i], codes[j] = codes[j], codes[i]
	}
	return codes
}
