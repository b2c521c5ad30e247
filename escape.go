package golfpack

// Carry is the two-bit history the escape-cost model needs: whether
// the previously emitted byte will retroactively cost more once its
// successor is known.
type Carry uint8

const (
	// CarryNone means the previous byte has no pending escape cost.
	CarryNone Carry = iota
	// CarryNUL means the previous byte was 0x00: if the next byte is
	// an ASCII octal digit, the NUL must be written \x00 instead of
	// \0, which costs two more visible characters.
	CarryNUL
	// CarryBackslash means the previous byte was 0x5C: if the next
	// byte is one of the escape-expansion letters/digits/quotes, the
	// backslash must be doubled.
	CarryBackslash
)

// backslashContinuation is the set of bytes that force a preceding
// backslash to double, per §4.5 and §6.
var backslashContinuation = [256]bool{
	'0': true, '1': true, '2': true, '3': true, '4': true, '5': true, '6': true, '7': true,
	'\n': true, '\r': true, 'a': true, 'b': true, 'f': true, 'x': true, 'n': true, 'r': true,
	't': true, 'v': true, 'u': true, 'U': true, 'N': true, '\'': true, '"': true, '\\': true,
	0: true,
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

// State is a DP node's second coordinate: the carry state plus the
// residual, not-yet-byte-aligned bit tail left over from the last
// merge. The tail is kept as a plain (value, size) pair rather than a
// BitString so State is comparable and usable as a Go map key — the
// tail never exceeds 7 bits by construction (ToBytes always drains
// whole bytes), so a byte each is ample.
type State struct {
	Carry     Carry
	TailValue uint8
	TailSize  uint8
}

func (s State) tailBits() BitString { return Bits(uint64(s.TailValue), int(s.TailSize)) }

// merge appends code to state's pending bit tail, accounts for the
// escape cost of every whole byte that spills out, and returns the new
// state together with the incremental bit cost (§4.5). delim must be
// one of the single-char delimiters `'` or `"`; multi-char delimiters
// have no escape rule defined here (see SPEC_FULL.md).
func merge(s State, code BitString, delim byte) (State, int) {
	combined := s.tailBits().Concat(code)
	stream, residual := combined.ToBytes()

	cost := code.Size
	prev := s.Carry
	for _, b := range stream {
		switch {
		case prev == CarryNUL && isOctalDigit(b):
			cost += 16
		case prev == CarryBackslash && backslashContinuation[b]:
			cost += 8
		}

		switch {
		case b == 0:
			prev = CarryNUL
			cost += 8
		case b == '\r':
			prev = CarryNone
			cost += 8
		case b == '\n':
			prev = CarryNone
			cost += 8
		case b == delim:
			prev = CarryNone
			cost += 8
		case b == '\\':
			prev = CarryBackslash
		default:
			prev = CarryNone
		}
	}

	return State{
		Carry:     prev,
		TailValue: uint8(residual.Value.Uint64()),
		TailSize:  uint8(residual.Size),
	}, cost
}
