// Package literal turns a compressed byte stream into a host-language
// (Python) bytes literal and wraps it in the self-extracting trampoline
// that decompresses and executes it.
package literal

import "bytes"

// Window selects the wbits argument golfpack's wrapper passes to
// zlib.decompress, matching how each upstream deflater bounded its
// search window.
type Window int

const (
	// WindowDefault omits the argument entirely: zlib's default wbits
	// (15, a 32KiB window) matches the stream.
	WindowDefault Window = iota
	// WindowNeg9 selects a 512-byte window via the literal token -9.
	WindowNeg9
	// WindowNeg10 selects a 1KiB window via the literal token ~9
	// (Python's bitwise-not of 9, one character shorter to golf than
	// -10 and numerically identical).
	WindowNeg10
)

// token renders w as the exact source bytes compress.py's wrapper
// template splices after the comma, or nil if the argument is omitted.
func (w Window) token() []byte {
	switch w {
	case WindowNeg9:
		return []byte(",-9")
	case WindowNeg10:
		return []byte(",~9")
	default:
		return nil
	}
}

// backslashContinuation mirrors escape.go's carry table: bytes that,
// when they follow a literal backslash, force that backslash to double.
var backslashContinuation = [256]bool{
	'0': true, '1': true, '2': true, '3': true, '4': true, '5': true, '6': true, '7': true,
	'\n': true, '\r': true, '"': true, '\'': true, 'N': true, 'U': true, '\\': true,
	'a': true, 'b': true, 'f': true, 'n': true, 'r': true, 't': true, 'u': true, 'v': true, 'x': true,
	0: true,
}

// Escape renders compressed as a Python bytes-literal body delimited by
// delim (one of ' or "): every byte that would otherwise terminate the
// literal early, introduce an unintended escape, or need doubling is
// rewritten to its escape sequence; everything else passes through
// verbatim (§6).
func Escape(compressed []byte, delim byte) []byte {
	out := make([]byte, 0, len(compressed))
	for i, b := range compressed {
		var next byte
		if i+1 < len(compressed) {
			next = compressed[i+1]
		}
		switch {
		case b == 0:
			if isOctalDigit(next) {
				out = append(out, '\\', 'x', '0', '0')
			} else {
				out = append(out, '\\', '0')
			}
		case b == '\r':
			out = append(out, '\\', 'r')
		case b == '\\' && backslashContinuation[next]:
			out = append(out, '\\', '\\')
		case b == '\n':
			out = append(out, '\\', 'n')
		case b == delim:
			out = append(out, '\\', delim)
		default:
			out = append(out, b)
		}
	}
	return out
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

// HoistImport detects a leading "import MODULE\n" prefix on a Python
// source payload and splits it off, since the wrapper trampoline's own
// "import zlib" line can carry the hoisted module along for free
// ("import zlib,MODULE") instead of re-importing it inside the
// decompressed body.
func HoistImport(src []byte) (module []byte, rest []byte) {
	if !bytes.HasPrefix(src, []byte("import")) {
		return nil, src
	}
	fields := bytes.Fields(src)
	if len(fields) < 2 {
		return nil, src
	}
	module = fields[1]
	cut := len(module) + 8 // "import " (7) + trailing newline (1)
	if cut > len(src) {
		return nil, src
	}
	return module, src[cut:]
}

// Wrap assembles the full self-extracting source: a #coding declaration
// (the escaped literal may contain arbitrary bytes, so the interpreter
// must be told to decode the source file as Latin-1), an import line
// carrying any hoisted module, and the exec(zlib.decompress(...)) call.
func Wrap(escaped []byte, delim byte, hoistedModule []byte, window Window) []byte {
	var buf bytes.Buffer
	buf.WriteString("#coding:L1\nimport zlib")
	if len(hoistedModule) > 0 {
		buf.WriteByte(',')
		buf.Write(hoistedModule)
	}
	buf.WriteString("\nexec(zlib.decompress(bytes(")
	buf.WriteByte(delim)
	buf.Write(escaped)
	buf.WriteByte(delim)
	buf.WriteString(`,"L1")`)
	buf.Write(window.token())
	buf.WriteString("))")
	return buf.Bytes()
}

// String renders w for logging.
func (w Window) String() string {
	switch w {
	case WindowNeg9:
		return "wbits=-9"
	case WindowNeg10:
		return "wbits=~9"
	default:
		return "wbits=default"
	}
}
