package literal

import (
	"bytes"
	"testing"
)

func TestEscapeNULFollowedByOctalDigit(t *testing.T) {
	got := Escape([]byte{0, '3'}, '\'')
	want := []byte(`\x003`)
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeNULFollowedByNonOctalDigit(t *testing.T) {
	got := Escape([]byte{0, 'x'}, '\'')
	want := []byte(`\0x`)
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeTrailingNUL(t *testing.T) {
	// The implicit lookahead byte past the end of input is 0, which is
	// not an octal digit, so a trailing NUL gets the short \0 form.
	got := Escape([]byte{'a', 0}, '\'')
	want := []byte(`a\0`)
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeDelimiter(t *testing.T) {
	if got, want := Escape([]byte{'\''}, '\''), []byte(`\'`); !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	// Same byte, different active delimiter: passes through.
	if got, want := Escape([]byte{'\''}, '"'), []byte(`'`); !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeBackslashDoubling(t *testing.T) {
	got := Escape([]byte{'\\', 'n'}, '\'')
	want := []byte(`\\n`)
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	// A backslash not followed by a continuation byte passes through
	// unescaped.
	got2 := Escape([]byte{'\\', 'z'}, '\'')
	want2 := []byte(`\z`)
	if !bytes.Equal(got2, want2) {
		t.Errorf("got %q, want %q", got2, want2)
	}
}

func TestEscapeCRAndLF(t *testing.T) {
	got := Escape([]byte{'\r', '\n'}, '\'')
	want := []byte(`\r\n`)
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHoistImportSplitsPrefix(t *testing.T) {
	src := []byte("import re\nprint(re.compile('x'))")
	module, rest := HoistImport(src)
	if string(module) != "re" {
		t.Fatalf("module = %q, want re", module)
	}
	if string(rest) != "print(re.compile('x'))" {
		t.Fatalf("rest = %q", rest)
	}
}

func TestHoistImportNoPrefix(t *testing.T) {
	src := []byte("print('hi')")
	module, rest := HoistImport(src)
	if module != nil {
		t.Fatalf("module = %q, want nil", module)
	}
	if !bytes.Equal(rest, src) {
		t.Fatalf("rest = %q, want unchanged", rest)
	}
}

func TestWrapAssemblesTrampoline(t *testing.T) {
	out := Wrap([]byte(`ab\0`), '\'', nil, WindowNeg10)
	want := "#coding:L1\nimport zlib\nexec(zlib.decompress(bytes('ab\\0',\"L1\"),~9))"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestWrapHoistsModule(t *testing.T) {
	out := Wrap([]byte("x"), '"', []byte("re"), WindowDefault)
	want := `#coding:L1` + "\n" + `import zlib,re` + "\n" + `exec(zlib.decompress(bytes("x","L1")))`
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
