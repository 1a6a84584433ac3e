package intercept

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpEmpty(t *testing.T) {
	var out bytes.Buffer

	Dump(&out, nil)
	if out.String() != "NULL\n" {
		t.Fatal("nil buffer did not produce NULL:", out.String())
	}

	out.Reset()
	Dump(&out, []byte{})
	if out.String() != "NULL\n" {
		t.Fatal("empty buffer did not produce NULL:", out.String())
	}
}

func TestDumpRows(t *testing.T) {
	var out bytes.Buffer

	Dump(&out, []byte("0123456789ABCDEFG"))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatal("17 byte buffer did not produce 2 rows:", len(lines))
	}

	want := "0 1 2 3 4 5 6 7 8 9 A B C D E F \t30 31 32 33 34 35 36 37 38 39 41 42 43 44 45 46 "
	if lines[0] != want {
		t.Fatalf("first row mismatch:\nwant %q\ngot  %q", want, lines[0])
	}

	// single printable/hex pair, 15 blank printable columns
	want = "G " + strings.Repeat("  ", 15) + "\t47 "
	if lines[1] != want {
		t.Fatalf("second row mismatch:\nwant %q\ngot  %q", want, lines[1])
	}
}

func TestDumpNonPrintable(t *testing.T) {
	var out bytes.Buffer

	Dump(&out, []byte{'\n', '\t', 'A', 0x01})

	want := "? ? A ? " + strings.Repeat("  ", 12) + "\t0A 09 41 01 \n"
	if out.String() != want {
		t.Fatalf("dump mismatch:\nwant %q\ngot  %q", want, out.String())
	}
}
