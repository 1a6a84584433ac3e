package intercept

import (
	"fmt"
	"io"
	"os"
)

// Dump writes a 16-bytes-per-row listing of buf to w: each byte rendered as
// its printable character on the left ('?' for newline, tab and anything
// else non-printable), the same bytes as two-digit uppercase hexadecimal on
// the right. Nil or empty input produces the literal text "NULL". A nil
// writer falls back to stdout.
func Dump(w io.Writer, buf []byte) {
	if w == nil {
		w = os.Stdout
	}
	if len(buf) == 0 {
		fmt.Fprintln(w, "NULL")
		return
	}
	for i := 0; i < len(buf); i += 16 {
		row := buf[i:min(i+16, len(buf))]
		for j := 0; j < 16; j++ {
			if j >= len(row) {
				fmt.Fprint(w, "  ")
				continue
			}
			if ch := row[j]; ch < 0x20 || ch > 0x7E {
				fmt.Fprint(w, "? ")
			} else {
				fmt.Fprintf(w, "%c ", ch)
			}
		}
		fmt.Fprint(w, "\t")
		for _, ch := range row {
			fmt.Fprintf(w, "%02X ", ch)
		}
		fmt.Fprintln(w)
	}
}
