package http1

import (
	"encoding/hex"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	requestFormatPrefix  = []byte("> ")
	responseFormatPrefix = []byte("< ")
)

// Format implements fmt.Formatter.
//
// The %v verb prints the request line without the protocol version, e.g.
// "GET /echo/abc". With the '+' flag, the whole request is printed with each
// line prefixed by "> "; the %x verb prints the body as a hex dump.
func (req *Request) Format(state fmt.State, verb rune) {
	if !state.Flag('+') {
		fmt.Fprintf(state, "%s %s", req.Method, req.Path)
		return
	}
	w := newPrefixWriter(state, requestFormatPrefix)
	fmt.Fprintf(w, "%s %s %s\n", req.Method, req.Path, req.Version)
	for _, name := range req.Header.names() {
		fmt.Fprintf(w, "%s: %s\n", name, req.Header.Get(name))
	}
	formatBody(state, w, verb, req.Body)
}

// Format implements fmt.Formatter.
//
// The %v verb prints the status line without the protocol version, e.g.
// "200 OK". With the '+' flag, the whole response is printed with each line
// prefixed by "< ", headers appearing in the order they are written on the
// wire; the %x verb prints the body as a hex dump.
func (res Response) Format(state fmt.State, verb rune) {
	if !state.Flag('+') {
		fmt.Fprint(state, res.Status.String())
		return
	}
	w := newPrefixWriter(state, responseFormatPrefix)
	fmt.Fprintf(w, "%s %s\n", res.Version, res.Status)
	res.rangeHeader(func(name, value string) {
		fmt.Fprintf(w, "%s: %s\n", name, value)
	})
	formatBody(state, w, verb, res.Content)
}

func formatBody(state fmt.State, w io.Writer, verb rune, body []byte) {
	_, _ = w.Write(newLine)
	if len(body) == 0 {
		return
	}
	switch verb {
	case 'x':
		hexdump := hex.Dumper(state)
		_, _ = hexdump.Write(body)
		hexdump.Close()
	default:
		if utf8.Valid(body) {
			_, _ = state.Write(body)
		} else {
			fmt.Fprintf(state, "(binary content)")
		}
	}
}

var newLine = []byte("\n")

// prefixWriter writes a prefix at the beginning of each line.
type prefixWriter struct {
	output io.Writer
	prefix []byte
	inline bool
}

func newPrefixWriter(w io.Writer, prefix []byte) *prefixWriter {
	return &prefixWriter{output: w, prefix: prefix}
}

func (w *prefixWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if !w.inline {
			if _, err := w.output.Write(w.prefix); err != nil {
				return n, err
			}
			w.inline = true
		}
		i := 0
		for i < len(b) && b[i] != '\n' {
			i++
		}
		if i < len(b) {
			i++
			w.inline = false
		}
		c, err := w.output.Write(b[:i])
		n += c
		if err != nil {
			return n, err
		}
		b = b[i:]
	}
	return n, nil
}
