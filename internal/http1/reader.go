package http1

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrConnectionClosed is returned by ReadRequest when the peer closed the
	// connection before sending the first byte of a request.
	ErrConnectionClosed = errors.New("connection closed by the client")
	// ErrMissingMethod, ErrMissingPath and ErrMissingVersion are returned when
	// the start line of a request has less than three space separated tokens.
	ErrMissingMethod  = errors.New("missing method")
	ErrMissingPath    = errors.New("missing path")
	ErrMissingVersion = errors.New("missing version")
	// ErrInvalidHeader is returned when a header line is not of the form
	// "name: value".
	ErrInvalidHeader = errors.New("invalid header")
)

const (
	defaultBufferSize = 4096
	headerSeparator   = ": "
)

// Reader reads HTTP requests from a byte stream, typically a network
// connection. The reader buffers its input, so a single Reader must be used
// for the whole lifetime of the connection.
type Reader struct {
	br *bufio.Reader
}

// NewReader returns a Reader consuming bytes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, defaultBufferSize)}
}

// ReadRequest reads the next request from the stream.
//
// When the client sent a blank line where a start line was expected, the
// method returns ok=false and a nil error; the caller is expected to call
// ReadRequest again. Any non-nil error means that the stream is not usable
// anymore and the connection must be closed.
func (r *Reader) ReadRequest() (req *Request, ok bool, err error) {
	line, n, err := r.readLine()
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, ErrConnectionClosed
	}
	if line == "" {
		return nil, false, nil
	}

	method, path, version, err := splitStartLine(line)
	if err != nil {
		return nil, false, err
	}

	header, err := r.readHeader()
	if err != nil {
		return nil, false, err
	}

	body, err := r.readBody(contentLength(header))
	if err != nil {
		return nil, false, err
	}

	req = &Request{
		Method:     method,
		Path:       path,
		Version:    version,
		Header:     header,
		Body:       body,
		Persistent: isPersistent(version, header),
	}
	return req, true, nil
}

func (r *Reader) readHeader() (Header, error) {
	header := make(Header)
	for {
		line, n, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if n == 0 || line == "" {
			return header, nil
		}
		name, value, found := strings.Cut(line, headerSeparator)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, line)
		}
		header.set(name, value)
	}
}

func (r *Reader) readBody(length int64) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	// The body is not allocated upfront from the declared length, it grows
	// with the bytes actually received.
	body, err := io.ReadAll(io.LimitReader(r.br, length))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	if int64(len(body)) < length {
		return nil, fmt.Errorf("reading request body: %w (%d/%d bytes)", io.ErrUnexpectedEOF, len(body), length)
	}
	return body, nil
}

// readLine reads the next line terminated by a line feed and returns it with
// surrounding white spaces removed, along with the number of bytes consumed
// from the stream. A zero byte count means the stream reached EOF.
func (r *Reader) readLine() (string, int, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			// A last line missing its line feed is still a line; the next
			// read will observe the end of the stream.
		case len(line) == 0:
			return "", 0, fmt.Errorf("reading request: %w", err)
		default:
			return "", len(line), fmt.Errorf("reading request: %w", err)
		}
	}
	return strings.TrimSpace(line), len(line), nil
}

func splitStartLine(line string) (method, path, version string, err error) {
	// Request-Line = Method SP Request-URI SP HTTP-Version CRLF
	//
	// Tokens past the third are ignored.
	tokens := strings.Split(line, " ")
	switch {
	case len(tokens) < 1 || tokens[0] == "":
		err = ErrMissingMethod
	case len(tokens) < 2 || tokens[1] == "":
		err = ErrMissingPath
	case len(tokens) < 3 || tokens[2] == "":
		err = ErrMissingVersion
	default:
		method, path, version = tokens[0], tokens[1], tokens[2]
	}
	if err != nil {
		err = fmt.Errorf("%w: %q", err, line)
	}
	return method, path, version, err
}

// contentLength returns the body length declared by the header, zero when the
// field is absent or does not hold a valid length.
func contentLength(header Header) int64 {
	v, ok := header.Lookup("content-length")
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
