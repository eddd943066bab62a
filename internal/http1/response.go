package http1

import (
	"io"
	"strconv"

	"github.com/stealthrocket/httpcraft/internal/buffer"
)

const (
	// DefaultVersion is the protocol version of responses until the version
	// of the request they answer is propagated to them.
	DefaultVersion = "HTTP/1.1"
	// DefaultContentType is the content type of responses which did not set
	// one explicitly.
	DefaultContentType = "text/plain"
)

// Response is an HTTP response.
//
// Responses are passed by value: each function transforming a response
// receives its own copy and returns a new one, so a value is only ever owned
// by a single stage of the processing pipeline.
//
// Empty strings in ContentEncoding and Connection mean that the header is
// not set.
type Response struct {
	Status          Status
	Version         string
	ContentType     string
	ContentEncoding string
	Connection      string
	Content         []byte
}

// NewResponse returns an empty response with the given status.
func NewResponse(status Status) Response {
	return Response{
		Status:      status,
		Version:     DefaultVersion,
		ContentType: DefaultContentType,
	}
}

// Text returns a plain text response with the given status and content.
func Text(status Status, text string) Response {
	return NewResponse(status).WithContent([]byte(text))
}

// WithContent returns a copy of res carrying the given content.
func (res Response) WithContent(content []byte) Response {
	res.Content = content
	return res
}

// WithContentType returns a copy of res with its content type set.
func (res Response) WithContentType(contentType string) Response {
	res.ContentType = contentType
	return res
}

// WithStatus returns a copy of res with its status set.
func (res Response) WithStatus(status Status) Response {
	res.Status = status
	return res
}

// rangeHeader calls do for each header field of the response, in the order
// they are serialized on the wire:
//
//	Connection (when set)
//	Content-Type, Content-Length, Content-Encoding (when set)
//
// Content headers are only present when the response has content.
func (res *Response) rangeHeader(do func(name, value string)) {
	if res.Connection != "" {
		do("Connection", res.Connection)
	}
	if len(res.Content) == 0 {
		return
	}
	do("Content-Type", res.ContentType)
	do("Content-Length", strconv.Itoa(len(res.Content)))
	if res.ContentEncoding != "" {
		do("Content-Encoding", res.ContentEncoding)
	}
}

// AppendTo appends the wire representation of res to b and returns the
// extended buffer.
func (res *Response) AppendTo(b []byte) []byte {
	b = append(b, res.Version...)
	b = append(b, ' ')
	b = append(b, res.Status.String()...)
	b = append(b, crlf...)
	res.rangeHeader(func(name, value string) {
		b = append(b, name...)
		b = append(b, headerSeparator...)
		b = append(b, value...)
		b = append(b, crlf...)
	})
	b = append(b, crlf...)
	b = append(b, res.Content...)
	return b
}

// Bytes returns the wire representation of res.
func (res *Response) Bytes() []byte {
	return res.AppendTo(make([]byte, 0, headerSizeHint+len(res.Content)))
}

// WriteTo writes the wire representation of res to w with a single call to
// its Write method.
func (res *Response) WriteTo(w io.Writer) (int64, error) {
	buf := buffers.Get(headerSizeHint + len(res.Content))
	defer buffer.Release(&buf, &buffers)
	buf.Data = res.AppendTo(buf.Data)
	n, err := w.Write(buf.Data)
	return int64(n), err
}

const headerSizeHint = 128

var buffers buffer.Pool

const crlf = "\r\n"

var _ io.WriterTo = (*Response)(nil)
