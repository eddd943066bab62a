package http1

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stealthrocket/httpcraft/internal/assert"
)

func TestResponseBytes(t *testing.T) {
	tests := []struct {
		scenario string
		response Response
		output   string
	}{
		{
			scenario: "empty response",
			response: NewResponse(OK),
			output:   "HTTP/1.1 200 OK\r\n\r\n",
		},

		{
			scenario: "empty response with connection directive",
			response: Response{
				Status:      NotFound,
				Version:     "HTTP/1.0",
				ContentType: DefaultContentType,
				Connection:  "close",
			},
			output: "HTTP/1.0 404 Not Found\r\nConnection: close\r\n\r\n",
		},

		{
			scenario: "empty response never has content headers",
			response: Response{
				Status:          Created,
				Version:         "HTTP/1.1",
				ContentType:     "application/octet-stream",
				ContentEncoding: "gzip",
			},
			output: "HTTP/1.1 201 Created\r\n\r\n",
		},

		{
			scenario: "text response",
			response: Text(OK, "abc"),
			output:   "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 3\r\n\r\nabc",
		},

		{
			scenario: "response with every header",
			response: Response{
				Status:          OK,
				Version:         "HTTP/1.1",
				ContentType:     "text/plain",
				ContentEncoding: "gzip",
				Connection:      "keep-alive",
				Content:         []byte("12345"),
			},
			output: "HTTP/1.1 200 OK\r\n" +
				"Connection: keep-alive\r\n" +
				"Content-Type: text/plain\r\n" +
				"Content-Length: 5\r\n" +
				"Content-Encoding: gzip\r\n" +
				"\r\n" +
				"12345",
		},

		{
			scenario: "error response",
			response: Text(BadRequest, "Missing User-Agent header"),
			output:   "HTTP/1.1 400 Bad Request\r\nContent-Type: text/plain\r\nContent-Length: 25\r\n\r\nMissing User-Agent header",
		},

		{
			scenario: "octet stream response",
			response: NewResponse(OK).
				WithContentType("application/octet-stream").
				WithContent([]byte{0, 1, 2}),
			output: "HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\nContent-Length: 3\r\n\r\n\x00\x01\x02",
		},

		{
			scenario: "content length counts bytes, not characters",
			response: Text(OK, "héllo"),
			output:   "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 6\r\n\r\nhéllo",
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			assert.Equal(t, string(test.response.Bytes()), test.output)
		})
	}
}

func TestResponseAppendTo(t *testing.T) {
	res := Text(OK, "abc")
	b := res.AppendTo([]byte("prefix:"))
	assert.Equal(t, string(b), "prefix:"+string(res.Bytes()))
}

func TestResponseWriteTo(t *testing.T) {
	res := Text(InternalServerError, "Failed to write file")
	buf := new(bytes.Buffer)
	n, err := res.WriteTo(buf)
	assert.OK(t, err)
	assert.Equal(t, n, int64(buf.Len()))
	assert.HasPrefix(t, buf.String(), "HTTP/1.1 500 Internal Server Error\r\n")
	assert.True(t, strings.HasSuffix(buf.String(), "\r\n\r\nFailed to write file"))
}

func TestResponseBuilderDoesNotAlias(t *testing.T) {
	base := NewResponse(OK)
	created := base.WithStatus(Created).WithContentType("application/octet-stream")
	assert.Equal(t, base.Status, OK)
	assert.Equal(t, base.ContentType, DefaultContentType)
	assert.Equal(t, created.Status, Created)
	assert.Equal(t, created.ContentType, "application/octet-stream")
}

func TestStatus(t *testing.T) {
	tests := []struct {
		status Status
		code   int
		line   string
	}{
		{OK, 200, "200 OK"},
		{Created, 201, "201 Created"},
		{BadRequest, 400, "400 Bad Request"},
		{NotFound, 404, "404 Not Found"},
		{InternalServerError, 500, "500 Internal Server Error"},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			assert.Equal(t, test.status.Code(), test.code)
			assert.Equal(t, test.status.String(), test.line)
		})
	}

	assert.Equal(t, Status(42).String(), "Status(42)")
	assert.Equal(t, Status(-1).Code(), 0)
}
