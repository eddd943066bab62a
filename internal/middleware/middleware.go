// Package middleware contains the stages that transform responses after a
// route handler produced them and before they are written to the connection.
package middleware

import (
	"github.com/stealthrocket/httpcraft/internal/http1"
)

// Middleware is a stage of the response pipeline. It receives the response
// produced by the previous stage and returns the one passed to the next.
type Middleware func(req *http1.Request, res http1.Response) http1.Response

// Pipeline is an ordered list of middlewares.
type Pipeline []Middleware

// Apply runs res through every stage of the pipeline, in order.
func (p Pipeline) Apply(req *http1.Request, res http1.Response) http1.Response {
	for _, stage := range p {
		res = stage(req, res)
	}
	return res
}

// Default returns the pipeline applied to every response served by
// httpcraft:
//
//  1. Version: the response echoes the protocol version of the request.
//  2. Connection: the response echoes the connection header of the request.
//  3. Compression: the content is compressed according to the
//     accept-encoding header of the request.
//
// Compression must remain the last stage, no other stage may modify the
// content after it was encoded.
func Default(c *http1.Compressor) Pipeline {
	return Pipeline{
		Version,
		Connection,
		Compression(c),
	}
}

// Version sets the protocol version of the response to the one declared by
// the client.
func Version(req *http1.Request, res http1.Response) http1.Response {
	res.Version = req.Version
	return res
}

// Connection copies the value of the connection header sent by the client to
// the response. Whether the connection is kept open is decided when the
// request is parsed, this stage only echoes the header.
func Connection(req *http1.Request, res http1.Response) http1.Response {
	if v, ok := req.Header.Lookup("connection"); ok {
		res.Connection = v
	}
	return res
}

// Compression returns a stage compressing response contents with c.
func Compression(c *http1.Compressor) Middleware {
	return func(req *http1.Request, res http1.Response) http1.Response {
		return c.Compress(res, req.Header.Get("accept-encoding"))
	}
}
