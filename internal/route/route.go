// Package route dispatches parsed requests to the handlers producing their
// responses.
package route

import (
	"fmt"
	"strings"

	"github.com/stealthrocket/httpcraft/internal/http1"
)

// Handler produces the response to a request.
//
// Handlers must always return a well-formed response: errors are reported
// with the status and content of the response, never by panicking. Handlers
// leave the version, connection and content encoding of responses to the
// middleware pipeline.
type Handler interface {
	Handle(req *http1.Request) http1.Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(req *http1.Request) http1.Response

func (f HandlerFunc) Handle(req *http1.Request) http1.Response { return f(req) }

// Router is a Handler selecting which handler serves a request by matching
// its method and path against a list of routes. Routes are tried in the
// order they were registered, requests matching no route get a NotFound
// response.
type Router struct {
	routes []route
}

type route struct {
	method  string
	path    string
	prefix  bool
	handler Handler
}

func (r *route) match(req *http1.Request) bool {
	if r.method != "" && r.method != req.Method {
		return false
	}
	if r.prefix {
		return strings.HasPrefix(req.Path, r.path)
	}
	return req.Path == r.path
}

// Exact registers h to serve requests whose path is exactly path. An empty
// method matches every method.
func (r *Router) Exact(method, path string, h Handler) {
	r.routes = append(r.routes, route{method: method, path: path, handler: h})
}

// Prefix registers h to serve requests whose path starts with prefix. An empty
// method matches every method.
//
// The handler receives a copy of the request where the prefix was removed
// from the path: with the prefix "/echo/", a request for "/echo/abc" is
// passed to h with the path "abc".
func (r *Router) Prefix(method, prefix string, h Handler) {
	r.routes = append(r.routes, route{method: method, path: prefix, prefix: true, handler: h})
}

// Handle implements the Handler interface.
//
// A panic in the selected handler is recovered and turned into an
// InternalServerError response.
func (r *Router) Handle(req *http1.Request) (res http1.Response) {
	defer func() {
		if v := recover(); v != nil {
			res = http1.Text(http1.InternalServerError, fmt.Sprintf("Internal server error: %v", v))
		}
	}()

	for i := range r.routes {
		route := &r.routes[i]
		if !route.match(req) {
			continue
		}
		if route.prefix {
			stripped := *req
			stripped.Path = req.Path[len(route.path):]
			req = &stripped
		}
		return route.handler.Handle(req)
	}
	return http1.NewResponse(http1.NotFound)
}

// New returns the router serving the httpcraft endpoints. Files are read from
// and written to directory.
//
//	*    /                 empty response
//	*    /user-agent       echo of the user-agent header
//	*    /echo/<text>      echo of <text>
//	GET  /files/<name>     content of <name> in the directory
//	POST /files/<name>     request body stored as <name> in the directory
func New(directory string) *Router {
	files := &Files{Directory: directory}
	r := new(Router)
	r.Exact("", "/", HandlerFunc(Root))
	r.Exact("", "/user-agent", HandlerFunc(UserAgent))
	r.Prefix("", "/echo/", HandlerFunc(Echo))
	r.Prefix("GET", "/files/", HandlerFunc(files.Read))
	r.Prefix("POST", "/files/", HandlerFunc(files.Write))
	return r
}

var _ Handler = (*Router)(nil)
