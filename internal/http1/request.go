// Package http1 implements the wire level of the HTTP/1 protocol served by
// httpcraft: parsing requests off a connection, the response model, its
// serialization, and content compression.
package http1

import (
	"net/textproto"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Header is the set of header fields of a request.
//
// Names are stored lower-cased and each name maps to a single value. When a
// message repeats a header field, the last occurrence wins.
type Header map[string]string

// Get returns the value of the header field with the given name. The lookup
// is case-insensitive.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Lookup is like Get but also reports whether the field was present.
func (h Header) Lookup(name string) (string, bool) {
	v, ok := h[strings.ToLower(name)]
	return v, ok
}

func (h Header) set(name, value string) {
	h[strings.ToLower(name)] = value
}

// names returns the header names in a deterministic order, canonicalized the
// way they are usually written on the wire.
func (h Header) names() []string {
	names := maps.Keys(h)
	slices.Sort(names)
	for i, name := range names {
		names[i] = textproto.CanonicalMIMEHeaderKey(name)
	}
	return names
}

// Request is an HTTP request parsed from a connection. Values of this type
// are never modified after ReadRequest returned them.
type Request struct {
	Method  string
	Path    string
	Version string
	Header  Header
	Body    []byte
	// Persistent is true if the client declared that the connection should
	// remain open after the response was written.
	Persistent bool
}

// isPersistent reports whether a request using the given protocol version and
// header keeps its connection open: only HTTP/1.1 clients get persistent
// connections, unless they explicitly asked for the connection to be closed.
func isPersistent(version string, header Header) bool {
	return strings.Contains(version, "1.1") && header.Get("connection") != "close"
}
