package http1

import "fmt"

// Status is the status of an HTTP response.
//
// The set of statuses is closed: adding a status means adding a constant and
// its entry in the statusLines table below.
type Status int

const (
	OK Status = iota
	Created
	BadRequest
	NotFound
	InternalServerError
)

type statusLine struct {
	code int
	text string
}

var statusLines = [...]statusLine{
	OK:                  {200, "OK"},
	Created:             {201, "Created"},
	BadRequest:          {400, "Bad Request"},
	NotFound:            {404, "Not Found"},
	InternalServerError: {500, "Internal Server Error"},
}

func (s Status) valid() bool {
	return s >= 0 && int(s) < len(statusLines)
}

// Code returns the numeric status code, e.g. 404 for NotFound.
func (s Status) Code() int {
	if !s.valid() {
		return 0
	}
	return statusLines[s].code
}

// Text returns the reason phrase, e.g. "Not Found" for NotFound.
func (s Status) Text() string {
	if !s.valid() {
		return ""
	}
	return statusLines[s].text
}

// String returns the status as it appears on the wire after the protocol
// version, e.g. "404 Not Found".
func (s Status) String() string {
	if !s.valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return fmt.Sprintf("%d %s", s.Code(), s.Text())
}
