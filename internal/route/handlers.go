package route

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stealthrocket/httpcraft/internal/http1"
)

// Root answers with an empty response.
func Root(req *http1.Request) http1.Response {
	return http1.NewResponse(http1.OK)
}

// Echo answers with the request path as content. It is meant to be
// registered with Router.Prefix, which strips the route prefix from the path.
func Echo(req *http1.Request) http1.Response {
	return http1.Text(http1.OK, req.Path)
}

// UserAgent answers with the value of the user-agent header.
func UserAgent(req *http1.Request) http1.Response {
	userAgent, ok := req.Header.Lookup("user-agent")
	if !ok {
		return http1.Text(http1.BadRequest, "Missing User-Agent header")
	}
	return http1.Text(http1.OK, userAgent)
}

const octetStream = "application/octet-stream"

// Files serves and stores files in a directory. Its methods are meant to be
// registered with Router.Prefix, the request path being the file name
// relative to the directory.
type Files struct {
	Directory string
}

func (f *Files) path(name string) (string, bool) {
	if !fs.ValidPath(name) || name == "." {
		return "", false
	}
	return filepath.Join(f.Directory, filepath.FromSlash(name)), true
}

// Read answers with the content of the file.
func (f *Files) Read(req *http1.Request) http1.Response {
	path, ok := f.path(req.Path)
	if !ok {
		return http1.Text(http1.BadRequest, "Invalid file name")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return http1.Text(http1.NotFound, "File not found")
		}
		return http1.Text(http1.InternalServerError, "Failed to read file")
	}
	return http1.NewResponse(http1.OK).
		WithContentType(octetStream).
		WithContent(b)
}

// Write stores the request body in the file, replacing its previous content.
func (f *Files) Write(req *http1.Request) http1.Response {
	path, ok := f.path(req.Path)
	if !ok {
		return http1.Text(http1.BadRequest, "Invalid file name")
	}
	file, err := os.Create(path)
	if err != nil {
		return http1.Text(http1.InternalServerError, "Failed to create file")
	}
	_, err = file.Write(req.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return http1.Text(http1.InternalServerError, "Failed to write file")
	}
	return http1.NewResponse(http1.Created)
}
