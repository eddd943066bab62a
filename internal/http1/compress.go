package http1

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Encoding is a content encoding that responses may be compressed with.
type Encoding string

const (
	Gzip    Encoding = "gzip"
	Deflate Encoding = "deflate"
)

// DefaultCompression selects the default trade-off between speed and size of
// the encoders.
const DefaultCompression = gzip.DefaultCompression

// encodings is the list of supported encodings, in order of preference.
var encodings = [...]Encoding{Gzip, Deflate}

// NegotiateEncoding selects the encoding to apply to a response given the
// value of the Accept-Encoding header sent by the client.
//
// Encodings are matched by substring in a fixed order of preference, the
// order in which the client listed them does not matter: "deflate, gzip"
// selects gzip.
func NegotiateEncoding(acceptEncoding string) (Encoding, bool) {
	for _, enc := range encodings {
		if strings.Contains(acceptEncoding, string(enc)) {
			return enc, true
		}
	}
	return "", false
}

// Compressor applies content encodings to responses. Encoders are pooled and
// reused across calls; a Compressor is safe to use from multiple goroutines.
type Compressor struct {
	level int
	gzip  objectPool[encoder]
	flate objectPool[encoder]
}

// NewCompressor returns a Compressor using the given compression level, which
// is interpreted by the encoders the same way as the levels of the
// compress/flate package.
func NewCompressor(level int) *Compressor {
	return &Compressor{level: level}
}

// Level returns the compression level of c.
func (c *Compressor) Level() int { return c.level }

// Compress returns res with its content compressed using the encoding that
// the Accept-Encoding header value selects.
//
// An empty acceptEncoding means that the client did not send the header, the
// response is returned unchanged. When the header matches no supported
// encoding, the content is left uncompressed.
//
// Compression errors do not propagate: the returned response then has the
// InternalServerError status and a message describing the error as content.
func (c *Compressor) Compress(res Response, acceptEncoding string) Response {
	if acceptEncoding == "" {
		return res
	}
	enc, ok := NegotiateEncoding(acceptEncoding)
	if !ok {
		res.ContentEncoding = ""
		return res
	}
	content, err := c.encode(enc, res.Content)
	if err != nil {
		res.Status = InternalServerError
		res.Content = []byte(fmt.Sprintf("Error compressing content: %s", err))
		return res
	}
	res.ContentEncoding = string(enc)
	res.Content = content
	return res
}

func (c *Compressor) encode(enc Encoding, src []byte) ([]byte, error) {
	pool, newEncoder := c.encoder(enc)

	buf := new(bytes.Buffer)
	w, err := pool.get(func() (encoder, error) { return newEncoder(buf) })
	if err != nil {
		return nil, err
	}
	w.Reset(buf)

	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	pool.put(w)
	return buf.Bytes(), nil
}

func (c *Compressor) encoder(enc Encoding) (*objectPool[encoder], func(io.Writer) (encoder, error)) {
	switch enc {
	case Gzip:
		return &c.gzip, func(w io.Writer) (encoder, error) {
			zw, err := gzip.NewWriterLevel(w, c.level)
			if err != nil {
				return nil, err
			}
			return zw, nil
		}
	default:
		return &c.flate, func(w io.Writer) (encoder, error) {
			fw, err := flate.NewWriter(w, c.level)
			if err != nil {
				return nil, err
			}
			return fw, nil
		}
	}
}

type encoder interface {
	io.WriteCloser
	Reset(io.Writer)
}

type objectPool[T any] struct {
	pool sync.Pool
}

func (p *objectPool[T]) get(newObject func() (T, error)) (T, error) {
	v, ok := p.pool.Get().(T)
	if ok {
		return v, nil
	}
	return newObject()
}

func (p *objectPool[T]) put(obj T) {
	p.pool.Put(obj)
}
