package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"
)

// minCompressSize is the smallest body worth compressing. Shorter bodies are
// written as-is.
const minCompressSize = 512

var gzipPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

// Compress gzips JSON responses for clients that accept it. The decision is
// made once the handler has produced enough of the body: small responses
// and non-JSON content types pass through untouched.
type Compress struct {
	minSize int
}

func NewCompress() *Compress {
	return &Compress{minSize: minCompressSize}
}

func (c *Compress) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsGzip(r.Header.Get("Accept-Encoding")) || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")
		gw := &gzipResponseWriter{ResponseWriter: w, minSize: c.minSize}
		defer gw.finish()
		next.ServeHTTP(gw, r)
	})
}

func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(part, ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			continue
		}
		q := strings.ReplaceAll(params, " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

// gzipResponseWriter buffers the start of the body until it knows whether to
// compress, then either streams through gzip or writes directly.
type gzipResponseWriter struct {
	http.ResponseWriter
	minSize int

	status  int
	buf     []byte
	gz      *gzip.Writer
	decided bool
	plain   bool
}

func (g *gzipResponseWriter) WriteHeader(code int) {
	if g.status == 0 {
		g.status = code
	}
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if g.status == 0 {
		g.status = http.StatusOK
	}
	if g.decided {
		if g.plain {
			return g.ResponseWriter.Write(b)
		}
		return g.gz.Write(b)
	}

	g.buf = append(g.buf, b...)
	if len(g.buf) < g.minSize {
		return len(b), nil
	}
	if err := g.decide(); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (g *gzipResponseWriter) decide() error {
	g.decided = true
	h := g.Header()

	compressible := len(g.buf) >= g.minSize &&
		h.Get("Content-Encoding") == "" &&
		strings.HasPrefix(h.Get("Content-Type"), "application/json") &&
		g.status != http.StatusNoContent && g.status != http.StatusNotModified

	if !compressible {
		g.plain = true
		g.ResponseWriter.WriteHeader(g.status)
		_, err := g.ResponseWriter.Write(g.buf)
		g.buf = nil
		return err
	}

	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
	g.ResponseWriter.WriteHeader(g.status)

	g.gz = gzipPool.Get().(*gzip.Writer)
	g.gz.Reset(g.ResponseWriter)
	_, err := g.gz.Write(g.buf)
	g.buf = nil
	return err
}

func (g *gzipResponseWriter) finish() {
	if !g.decided {
		if g.status == 0 {
			// handler wrote nothing; let net/http send its default 200
			return
		}
		_ = g.decide()
	}
	if g.gz != nil {
		_ = g.gz.Close()
		gzipPool.Put(g.gz)
		g.gz = nil
	}
}

// Flush lets long handlers push what they have. Pending bytes are committed
// first.
func (g *gzipResponseWriter) Flush() {
	if !g.decided && g.status != 0 {
		_ = g.decide()
	}
	if g.gz != nil {
		_ = g.gz.Flush()
	}
	if f, ok := g.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
