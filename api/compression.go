package api

import (
	"compress/gzip"
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fulldump/box"
)

// Compression gzips responses for clients that accept it. Images are
// already compressed and travel as they are.
func Compression(next box.H) box.H {
	return func(ctx context.Context) {
		r := box.GetRequest(ctx)

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(ctx)
			return
		}
		if strings.HasPrefix(mime.TypeByExtension(filepath.Ext(r.URL.Path)), "image/") {
			next(ctx)
			return
		}

		w := box.GetResponse(ctx)
		w.Header().Set("Content-Encoding", "gzip")

		gz := gzip.NewWriter(w)
		defer gz.Close()

		box.GetBoxContext(ctx).Response = gzipResponseWriter{
			Writer:         gz,
			ResponseWriter: w,
		}
		next(ctx)
	}
}

type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}
