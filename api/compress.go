package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdResponseWriter compresses everything written through it
type zstdResponseWriter struct {
	http.ResponseWriter
	enc *zstd.Encoder
}

func (w *zstdResponseWriter) WriteHeader(status int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(status)
}

func (w *zstdResponseWriter) Write(b []byte) (int, error) {
	return w.enc.Write(b)
}

// zstdMiddleware encodes responses with zstd when the client accepts it
func zstdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsZstd(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		defer enc.Close()

		w.Header().Set("Content-Encoding", "zstd")
		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(&zstdResponseWriter{ResponseWriter: w, enc: enc}, r)
	})
}

// acceptsZstd reports whether an Accept-Encoding header allows zstd
func acceptsZstd(header string) bool {
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		if strings.TrimSpace(fields[0]) != "zstd" {
			continue
		}
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if q, ok := strings.CutPrefix(param, "q="); ok {
				v, err := strconv.ParseFloat(q, 64)
				return err == nil && v > 0
			}
		}
		return true
	}
	return false
}
