package api

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"
)

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				debug.PrintStack()
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			start := time.Now()
			defer func() {
				l.Println(start.UTC().Format(time.RFC3339Nano), remoteAddr(r), r.Method, r.URL.String(), time.Since(start))
			}()

			next(ctx)
		}
	}
}

// remoteAddr prefers the first X-Forwarded-For hop over the socket peer.
func remoteAddr(r *http.Request) string {
	forwarded, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	forwarded = strings.TrimSpace(forwarded)
	if forwarded != "" {
		return forwarded
	}

	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		addr = addr[:i]
	}

	return addr
}
