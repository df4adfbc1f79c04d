package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// withMiddleware wraps the router with request ids, real client addresses,
// access logging and panic recovery.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	h := middleware.Recoverer(next)
	h = s.logRequests(h)
	h = middleware.RealIP(h)
	return middleware.RequestID(h)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		line := fmt.Sprintf("%s %s %d %s from %s [%s]",
			r.Method, r.URL.RequestURI(), status, time.Since(start).Round(time.Microsecond),
			r.RemoteAddr, middleware.GetReqID(r.Context()))
		if status >= http.StatusInternalServerError {
			s.logger.Error(line)
			return
		}
		s.logger.Debug(line)
	})
}
