package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"GroundwaterDash/internal/logger"
)

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

// createReverseProxy returns a reverse proxy handler for the given target URL
func createReverseProxy(target string) (http.HandlerFunc, error) {
	targetURL, err := url.Parse(target)
	if err != nil || targetURL.Host == "" {
		return nil, fmt.Errorf("bad proxy target %q", target)
	}
	proxy := httputil.NewSingleHostReverseProxy(targetURL)

	return func(w http.ResponseWriter, r *http.Request) {
		logger.Audit("[Gateway] Incoming request: %s %s from %s", r.Method, r.URL.Path, extractClientIP(r))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		proxy.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			logger.Audit("[Gateway][ERROR] Proxied to %s for %s, status %d, error: %s", target, r.URL.Path, rw.statusCode, rw.errorBody())
		} else {
			logger.Audit("[Gateway] Proxied to %s for %s, status %d", target, r.URL.Path, rw.statusCode)
		}
	}, nil
}

const maxLoggedBody = 512

// responseWriter wraps http.ResponseWriter to capture status code and the
// start of the body of failed responses.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode >= 400 && rw.body.Len() < maxLoggedBody {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) errorBody() string {
	s := rw.body.String()
	if len(s) > maxLoggedBody {
		s = s[:maxLoggedBody]
	}
	return s
}
