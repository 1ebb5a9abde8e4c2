package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tomasen/realip"
)

var log = logrus.WithField("layer", "server")

// Error ...
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		writeInternalError(w, "failed to marshal response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	b, _ := json.Marshal(Error{Error: message, Code: code})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeInternalError(w http.ResponseWriter, message string) {
	log.Error(message)
	// The real reason stays in the log.
	writeError(w, http.StatusInternalServerError, "internal error", "internal")
}

// loggerMiddleware logs every request with the caller's real ip.
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.WithFields(logrus.Fields{
			"ip":       realip.FromRequest(r),
			"method":   r.Method,
			"uri":      r.RequestURI,
			"duration": time.Since(start).String(),
		}).Debug("request processed")
	})
}

// bodyLimiterMiddleware rejects bodies above size with 413.
func bodyLimiterMiddleware(size int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
