package service

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

var (
	// ErrTimedOut is returned by writes after the handler timed out
	ErrTimedOut = errors.New("http Write: already timed out")
)

// TimeoutHandler responds with 503 if h does not finish within d
func TimeoutHandler(logFunc func(msg string, ctx ...interface{}), d time.Duration, h http.Handler) http.Handler {
	f := func() <-chan time.Time {
		return time.After(d)
	}
	return &timeoutHandler{log: logFunc, handler: h, timeout: f}
}

type timeoutHandler struct {
	log     func(msg string, ctx ...interface{})
	handler http.Handler
	timeout func() <-chan time.Time
}

func (h *timeoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	done := make(chan struct{})
	tw := &timeoutWriter{ResponseWriter: w}
	go func() {
		h.handler.ServeHTTP(tw, r)
		close(done)
	}()
	select {
	case <-done:
		return
	case <-h.timeout():
		tw.mu.Lock()
		if !tw.wroteHeader {
			tw.wroteHeader = true
			tw.ResponseWriter.WriteHeader(http.StatusServiceUnavailable)
		}
		tw.timedOut = true
		tw.mu.Unlock()
		h.log("request timeout",
			"requestURL", r.URL.String(),
		)
	}
}

type timeoutWriter struct {
	http.ResponseWriter

	mu          sync.Mutex
	timedOut    bool
	wroteHeader bool
}

// Write and WriteHeader hold the lock while writing, so nothing reaches the
// underlying writer once the timeout response is sent
func (w *timeoutWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, ErrTimedOut
	}
	w.wroteHeader = true
	return w.ResponseWriter.Write(p)
}

func (w *timeoutWriter) WriteHeader(status int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}
