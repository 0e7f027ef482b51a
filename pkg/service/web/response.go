package web

import (
	"encoding/json"
	"net/http"
	"sync"
)

const (
	StatusImplementationError = "implementationError"
	StatusError               = "error"
	StatusSuccess             = "success"
)

const (
	ServiceVersion = "1.0"
)

// ServiceResponse represents a general response container for bank transfer requests
type ServiceResponse struct {
	HttpStatus int `json:"-"`
	Version    string
	Status     string
	Info       string
	Response   interface{}
	Error      interface{}
}

// default service responses
var (
	ErrReadParam = ServiceResponse{
		http.StatusBadRequest,
		ServiceVersion,
		StatusImplementationError,
		"could not read request parameter",
		nil,
		"parameter error",
	}
	ErrNotFound = ServiceResponse{
		http.StatusNotFound,
		ServiceVersion,
		StatusError,
		"resource not found",
		nil,
		"resource not found",
	}
	ErrSession = ServiceResponse{
		http.StatusConflict,
		ServiceVersion,
		StatusError,
		"no valid payment session",
		nil,
		"invalid payment session",
	}
	ErrDatabase = ServiceResponse{
		http.StatusInternalServerError,
		ServiceVersion,
		StatusError,
		"database error",
		nil,
		"database error",
	}
	ErrUnavailable = ServiceResponse{
		http.StatusServiceUnavailable,
		ServiceVersion,
		StatusError,
		"payment method not available",
		nil,
		"beneficiary not configured",
	}
	ErrTooManyRequests = ServiceResponse{
		http.StatusTooManyRequests,
		ServiceVersion,
		StatusError,
		"too many requests",
		nil,
		"rate limited",
	}
	ErrSystem = ServiceResponse{
		http.StatusInternalServerError,
		ServiceVersion,
		StatusError,
		"internal error",
		nil,
		"internal error",
	}
)

func (sr ServiceResponse) Write(w http.ResponseWriter) error {
	// set default http states
	if sr.HttpStatus == 0 && sr.Status == StatusSuccess && sr.Error == nil {
		sr.HttpStatus = http.StatusOK
	} else if sr.HttpStatus == 0 {
		sr.HttpStatus = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(sr.HttpStatus)

	return json.NewEncoder(w).Encode(sr)
}

// ResponseWriter remembers whether the header was written
type ResponseWriter struct {
	http.ResponseWriter

	mu             sync.Mutex
	HTTPStatusCode int
	HeaderWritten  bool
	Written        int
}

func (r *ResponseWriter) WriteHeader(s int) {
	r.mu.Lock()
	if r.HeaderWritten {
		r.mu.Unlock()
		return
	}
	r.HTTPStatusCode = s
	r.HeaderWritten = true
	r.mu.Unlock()
	r.ResponseWriter.WriteHeader(s)
}

func (r *ResponseWriter) Write(b []byte) (int, error) {
	r.mu.Lock()
	if !r.HeaderWritten {
		r.HTTPStatusCode = http.StatusOK
		r.HeaderWritten = true
	}
	r.mu.Unlock()
	w, err := r.ResponseWriter.Write(b)
	r.mu.Lock()
	r.Written += w
	r.mu.Unlock()
	return w, err
}
