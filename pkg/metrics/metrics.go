// Package metrics exposes prometheus metrics of the bank transfer service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fritzpay/banktransferd/pkg/service/banktransfer"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "banktransferd"

var (
	TransactionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transactions",
		Name:      "created_total",
		Help:      "Total bank transfer transactions created",
	}, []string{"status", "currency"})

	TransactionAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transactions",
		Name:      "amount_total",
		Help:      "Sum of the amounts of created bank transfer transactions",
	}, []string{"currency"})

	NotifyErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "errors_total",
		Help:      "Total failed payment notifications by error kind",
	}, []string{"kind"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})
)

// Observer counts created transactions
type Observer struct{}

func (Observer) TransactionCreated(e banktransfer.TransactionEvent) {
	t := e.Transaction
	TransactionsCreated.WithLabelValues(t.Status.String(), t.Currency).Inc()
	TransactionAmount.WithLabelValues(t.Currency).Add(t.Amount.InexactFloat64())
}

// NotifyFailed counts a failed notification by the kind of err
func NotifyFailed(err error) {
	NotifyErrors.WithLabelValues(banktransfer.Kind(err).Error()).Inc()
}

// Handler serves the registered metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware records the requests of the routes of a mux router
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := routeName(r)
		httpRequestDuration.
			WithLabelValues(r.Method, route).
			Observe(time.Since(start).Seconds())
		httpRequestsTotal.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Inc()
	})
}

// routeName returns the path template of the matched route, so the project
// ids do not end up as label values
func routeName(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tmpl
}

var _ banktransfer.Observer = Observer{}
