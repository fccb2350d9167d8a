package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// letter pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	lettersRendered prometheus.Counter
	lettersFailed   prometheus.Counter
	emailsSent      prometheus.Counter
	emailsFailed    prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	lettersRendered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "letters_rendered_total",
		Help: "Offer letters rendered successfully",
	})

	lettersFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "letters_failed_total",
		Help: "Offer letter renders that failed",
	})

	emailsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Offer letter emails delivered",
	})

	emailsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emails_failed_total",
		Help: "Offer letter emails that failed delivery",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, lettersRendered, lettersFailed, emailsSent, emailsFailed, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		lettersRendered: lettersRendered,
		lettersFailed:   lettersFailed,
		emailsSent:      emailsSent,
		emailsFailed:    emailsFailed,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordLetterRender tracks one render attempt.
func (m *MetricsService) RecordLetterRender(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.lettersRendered.Inc()
	} else {
		m.lettersFailed.Inc()
	}
}

// RecordEmailDelivery tracks one delivery attempt.
func (m *MetricsService) RecordEmailDelivery(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.emailsSent.Inc()
	} else {
		m.emailsFailed.Inc()
	}
}
