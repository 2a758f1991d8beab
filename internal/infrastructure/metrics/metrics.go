// Package metrics contadores Prometheus de la API y del ciclo de facturación.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
)

var _ billing.Metrics = (*Metrics)(nil)

// Metrics registro propio (no el global) para que los tests creen instancias aisladas.
type Metrics struct {
	registry      *prometheus.Registry
	invoiceStatus *prometheus.CounterVec
	notifications *prometheus.CounterVec
	accessDenied  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registra los colectores bajo el namespace dado ("schoolhub").
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invoiceStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_transitions_total",
			Help:      "Invoice status transitions by target status.",
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_notifications_total",
			Help:      "Invoice notification attempts by channel and result.",
		}, []string{"channel", "result"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Requests rejected by the payment access gate.",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.invoiceStatus, m.notifications, m.accessDenied, m.httpRequests, m.httpDuration,
	)
	return m
}

func (m *Metrics) InvoiceTransition(status string) {
	m.invoiceStatus.WithLabelValues(status).Inc()
}

func (m *Metrics) NotificationResult(channel string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.notifications.WithLabelValues(channel, result).Inc()
}

// AccessDenied cuenta un rechazo del control de acceso.
func (m *Metrics) AccessDenied(reason string) {
	m.accessDenied.WithLabelValues(reason).Inc()
}

// ObserveHTTP registra una petición; route es el patrón de la ruta, no la URL concreta.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato de texto de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
