package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registration and auth collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Evaluations      *prometheus.CounterVec
	FieldFailures    *prometheus.CounterVec
	Submissions      *prometheus.CounterVec
	DeliveryDuration *prometheus.HistogramVec
	DeliveryAttempts *prometheus.CounterVec
	Logins           *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_form_evaluations_total",
			Help: "Form evaluations by form and outcome",
		}, []string{"form", "outcome"}), // outcome: "valid", "invalid"

		FieldFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_field_failures_total",
			Help: "Invalid field results by form and field",
		}, []string{"form", "field"}),

		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_submissions_total",
			Help: "Submissions by form and outcome",
		}, []string{"form", "outcome"}), // outcome: "delivered", "invalid", "failed"

		DeliveryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cadastro_webhook_delivery_duration_seconds",
			Help:    "Webhook delivery duration including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"form"}),

		DeliveryAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_webhook_attempts_total",
			Help: "Webhook HTTP attempts by status class",
		}, []string{"status"}), // status: "2xx", "4xx", "5xx", "error"

		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}
}

// NewRegistry returns a registry preloaded with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveEvaluation(form string, valid bool, failedFields []string) {
	if m == nil {
		return
	}
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.Evaluations.WithLabelValues(form, outcome).Inc()
	for _, field := range failedFields {
		m.FieldFailures.WithLabelValues(form, field).Inc()
	}
}

func (m *Metrics) ObserveSubmission(form, outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(form, outcome).Inc()
	}
}

func (m *Metrics) ObserveDelivery(form string, d time.Duration) {
	if m != nil {
		m.DeliveryDuration.WithLabelValues(form).Observe(d.Seconds())
	}
}

// ObserveAttempt records one webhook HTTP attempt. A zero status means the
// request never got a response.
func (m *Metrics) ObserveAttempt(status int) {
	if m == nil {
		return
	}
	class := "error"
	switch {
	case status >= 500:
		class = "5xx"
	case status >= 400:
		class = "4xx"
	case status >= 300:
		class = "3xx"
	case status >= 200:
		class = "2xx"
	}
	m.DeliveryAttempts.WithLabelValues(class).Inc()
}

func (m *Metrics) ObserveLogin(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}
