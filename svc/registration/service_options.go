package registration

import (
	"log/slog"
	"time"

	"github.com/saludigital/cadastro/pkg/metrics"
	"github.com/saludigital/cadastro/pkg/webhook"
)

type ServiceOption func(*service)

// WithWebhook sets the endpoint submissions are posted to.
func WithWebhook(url string) ServiceOption {
	return func(s *service) { s.webhookURL = url }
}

// WithPayloadFormat selects the webhook body encoding. Unknown formats are ignored.
func WithPayloadFormat(f PayloadFormat) ServiceOption {
	return func(s *service) {
		if f.Valid() {
			s.format = f
		}
	}
}

// WithDeliverer replaces the default webhook.Sender.
func WithDeliverer(d Deliverer) ServiceOption {
	return func(s *service) {
		if d != nil {
			s.deliverer = d
		}
	}
}

// WithSigningSecret signs deliveries with HMAC-SHA256.
func WithSigningSecret(secret string) ServiceOption {
	return func(s *service) { s.secret = secret }
}

func WithDeliveryRetries(n int) ServiceOption {
	return func(s *service) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

func WithDeliveryTimeout(d time.Duration) ServiceOption {
	return func(s *service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithCircuitBreaker(cb *webhook.CircuitBreaker) ServiceOption {
	return func(s *service) { s.breaker = cb }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *service) { s.metrics = m }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}
