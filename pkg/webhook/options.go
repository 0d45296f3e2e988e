package webhook

import (
	"net/http"
	"time"
)

// DeliveryResult describes one HTTP attempt.
type DeliveryResult struct {
	DeliveryID string
	Attempt    int
	StatusCode int
	Success    bool
	Duration   time.Duration
	Error      error
}

// DeliveryHook is called after each delivery attempt
type DeliveryHook func(result DeliveryResult)

type sendOptions struct {
	timeout         time.Duration
	headers         http.Header
	maxRetries      int
	backoffStrategy BackoffStrategy
	signatureSecret string
	deliveryID      string
	circuitBreaker  *CircuitBreaker
	onDelivery      DeliveryHook
}

func defaultSendOptions() *sendOptions {
	return &sendOptions{
		timeout:         10 * time.Second,
		headers:         make(http.Header),
		maxRetries:      2,
		backoffStrategy: DefaultBackoffStrategy(),
	}
}

// SendOption is a functional option for configuring webhook sends
type SendOption func(*sendOptions)

// WithTimeout sets the per-attempt timeout. Default is 10 seconds.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a request header. Content-Type is always taken from the payload.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key != "" && value != "" {
			o.headers.Set(key, value)
		}
	}
}

// WithMaxRetries sets how many times a failed attempt is retried. Default is 2.
func WithMaxRetries(n int) SendOption {
	return func(o *sendOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

func WithBackoff(strategy BackoffStrategy) SendOption {
	return func(o *sendOptions) {
		if strategy != nil {
			o.backoffStrategy = strategy
		}
	}
}

// WithNoRetry disables all retry attempts
func WithNoRetry() SendOption {
	return WithMaxRetries(0)
}

// WithSignature signs the body with HMAC-SHA256; see Sign.
func WithSignature(secret string) SendOption {
	return func(o *sendOptions) {
		o.signatureSecret = secret
	}
}

// WithDeliveryID sets the X-Webhook-ID header. A random UUID is used otherwise.
func WithDeliveryID(id string) SendOption {
	return func(o *sendOptions) {
		o.deliveryID = id
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) SendOption {
	return func(o *sendOptions) {
		o.circuitBreaker = cb
	}
}

func WithOnDelivery(hook DeliveryHook) SendOption {
	return func(o *sendOptions) {
		o.onDelivery = hook
	}
}
