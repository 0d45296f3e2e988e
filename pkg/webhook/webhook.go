package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserAgent is sent with every delivery.
const UserAgent = "cadastro-webhook/1.0"

// Sender delivers payloads to webhook endpoints with retries.
// Zero value is not usable; use NewSender to create instances.
type Sender struct {
	client *http.Client
}

// NewSender creates a sender with a pooled HTTP client.
func NewSender() *Sender {
	return &Sender{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewSenderWithClient creates a sender around a custom HTTP client.
func NewSenderWithClient(client *http.Client) *Sender {
	if client == nil {
		return NewSender()
	}
	return &Sender{client: client}
}

// Send POSTs payload to webhookURL, retrying temporary failures.
//
//	err := sender.Send(ctx, hookURL, webhook.FormPayload(values),
//		webhook.WithDeliveryID(receiptID),
//		webhook.WithMaxRetries(2),
//	)
//
// Non-retryable 4xx responses return ErrPermanentFailure immediately.
// Exhausted retries return ErrDeliveryFailed wrapping the last attempt's error.
func (s *Sender) Send(ctx context.Context, webhookURL string, payload Payload, opts ...SendOption) error {
	if err := validateURL(webhookURL); err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("%w: payload is nil", ErrInvalidPayload)
	}

	body, err := payload.Encode()
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}

	options := defaultSendOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.deliveryID == "" {
		options.deliveryID = uuid.NewString()
	}

	if options.circuitBreaker != nil && !options.circuitBreaker.Allow() {
		return ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= options.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(options.backoffStrategy.NextInterval(attempt)):
			}
		}

		result, err := s.attempt(ctx, webhookURL, payload.ContentType(), body, options)
		result.Attempt = attempt + 1
		if options.onDelivery != nil {
			options.onDelivery(result)
		}

		if options.circuitBreaker != nil {
			if err == nil {
				options.circuitBreaker.RecordSuccess()
			} else {
				options.circuitBreaker.RecordFailure()
			}
		}

		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return errors.Join(ctx.Err(), err)
		}
		if isPermanent(result.StatusCode) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}
		if options.circuitBreaker != nil && !options.circuitBreaker.Allow() {
			return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, options.maxRetries+1, lastErr)
}

func validateURL(webhookURL string) error {
	if webhookURL == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return nil
}

func (s *Sender) attempt(ctx context.Context, webhookURL, contentType string, body []byte, options *sendOptions) (DeliveryResult, error) {
	start := time.Now()
	result := DeliveryResult{DeliveryID: options.deliveryID}

	reqCtx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		result.Error = err
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range options.headers {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(HeaderID, options.deliveryID)
	if options.signatureSecret != "" {
		signRequest(req, options.signatureSecret, body, start)
	}

	resp, err := s.client.Do(req)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return result, fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	// Bounded read keeps the connection reusable and the error message short.
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if result.Success {
		return result, nil
	}

	msg := fmt.Sprintf("webhook returned status %d", resp.StatusCode)
	if text := strings.ReplaceAll(strings.TrimSpace(string(respBody)), "\n", " "); text != "" {
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		msg += ": " + text
	}
	result.Error = errors.New(msg)
	return result, result.Error
}

// isPermanent reports 4xx responses that a retry will not fix.
func isPermanent(statusCode int) bool {
	if statusCode < 400 || statusCode >= 500 {
		return false
	}
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}
