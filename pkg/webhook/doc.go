// Package webhook delivers form submissions and events to HTTP endpoints.
//
// Sender.Send POSTs a Payload (FormPayload for url-encoded forms, JSONPayload
// for JSON) and retries temporary failures with a BackoffStrategy:
//
//	sender := webhook.NewSender()
//	err := sender.Send(ctx, "https://hooks.example.com/abc",
//		webhook.FormPayload(url.Values{"name": {"Maria"}}),
//		webhook.WithMaxRetries(2),
//		webhook.WithCircuitBreaker(cb),
//	)
//
// Retry policy: network errors, timeouts, 5xx, 408, 425 and 429 are retried;
// every other 4xx fails immediately with ErrPermanentFailure. When retries run
// out Send returns ErrDeliveryFailed wrapping the last error.
//
// Every request carries an X-Webhook-ID header (WithDeliveryID or a random
// UUID). WithSignature adds X-Webhook-Timestamp and X-Webhook-Signature, and
// receivers check them with Verify.
package webhook
