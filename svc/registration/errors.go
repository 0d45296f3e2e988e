package registration

import "errors"

var (
	ErrFormNotFound      = errors.New("form not found")
	ErrFieldNotFound     = errors.New("field not found")
	ErrInvalidSubmission = errors.New("submission is invalid")
	ErrDeliveryFailed    = errors.New("submission delivery failed")
	ErrInvalidTable      = errors.New("invalid form table")
	ErrWebhookNotSet     = errors.New("webhook URL is not configured")
)
