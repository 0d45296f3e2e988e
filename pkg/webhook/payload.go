package webhook

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Payload is a request body together with its content type.
type Payload interface {
	ContentType() string
	Encode() ([]byte, error)
}

type formPayload url.Values

// FormPayload sends values as application/x-www-form-urlencoded.
func FormPayload(values url.Values) Payload {
	return formPayload(values)
}

func (p formPayload) ContentType() string {
	return "application/x-www-form-urlencoded"
}

func (p formPayload) Encode() ([]byte, error) {
	return []byte(url.Values(p).Encode()), nil
}

type jsonPayload struct {
	v any
}

// JSONPayload marshals v as application/json.
func JSONPayload(v any) Payload {
	return jsonPayload{v: v}
}

func (p jsonPayload) ContentType() string {
	return "application/json"
}

func (p jsonPayload) Encode() ([]byte, error) {
	b, err := json.Marshal(p.v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return b, nil
}
