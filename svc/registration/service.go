package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saludigital/cadastro/pkg/logger"
	"github.com/saludigital/cadastro/pkg/metrics"
	"github.com/saludigital/cadastro/pkg/sanitizer"
	"github.com/saludigital/cadastro/pkg/validator"
	"github.com/saludigital/cadastro/pkg/webhook"
)

// HeaderSubmissionID carries the receipt ID on webhook deliveries.
const HeaderSubmissionID = "X-Submission-ID"

// Service evaluates and submits registration forms.
type Service interface {
	Forms() []*Form
	Form(name string) (*Form, error)
	Validate(ctx context.Context, form string, s Snapshot) (validator.Result, error)
	Feedback(ctx context.Context, form, field string, s Snapshot) (Feedback, error)
	Format(ctx context.Context, form string, s Snapshot) (Snapshot, error)
	Submit(ctx context.Context, form string, s Snapshot) (Receipt, error)
}

// PayloadFormat selects how submissions are encoded for the webhook.
type PayloadFormat string

const (
	// PayloadForm posts the values as application/x-www-form-urlencoded.
	PayloadForm PayloadFormat = "form"
	// PayloadJSON posts a Submission as application/json.
	PayloadJSON PayloadFormat = "json"
)

func (f PayloadFormat) Valid() bool {
	return f == PayloadForm || f == PayloadJSON
}

// Submission is the JSON webhook body. Single values are strings and
// repeated fields are lists.
type Submission struct {
	Receipt
	Values map[string]any `json:"values"`
}

// cleanValue flattens whitespace and drops control characters. Validate,
// Feedback and Submit all evaluate cleaned values.
var cleanValue = sanitizer.Compose(sanitizer.NormalizeWhitespace, sanitizer.StripControl, sanitizer.Trim)

// Receipt acknowledges a delivered submission.
type Receipt struct {
	ID          string    `json:"id"`
	Form        string    `json:"form"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Deliverer sends a payload to a webhook. *webhook.Sender implements it.
type Deliverer interface {
	Send(ctx context.Context, url string, payload webhook.Payload, opts ...webhook.SendOption) error
}

type service struct {
	registry   *Registry
	deliverer  Deliverer
	webhookURL string
	secret     string
	format     PayloadFormat
	maxRetries int
	timeout    time.Duration
	breaker    *webhook.CircuitBreaker
	log        *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewService creates a Service over registry. Panics if registry is nil.
func NewService(registry *Registry, opts ...ServiceOption) Service {
	if registry == nil {
		panic("registration: registry is required")
	}

	s := &service{
		registry:   registry,
		format:     PayloadForm,
		maxRetries: 2,
		timeout:    10 * time.Second,
		log:        logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.deliverer == nil {
		s.deliverer = webhook.NewSender()
	}
	s.log = s.log.With(logger.Component("registration"))
	return s
}

func (s *service) Forms() []*Form {
	names := s.registry.Names()
	forms := make([]*Form, 0, len(names))
	for _, n := range names {
		f, _ := s.registry.Get(n)
		forms = append(forms, f)
	}
	return forms
}

func (s *service) Form(name string) (*Form, error) {
	return s.registry.Get(name)
}

func (s *service) Validate(ctx context.Context, form string, snap Snapshot) (validator.Result, error) {
	f, err := s.registry.Get(form)
	if err != nil {
		return validator.Result{}, err
	}

	res := f.Check(snap.Map(cleanValue))
	s.metrics.ObserveEvaluation(form, res.Valid, res.Errors.Fields())
	s.log.DebugContext(ctx, "form evaluated",
		logger.Form(form),
		slog.Bool("valid", res.Valid),
		logger.Fields(res.Errors.Fields()),
	)
	return res, nil
}

func (s *service) Feedback(ctx context.Context, form, field string, snap Snapshot) (Feedback, error) {
	f, err := s.registry.Get(form)
	if err != nil {
		return Feedback{}, err
	}
	snap = snap.Map(cleanValue)
	fb, err := f.FieldFeedback(field, snap, f.ToggleState(snap))
	if err != nil {
		return Feedback{}, fmt.Errorf("%w: %s", err, field)
	}
	return fb, nil
}

func (s *service) Format(_ context.Context, form string, snap Snapshot) (Snapshot, error) {
	f, err := s.registry.Get(form)
	if err != nil {
		return Snapshot{}, err
	}
	return f.Format(snap), nil
}

// Submit cleans and re-evaluates the snapshot and, when valid, posts the
// cleaned values to the webhook in the configured format.
func (s *service) Submit(ctx context.Context, form string, snap Snapshot) (Receipt, error) {
	f, err := s.registry.Get(form)
	if err != nil {
		return Receipt{}, err
	}

	snap = snap.Map(cleanValue)
	res := f.Check(snap)
	if !res.Valid {
		s.metrics.ObserveSubmission(form, "invalid")
		s.log.InfoContext(ctx, "submission rejected", logger.Form(form), logger.Fields(res.Errors.Fields()))
		return Receipt{}, errors.Join(ErrInvalidSubmission, res.Errors)
	}

	if s.webhookURL == "" {
		return Receipt{}, ErrWebhookNotSet
	}

	receipt := Receipt{ID: uuid.NewString(), Form: form, SubmittedAt: s.now().UTC()}
	log := s.log.With(logger.Form(form), logger.SubmissionID(receipt.ID))

	opts := []webhook.SendOption{
		webhook.WithDeliveryID(receipt.ID),
		webhook.WithHeader(HeaderSubmissionID, receipt.ID),
		webhook.WithMaxRetries(s.maxRetries),
		webhook.WithTimeout(s.timeout),
		webhook.WithOnDelivery(func(r webhook.DeliveryResult) {
			s.metrics.ObserveAttempt(r.StatusCode)
			log.DebugContext(ctx, "webhook attempt",
				logger.Attempt(r.Attempt),
				logger.StatusCode(r.StatusCode),
				logger.Duration(r.Duration),
				logger.Error(r.Error),
			)
		}),
	}
	if s.secret != "" {
		opts = append(opts, webhook.WithSignature(s.secret))
	}
	if s.breaker != nil {
		opts = append(opts, webhook.WithCircuitBreaker(s.breaker))
	}

	start := time.Now()
	err = s.deliverer.Send(ctx, s.webhookURL, s.payload(receipt, snap), opts...)
	s.metrics.ObserveDelivery(form, time.Since(start))
	if err != nil {
		s.metrics.ObserveSubmission(form, "failed")
		log.ErrorContext(ctx, "submission delivery failed", logger.Error(err))
		return Receipt{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	s.metrics.ObserveSubmission(form, "delivered")
	log.InfoContext(ctx, "submission delivered", slog.String("cpf", sanitizer.MaskCPF(snap.Get("cpf"))))
	return receipt, nil
}

func (s *service) payload(receipt Receipt, snap Snapshot) webhook.Payload {
	if s.format != PayloadJSON {
		return webhook.FormPayload(snap.Encode())
	}

	values := make(map[string]any, len(snap.Fields()))
	for _, field := range snap.Fields() {
		if vs := snap.Values(field); len(vs) == 1 {
			values[field] = vs[0]
		} else {
			values[field] = vs
		}
	}
	return webhook.JSONPayload(Submission{Receipt: receipt, Values: values})
}
