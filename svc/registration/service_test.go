package registration_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludigital/cadastro/pkg/metrics"
	"github.com/saludigital/cadastro/pkg/validator"
	"github.com/saludigital/cadastro/pkg/webhook"
	"github.com/saludigital/cadastro/svc/registration"
)

type recordingDeliverer struct {
	mu      sync.Mutex
	url     string
	payload webhook.Payload
	err     error
	calls   int
}

func (d *recordingDeliverer) Send(_ context.Context, u string, p webhook.Payload, _ ...webhook.SendOption) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.url = u
	d.payload = p
	return d.err
}

func TestService_Validate(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := registration.NewService(registration.Builtin(), registration.WithMetrics(m))

	data := validCadastro()
	data["cpf"] = "111.111.111-11"
	res, err := svc.Validate(context.Background(), "cadastro", registration.SnapshotFromMap(data))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"cpf"}, res.Errors.Fields())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FieldFailures.WithLabelValues("cadastro", "cpf")))

	data = validCadastro()
	data["salesRep"] = "\x1b"
	res, err = svc.Validate(context.Background(), "cadastro", registration.SnapshotFromMap(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"salesRep"}, res.Errors.Fields())

	_, err = svc.Validate(context.Background(), "missing", registration.NewSnapshot(nil))
	assert.ErrorIs(t, err, registration.ErrFormNotFound)
}

func TestService_Feedback(t *testing.T) {
	t.Parallel()

	svc := registration.NewService(registration.Builtin())
	fb, err := svc.Feedback(context.Background(), "plano", "phone",
		registration.SnapshotFromMap(map[string]string{"phoneType": "Celular", "phone": "(21) 93456-7890"}))
	require.NoError(t, err)
	assert.True(t, fb.Valid)

	_, err = svc.Feedback(context.Background(), "plano", "nope", registration.NewSnapshot(nil))
	assert.ErrorIs(t, err, registration.ErrFieldNotFound)
}

func TestService_Submit(t *testing.T) {
	t.Parallel()

	t.Run("delivers form values", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{}
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
			registration.WithClock(func() time.Time { return now }),
		)

		receipt, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(validCadastro()))
		require.NoError(t, err)
		assert.NotEmpty(t, receipt.ID)
		assert.Equal(t, "cadastro", receipt.Form)
		assert.Equal(t, now, receipt.SubmittedAt)

		assert.Equal(t, "https://hooks.example.com/abc", d.url)
		assert.Equal(t, "application/x-www-form-urlencoded", d.payload.ContentType())
		body, err := d.payload.Encode()
		require.NoError(t, err)
		values, err := url.ParseQuery(string(body))
		require.NoError(t, err)
		assert.Equal(t, "529.982.247-25", values.Get("cpf"), "masks are kept")
		assert.Equal(t, "Maria Silva", values.Get("name"))
	})

	t.Run("cleans values before delivery", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{}
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
		)

		data := validCadastro()
		data["name"] = "  Maria \t\n Silva\x00 "
		data["address"] = "Av.\u00a0Paulista,   1000\r\n"
		_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(data))
		require.NoError(t, err)

		body, err := d.payload.Encode()
		require.NoError(t, err)
		values, err := url.ParseQuery(string(body))
		require.NoError(t, err)
		assert.Equal(t, "Maria Silva", values.Get("name"))
		assert.Equal(t, "Av. Paulista, 1000", values.Get("address"))
	})

	t.Run("control characters alone do not satisfy required", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{}
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
		)

		data := validCadastro()
		data["salesRep"] = "\x00\x07"
		_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(data))
		assert.ErrorIs(t, err, registration.ErrInvalidSubmission)
		assert.True(t, validator.ExtractValidationErrors(err).Has("salesRep"))
		assert.Zero(t, d.calls)
	})

	t.Run("masked empty phone is not delivered", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{}
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
		)

		data := validCadastro()
		data["phone"] = "(  ) "
		_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(data))
		assert.ErrorIs(t, err, registration.ErrInvalidSubmission)
		assert.Equal(t, []string{"phone"}, validator.ExtractValidationErrors(err).Fields())
		assert.Zero(t, d.calls)
	})

	t.Run("json payload", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{}
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
			registration.WithPayloadFormat(registration.PayloadJSON),
		)

		receipt, err := svc.Submit(context.Background(), "plano", registration.NewSnapshot(validPlano()))
		require.NoError(t, err)
		assert.Equal(t, "application/json", d.payload.ContentType())

		body, err := d.payload.Encode()
		require.NoError(t, err)
		var got struct {
			ID     string         `json:"id"`
			Form   string         `json:"form"`
			Values map[string]any `json:"values"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, receipt.ID, got.ID)
		assert.Equal(t, "plano", got.Form)
		assert.Equal(t, "carlos@example.com", got.Values["email"])
		assert.Equal(t, []any{"Essencial", "Premium"}, got.Values["plans"])
	})

	t.Run("unknown payload format keeps form encoding", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{}
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
			registration.WithPayloadFormat("xml"),
		)

		_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(validCadastro()))
		require.NoError(t, err)
		assert.Equal(t, "application/x-www-form-urlencoded", d.payload.ContentType())
	})

	t.Run("invalid snapshot is not delivered", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{}
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
		)

		data := validCadastro()
		data["whatsapp"] = "123"
		_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(data))
		require.Error(t, err)
		assert.ErrorIs(t, err, registration.ErrInvalidSubmission)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
		assert.True(t, validator.ExtractValidationErrors(err).Has("whatsapp"))
		assert.Zero(t, d.calls)
	})

	t.Run("delivery failure", func(t *testing.T) {
		t.Parallel()
		d := &recordingDeliverer{err: webhook.ErrDeliveryFailed}
		svc := registration.NewService(registration.Builtin(),
			registration.WithWebhook("https://hooks.example.com/abc"),
			registration.WithDeliverer(d),
		)

		_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(validCadastro()))
		assert.ErrorIs(t, err, registration.ErrDeliveryFailed)
		assert.ErrorIs(t, err, webhook.ErrDeliveryFailed)
	})

	t.Run("webhook not configured", func(t *testing.T) {
		t.Parallel()
		svc := registration.NewService(registration.Builtin())
		_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(validCadastro()))
		assert.ErrorIs(t, err, registration.ErrWebhookNotSet)
	})
}

func TestService_Submit_RealSender(t *testing.T) {
	t.Parallel()

	var got http.Header
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := registration.NewService(registration.Builtin(),
		registration.WithWebhook(server.URL),
		registration.WithSigningSecret("s3cret"),
		registration.WithCircuitBreaker(webhook.NewCircuitBreaker(3, 1, time.Minute)),
	)

	receipt, err := svc.Submit(context.Background(), "plano", registration.NewSnapshot(validPlano()))
	require.NoError(t, err)
	assert.Equal(t, receipt.ID, got.Get(registration.HeaderSubmissionID))
	assert.Equal(t, receipt.ID, got.Get(webhook.HeaderID))
	require.NoError(t, webhook.Verify("s3cret", got, body, time.Minute))
	assert.Error(t, webhook.Verify("other", got, body, time.Minute))

	form, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"Essencial", "Premium"}, form["plans"])
}

func TestService_Submit_RemoteRejects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer server.Close()

	svc := registration.NewService(registration.Builtin(), registration.WithWebhook(server.URL))
	_, err := svc.Submit(context.Background(), "cadastro", registration.SnapshotFromMap(validCadastro()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, webhook.ErrPermanentFailure))
	assert.ErrorIs(t, err, registration.ErrDeliveryFailed)
}

func TestService_FormsAndFormat(t *testing.T) {
	t.Parallel()

	svc := registration.NewService(registration.Builtin())
	forms := svc.Forms()
	require.Len(t, forms, 2)
	assert.Equal(t, "cadastro", forms[0].Name)

	out, err := svc.Format(context.Background(), "cadastro", registration.SnapshotFromMap(map[string]string{"cpf": "52998224725"}))
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25", out.Get("cpf"))

	_, err = svc.Format(context.Background(), "x", registration.NewSnapshot(nil))
	assert.ErrorIs(t, err, registration.ErrFormNotFound)
}
