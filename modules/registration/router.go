package registration

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/saludigital/cadastro/binder"
	"github.com/saludigital/cadastro/handler"
	"github.com/saludigital/cadastro/pkg/i18n"
	"github.com/saludigital/cadastro/pkg/validator"
	svc "github.com/saludigital/cadastro/svc/registration"
)

// Handler serves the registration forms over HTTP.
type Handler struct {
	service      svc.Service
	translator   *i18n.Translator
	errorHandler handler.ErrorHandler
	submitGuard  []func(http.Handler) http.Handler
}

type Option func(*Handler)

func WithTranslator(t *i18n.Translator) Option {
	return func(h *Handler) {
		if t != nil {
			h.translator = t
		}
	}
}

func WithErrorHandler(eh handler.ErrorHandler) Option {
	return func(h *Handler) {
		if eh != nil {
			h.errorHandler = eh
		}
	}
}

// WithSubmitMiddleware guards the submit route, typically with a rate limiter.
func WithSubmitMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) { h.submitGuard = append(h.submitGuard, mw...) }
}

func NewHandler(service svc.Service, opts ...Option) *Handler {
	if service == nil {
		panic("registration: service is required")
	}
	h := &Handler{service: service, translator: i18n.New()}
	for _, opt := range opts {
		opt(h)
	}
	if h.errorHandler == nil {
		h.errorHandler = handler.NewErrorHandler(handler.ErrorHandlerConfig{
			Translator: h.translator,
			Rules:      ErrorRules(),
		})
	}
	return h
}

// ErrorRules maps registration errors to HTTP responses.
func ErrorRules() []handler.ErrorRule {
	return []handler.ErrorRule{
		{Err: svc.ErrFormNotFound, Status: http.StatusNotFound, Key: "error.not_found"},
		{Err: svc.ErrFieldNotFound, Status: http.StatusNotFound, Key: "error.not_found"},
		{Err: svc.ErrInvalidSubmission, Status: http.StatusUnprocessableEntity, Key: "submission.invalid"},
		{Err: svc.ErrDeliveryFailed, Status: http.StatusBadGateway, Key: "submission.failed"},
		{Err: svc.ErrWebhookNotSet, Status: http.StatusServiceUnavailable, Key: "submission.failed"},
	}
}

// Handle returns the routes, to be mounted under /forms.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap[struct{}](h.list, handler.WithErrorHandler[struct{}](h.errorHandler)))
	r.Get("/{form}", wrap(h, h.describe))
	r.Post("/{form}/validate", wrap(h, h.validate))
	r.Post("/{form}/fields/{field}", wrap(h, h.feedback))
	r.Post("/{form}/format", wrap(h, h.format))
	r.With(h.submitGuard...).Post("/{form}/submit", wrap(h, h.submit))

	return r
}

func wrap(h *Handler, fn handler.HandlerFunc[snapshotRequest]) http.HandlerFunc {
	return handler.Wrap(fn,
		handler.WithBinders[snapshotRequest](
			binder.Path(chi.URLParam),
			binder.Form(),
			binder.JSON(),
			binder.Signals(),
		),
		handler.WithErrorHandler[snapshotRequest](h.errorHandler),
	)
}

// snapshotRequest accepts url-encoded forms, {"values": {...}} JSON bodies
// and Datastar signals shaped the same way.
type snapshotRequest struct {
	Form   string     `path:"form" json:"-"`
	Field  string     `path:"field" json:"-"`
	Values formValues `form:"*" json:"values"`
}

func (r snapshotRequest) snapshot() svc.Snapshot {
	return svc.NewSnapshot(url.Values(r.Values))
}

type formSummary struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (h *Handler) list(_ handler.Context, _ struct{}) handler.Response {
	forms := h.service.Forms()
	out := make([]formSummary, len(forms))
	for i, f := range forms {
		out[i] = formSummary{Name: f.Name, Title: f.Title}
	}
	return handler.JSON(out)
}

func (h *Handler) describe(_ handler.Context, req snapshotRequest) handler.Response {
	f, err := h.service.Form(req.Form)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(f)
}

// evaluation is the body of a validate response.
type evaluation struct {
	Valid  bool                `json:"valid"`
	Fields map[string]bool     `json:"fields"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func (h *Handler) validate(ctx handler.Context, req snapshotRequest) handler.Response {
	snap := req.snapshot()
	res, err := h.service.Validate(ctx, req.Form, snap)
	if err != nil {
		return handler.Error(err)
	}

	if handler.IsDataStar(ctx.Request()) {
		f, err := h.service.Form(req.Form)
		if err != nil {
			return handler.Error(err)
		}
		return handler.Signals(map[string]any{
			"valid":       res.Valid,
			"fieldErrors": h.fieldErrors(ctx, f, snap, res.Errors),
		})
	}

	return handler.JSON(evaluation{
		Valid:  res.Valid,
		Fields: res.Fields,
		Errors: handler.TranslateErrors(h.translator, ctx.Language(), res.Errors),
	})
}

type feedbackResponse struct {
	svc.Feedback
	Message string `json:"message,omitempty"`
}

func (h *Handler) feedback(ctx handler.Context, req snapshotRequest) handler.Response {
	fb, err := h.service.Feedback(ctx, req.Form, req.Field, req.snapshot())
	if err != nil {
		return handler.Error(err)
	}

	resp := feedbackResponse{Feedback: fb}
	if fb.ShowError {
		resp.Message = h.firstMessage(ctx, fb.Errors, fb.Field)
	}
	if handler.IsDataStar(ctx.Request()) {
		return handler.Signals(map[string]any{
			"fieldErrors": map[string]string{fb.Field: resp.Message},
		})
	}
	return handler.JSON(resp)
}

func (h *Handler) format(ctx handler.Context, req snapshotRequest) handler.Response {
	formatted, err := h.service.Format(ctx, req.Form, req.snapshot())
	if err != nil {
		return handler.Error(err)
	}

	values := make(map[string]any, len(formatted.Fields()))
	for _, field := range formatted.Fields() {
		if vs := formatted.Values(field); len(vs) == 1 {
			values[field] = vs[0]
		} else {
			values[field] = vs
		}
	}
	if handler.IsDataStar(ctx.Request()) {
		return handler.Signals(map[string]any{"values": values})
	}
	return handler.JSON(values)
}

type submitResponse struct {
	svc.Receipt
	Message string `json:"message"`
}

func (h *Handler) submit(ctx handler.Context, req snapshotRequest) handler.Response {
	receipt, err := h.service.Submit(ctx, req.Form, req.snapshot())
	if err != nil {
		return handler.Error(err)
	}

	msg := h.translator.T(ctx.Language(), "submission.success")
	if handler.IsDataStar(ctx.Request()) {
		return handler.Signals(map[string]any{
			"submitted":   true,
			"receiptId":   receipt.ID,
			"message":     msg,
			"error":       "",
			"fieldErrors": map[string]string{},
		})
	}
	return handler.JSON(submitResponse{Receipt: receipt, Message: msg},
		handler.WithJSONStatus(http.StatusAccepted))
}

// fieldErrors returns one message per declared field, empty when the field
// is valid or still untouched, so a signal patch clears stale errors.
func (h *Handler) fieldErrors(ctx handler.Context, f *svc.Form, snap svc.Snapshot, errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, field := range f.FieldNames() {
		out[field] = ""
		if snap.Get(field) != "" {
			out[field] = h.firstMessage(ctx, errs, field)
		}
	}
	return out
}

func (h *Handler) firstMessage(ctx handler.Context, errs validator.ValidationErrors, field string) string {
	if msgs := handler.TranslateErrors(h.translator, ctx.Language(), errs)[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}
