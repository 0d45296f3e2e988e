package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/text/language"

	"github.com/saludigital/cadastro/pkg/i18n"
	"github.com/saludigital/cadastro/pkg/logger"
	"github.com/saludigital/cadastro/pkg/validator"
)

// ErrorRule maps errors matching Err (errors.Is) to a status and message key.
type ErrorRule struct {
	Err    error
	Status int
	Key    string
}

type ErrorHandlerConfig struct {
	Logger     *slog.Logger
	Translator *i18n.Translator
	// Rules are checked in order before HTTPError and validation errors.
	Rules []ErrorRule
}

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	Status int
	Key    string
	Fields validator.ValidationErrors
}

// Classify resolves err to a status and message key. Unknown errors are 500.
func Classify(err error, rules []ErrorRule) ErrorInfo {
	info := ErrorInfo{Status: ErrInternal.Code, Key: ErrInternal.Key}
	info.Fields = validator.ExtractValidationErrors(err)

	for _, rule := range rules {
		if errors.Is(err, rule.Err) {
			info.Status, info.Key = rule.Status, rule.Key
			return info
		}
	}

	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		info.Status, info.Key = httpErr.Code, httpErr.Key
	case validator.IsValidationError(err):
		info.Status, info.Key = http.StatusUnprocessableEntity, "submission.invalid"
	}
	return info
}

// NewErrorHandler renders errors as JSON envelopes, or as error and
// fieldErrors signals for Datastar requests. Messages are translated to the
// request language.
func NewErrorHandler(cfg ErrorHandlerConfig) ErrorHandler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.Translator == nil {
		cfg.Translator = i18n.New()
	}
	log := cfg.Logger.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := Classify(err, cfg.Rules)

		level := slog.LevelWarn
		if info.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			logger.StatusCode(info.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("datastar", IsDataStar(r)),
		)

		tag := ctx.Language()
		detail := ErrorDetail{
			Code:    info.Key,
			Message: cfg.Translator.T(tag, info.Key),
			Fields:  TranslateErrors(cfg.Translator, tag, info.Fields),
		}

		if sse := ctx.SSE(); sse != nil {
			fieldErrors := detail.Fields
			if fieldErrors == nil {
				fieldErrors = map[string][]string{}
			}
			data, mErr := json.Marshal(map[string]any{"error": detail.Message, "fieldErrors": fieldErrors})
			if mErr == nil {
				mErr = sse.PatchSignals(data)
			}
			if mErr != nil {
				log.ErrorContext(r.Context(), "failed to patch error signals", logger.Error(mErr))
			}
			return
		}

		if rErr := JSONError(info.Status, detail).Render(ctx.ResponseWriter(), r); rErr != nil {
			log.ErrorContext(r.Context(), "failed to render error", logger.Error(rErr))
		}
	}
}

// TranslateErrors groups translated messages by field. Keys missing from
// the catalog fall back to the error's own message.
func TranslateErrors(t *i18n.Translator, tag language.Tag, errs validator.ValidationErrors) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for _, e := range errs {
		msg, ok := t.Translate(tag, e.TranslationKey, e.TranslationValues)
		if !ok {
			msg = e.Message
		}
		out[e.Field] = append(out[e.Field], msg)
	}
	return out
}
