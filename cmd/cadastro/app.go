package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/saludigital/cadastro/handler"
	"github.com/saludigital/cadastro/modules/account"
	"github.com/saludigital/cadastro/modules/registration"
	"github.com/saludigital/cadastro/pkg/httpserver"
	"github.com/saludigital/cadastro/pkg/i18n"
	"github.com/saludigital/cadastro/pkg/logger"
	"github.com/saludigital/cadastro/pkg/metrics"
	"github.com/saludigital/cadastro/pkg/ratelimit"
	"github.com/saludigital/cadastro/pkg/redis"
	"github.com/saludigital/cadastro/pkg/webhook"
	"github.com/saludigital/cadastro/svc/auth"
	svc "github.com/saludigital/cadastro/svc/registration"
)

// app holds the wired dependencies of the HTTP service.
type app struct {
	cfg        Config
	log        *slog.Logger
	translator *i18n.Translator
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	forms      svc.Service
	provider   auth.Provider
	store      ratelimit.Store
	checks     map[string]httpserver.Check
	closers    []func() error
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "cadastro"),
		logger.WithContextExtractors(requestIDExtractor, auth.UserIDExtractor),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	return logger.New(opts...)
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return logger.RequestID(id), true
	}
	return slog.Attr{}, false
}

func newApp(ctx context.Context, cfg Config, log *slog.Logger) (*app, error) {
	a := &app{
		cfg:        cfg,
		log:        log,
		translator: i18n.New(),
		registry:   metrics.NewRegistry(),
		checks:     make(map[string]httpserver.Check),
	}
	a.metrics = metrics.New(a.registry)

	forms, err := loadRegistry(cfg.FormsFile)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.checks["redis"] = redis.Healthcheck(client)
		a.store = ratelimit.NewRedisStore(client)
	} else {
		mem := ratelimit.NewMemoryStore()
		go mem.RunCleanup(ctx, time.Minute)
		a.store = mem
	}

	a.provider, err = newProvider(cfg.Auth, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Webhook.URL == "" {
		log.Warn("WEBHOOK_URL is not set; submissions will be rejected")
	}
	a.forms = svc.NewService(forms,
		svc.WithWebhook(cfg.Webhook.URL),
		svc.WithSigningSecret(cfg.Webhook.Secret),
		svc.WithDeliveryRetries(cfg.Webhook.Retries),
		svc.WithDeliveryTimeout(cfg.Webhook.Timeout),
		svc.WithPayloadFormat(cfg.Webhook.Format),
		svc.WithCircuitBreaker(webhook.NewCircuitBreaker(5, 1, 30*time.Second)),
		svc.WithLogger(log),
		svc.WithMetrics(a.metrics),
	)
	return a, nil
}

func newProvider(cfg AuthConfig, log *slog.Logger) (auth.Provider, error) {
	if cfg.Provider == providerGoTrue {
		return auth.NewGoTrueProvider(cfg.GoTrueURL, cfg.GoTrueKey), nil
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("AUTH_JWT_SECRET is not set; sessions will not survive a restart")
	}
	p := auth.NewMemoryProvider(secret, auth.WithTokenTTL(cfg.TokenTTL))
	if cfg.DevEmail != "" {
		if _, err := p.AddUser(cfg.DevEmail, cfg.DevPassword); err != nil {
			return nil, fmt.Errorf("seed dev user: %w", err)
		}
		log.Info("memory auth provider seeded", slog.String("email", cfg.DevEmail))
	}
	return p, nil
}

// Close releases external connections.
func (a *app) Close() {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Error("failed to close resources", logger.Error(err))
	}
}

func (a *app) limiter(prefix string, cfg ratelimit.Config, eh handler.ErrorHandler) (func(http.Handler) http.Handler, error) {
	l, err := ratelimit.New(a.store, prefix, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s rate limit: %w", prefix, err)
	}
	return ratelimit.Middleware(l, ratelimit.ByIP,
		ratelimit.WithLogger(a.log),
		ratelimit.WithOnLimited(func(w http.ResponseWriter, r *http.Request, _ ratelimit.Result) {
			eh(handler.NewContext(w, r), ratelimit.ErrLimitExceeded)
		}),
	), nil
}

// routes builds the HTTP surface:
//
//	/health/live, /health/ready, /metrics
//	/forms/...  registration forms
//	/auth/...   sign-in and session management
func (a *app) routes() (http.Handler, error) {
	limited := handler.ErrorRule{Err: ratelimit.ErrLimitExceeded, Status: http.StatusTooManyRequests, Key: "error.rate_limited"}

	formErrors := handler.NewErrorHandler(handler.ErrorHandlerConfig{
		Logger:     a.log,
		Translator: a.translator,
		Rules:      append(registration.ErrorRules(), limited),
	})
	authErrors := handler.NewErrorHandler(handler.ErrorHandlerConfig{
		Logger:     a.log,
		Translator: a.translator,
		Rules:      append(account.ErrorRules(), limited),
	})

	submitGuard, err := a.limiter("submit", a.cfg.SubmitRate, formErrors)
	if err != nil {
		return nil, err
	}
	loginGuard, err := a.limiter("login", a.cfg.LoginRate, authErrors)
	if err != nil {
		return nil, err
	}

	forms := registration.NewHandler(a.forms,
		registration.WithTranslator(a.translator),
		registration.WithErrorHandler(formErrors),
		registration.WithSubmitMiddleware(submitGuard),
	)
	accounts := account.NewHandler(a.provider,
		account.WithCookieConfig(a.cfg.Cookie),
		account.WithTranslator(a.translator),
		account.WithErrorHandler(authErrors),
		account.WithLoginMiddleware(loginGuard),
		account.WithMetrics(a.metrics),
		account.WithLogger(a.log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(i18n.Middleware(a.translator))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.log, a.checks))
	r.Handle("/metrics", metrics.Handler(a.registry))

	r.Mount("/forms", forms.Handle())
	r.Mount("/auth", accounts.Handle())
	return r, nil
}
