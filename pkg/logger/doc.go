// Package logger builds *slog.Logger instances with functional options.
//
// New picks a JSON or text handler, applies static attributes and wraps the
// handler in a ContextHandler that adds request-scoped attributes at log time:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "cadastro"),
//		logger.WithLevelName(cfg.LogLevel),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id := middleware.GetReqID(ctx)
//			return logger.RequestID(id), id != ""
//		}),
//	)
//	log.InfoContext(ctx, "submission delivered", logger.Form("cadastro"), logger.SubmissionID(id))
//
// Attribute helpers keep key names consistent across packages. Error and the
// ID helpers return an empty Attr for zero values so callers can skip nil checks.
package logger
