// Package httpserver runs an http.Handler until its context is cancelled and
// then shuts it down gracefully. It also provides liveness and readiness
// handlers.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
package httpserver
