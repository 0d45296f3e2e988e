package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/saludigital/cadastro/pkg/config"
	"github.com/saludigital/cadastro/pkg/httpserver"
	"github.com/saludigital/cadastro/pkg/logger"
	"github.com/saludigital/cadastro/pkg/webhook"
	svc "github.com/saludigital/cadastro/svc/registration"
)

const maxSinkBody = 1 << 20

func newWebhookSinkCmd() *cobra.Command {
	var (
		addr   string
		maxAge time.Duration
	)
	cmd := &cobra.Command{
		Use:   "webhook-sink",
		Short: "Receive webhook deliveries and verify their signatures",
		Long: `webhook-sink accepts POST deliveries on any path and prints one line per
submission. When WEBHOOK_SECRET is set, deliveries without a valid signature
are rejected with 401.`,
		Example: `  WEBHOOK_URL=http://localhost:9090/hook cadastro serve &
  cadastro webhook-sink --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.Load[Config](config.WithEnvFiles(envFile))
			if err != nil {
				return err
			}

			log := newLogger(cfg)
			if cfg.Webhook.Secret == "" {
				log.Warn("WEBHOOK_SECRET is not set; signatures are not checked")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpserver.New(httpserver.WithAddr(addr), httpserver.WithLogger(log))
			return srv.Run(ctx, sinkHandler(cfg.Webhook.Secret, maxAge, cmd.OutOrStdout(), log))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "listen address")
	cmd.Flags().DurationVar(&maxAge, "max-age", 5*time.Minute, "reject signatures older than this (0 disables)")
	return cmd
}

// sinkHandler verifies each delivery against secret and writes
// "<submission id> <content type> <body>" to out.
func sinkHandler(secret string, maxAge time.Duration, out io.Writer, log *slog.Logger) http.Handler {
	log = log.With(logger.Component("webhook_sink"))
	var mu sync.Mutex

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/*", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSinkBody))
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}

		id := r.Header.Get(svc.HeaderSubmissionID)
		if secret != "" {
			if err := webhook.Verify(secret, r.Header, body, maxAge); err != nil {
				log.WarnContext(r.Context(), "delivery rejected", logger.SubmissionID(id), logger.Error(err))
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}
		}

		mu.Lock()
		fmt.Fprintf(out, "%s %s %s\n", id, r.Header.Get("Content-Type"), body)
		mu.Unlock()

		log.InfoContext(r.Context(), "delivery received", logger.SubmissionID(id), slog.Int("bytes", len(body)))
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}
