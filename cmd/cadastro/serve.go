package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saludigital/cadastro/pkg/config"
	"github.com/saludigital/cadastro/pkg/httpserver"
	"github.com/saludigital/cadastro/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.Load[Config](config.WithEnvFiles(envFile))
			if err != nil {
				return err
			}
			if forms, _ := cmd.Flags().GetString("forms"); forms != "" {
				cfg.FormsFile = forms
			}

			log := newLogger(cfg)
			logger.SetAsDefault(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			routes, err := a.routes()
			if err != nil {
				return err
			}

			srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
			return srv.Run(ctx, routes)
		},
	}
}
