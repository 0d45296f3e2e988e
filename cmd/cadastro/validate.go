package main

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saludigital/cadastro/handler"
	"github.com/saludigital/cadastro/pkg/i18n"
	svc "github.com/saludigital/cadastro/svc/registration"
)

var errInvalidForm = errors.New("form is invalid")

func newValidateCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "validate <form> [field=value...]",
		Short: "Evaluate a form against its rule table",
		Example: `  cadastro validate cadastro name="Maria Silva" cpf=529.982.247-25 isCnpj=Não
  cadastro validate plano expertise=Vendas expertise=Marketing --lang en`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("forms")
			registry, err := loadRegistry(path)
			if err != nil {
				return err
			}

			values := url.Values{}
			for _, kv := range args[1:] {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid argument %q: expected field=value", kv)
				}
				values.Add(k, v)
			}

			res, err := svc.NewService(registry).Validate(cmd.Context(), args[0], svc.NewSnapshot(values))
			if err != nil {
				return err
			}

			tr := i18n.New()
			messages := handler.TranslateErrors(tr, tr.Match(lang), res.Errors)

			out := cmd.OutOrStdout()
			for _, f := range slices.Sorted(maps.Keys(res.Fields)) {
				if res.Fields[f] {
					fmt.Fprintf(out, "ok    %s\n", f)
					continue
				}
				fmt.Fprintf(out, "fail  %s: %s\n", f, strings.Join(messages[f], "; "))
			}

			if !res.Valid {
				return errInvalidForm
			}
			fmt.Fprintln(out, "valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "pt-BR", "language of the error messages")
	return cmd
}
