package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saludigital/cadastro/pkg/sanitizer"
	"github.com/saludigital/cadastro/pkg/validator"
)

var errInvalidDocument = errors.New("invalid document")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a CPF or CNPJ by its check digits",
		Example: `  cadastro check cpf 529.982.247-25
  cadastro check cnpj 11222333000181`,
	}
	cmd.AddCommand(
		documentCmd("cpf", "Check a CPF (11 digits)", validator.IsCPF, sanitizer.FormatCPF),
		documentCmd("cnpj", "Check a CNPJ (14 digits)", validator.IsCNPJ, sanitizer.FormatCNPJ),
	)
	return cmd
}

func documentCmd(kind, short string, valid func(string) bool, format func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <value>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[0]
			if !valid(value) {
				return fmt.Errorf("%w: %s %q", errInvalidDocument, kind, value)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: valid\n", kind, format(value))
			return nil
		},
	}
}
