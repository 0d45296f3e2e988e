package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cadastro",
		Short: "Registration form validation and delivery service",
		Long: `cadastro validates Brazilian registration forms (CPF, CNPJ, CEP, phone
numbers) and forwards accepted submissions to a webhook.

Run "cadastro serve" for the HTTP API, or use the check, forms and validate
commands to exercise the rule tables from the terminal. "cadastro webhook-sink"
receives and verifies deliveries during local development.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().String("forms", "", "YAML rule table replacing the built-in forms")

	root.AddCommand(newServeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newFormsCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newWebhookSinkCmd())
	return root
}
